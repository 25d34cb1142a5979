// Package config loads CLI/env/file configuration for the validate and
// monitor subcommands, merging flags, environment variables, and an
// optional config file through viper.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sourceverify/sourceverify/internal/monitor"
)

// ValidateConfig holds configuration for the `validate` subcommand.
type ValidateConfig struct {
	Paths    []string
	LogLevel string
}

// MonitorConfig holds configuration for the `monitor` subcommand: the
// adaptive-pacing tunables named in spec §6, plus the chain list and
// checkpoint location.
type MonitorConfig struct {
	ChainsFile        string
	UseTestChains      bool
	CheckpointDir     string
	CheckpointEnabled bool
	PostgresDSN       string
	LogLevel          string

	Monitor monitor.Config

	// StartBlockOverrides is MONITOR_START_<chainId> parsed from the
	// environment: chain id -> starting block.
	StartBlockOverrides map[uint64]uint64
}

// LoadValidate merges flags, environment (INDEXER_ prefix carried from the
// teacher's convention), and an optional config file into ValidateConfig.
func LoadValidate(cfgFile string, flags *pflag.FlagSet) (ValidateConfig, error) {
	v := newViper(cfgFile)
	v.SetEnvPrefix("INDEXER")
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ValidateConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	return ValidateConfig{
		Paths:    getStringSlice(v, "path"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

// LoadMonitor merges flags, environment variables, and an optional config
// file into MonitorConfig, binding every variable in spec §6's
// environment-configuration table.
func LoadMonitor(cfgFile string, flags *pflag.FlagSet) (MonitorConfig, error) {
	v := newViper(cfgFile)

	v.SetDefault("block-pause-factor", 1.1)
	v.SetDefault("block-pause-upper-limit", 30000)
	v.SetDefault("block-pause-lower-limit", 500)
	v.SetDefault("web3-timeout", 3000)
	v.SetDefault("get-bytecode-retry-pause", 5000)
	v.SetDefault("get-block-pause", 10000)
	v.SetDefault("initial-get-bytecode-tries", 3)
	v.SetDefault("checkpoint-enabled", true)
	v.SetDefault("checkpoint-dir", "./data/checkpoints")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return MonitorConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	mcfg := monitor.Config{
		Factor:                  v.GetFloat64("block-pause-factor"),
		UpperLimit:              time.Duration(v.GetInt64("block-pause-upper-limit")) * time.Millisecond,
		LowerLimit:              time.Duration(v.GetInt64("block-pause-lower-limit")) * time.Millisecond,
		Web3Timeout:             time.Duration(v.GetInt64("web3-timeout")) * time.Millisecond,
		GetBytecodeRetryPause:   time.Duration(v.GetInt64("get-bytecode-retry-pause")) * time.Millisecond,
		GetBlockPause:           time.Duration(v.GetInt64("get-block-pause")) * time.Millisecond,
		InitialGetBytecodeTries: v.GetInt("initial-get-bytecode-tries"),
	}

	return MonitorConfig{
		ChainsFile:          v.GetString("chains-file"),
		UseTestChains:       v.GetBool("use-test-chains"),
		CheckpointDir:       v.GetString("checkpoint-dir"),
		CheckpointEnabled:   v.GetBool("checkpoint-enabled"),
		PostgresDSN:         v.GetString("postgres-dsn"),
		LogLevel:            v.GetString("log-level"),
		Monitor:             mcfg,
		StartBlockOverrides: parseMonitorStartOverrides(),
	}, nil
}

// parseMonitorStartOverrides scans the process environment for
// MONITOR_START_<chainId> variables, per spec §6.
func parseMonitorStartOverrides() map[uint64]uint64 {
	const prefix = "MONITOR_START_"
	overrides := make(map[uint64]uint64)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], prefix) {
			continue
		}
		chainIDStr := strings.TrimPrefix(parts[0], prefix)
		chainID, err := strconv.ParseUint(chainIDStr, 10, 64)
		if err != nil {
			continue
		}
		block, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			continue
		}
		overrides[chainID] = block
	}
	return overrides
}

func newViper(cfgFile string) *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		_ = v.ReadInConfig()
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		_ = v.ReadInConfig()
	}
	return v
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	return cleanStrings(strings.Split(input, ","))
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
