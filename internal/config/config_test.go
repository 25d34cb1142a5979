package config

import (
	"testing"
	"time"
)

func TestLoadMonitorDefaults(t *testing.T) {
	cfg, err := LoadMonitor("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Monitor.Factor != 1.1 {
		t.Fatalf("expected default factor 1.1, got %v", cfg.Monitor.Factor)
	}
	if cfg.Monitor.UpperLimit != 30*time.Second {
		t.Fatalf("expected default upper limit 30s, got %v", cfg.Monitor.UpperLimit)
	}
	if cfg.Monitor.LowerLimit != 500*time.Millisecond {
		t.Fatalf("expected default lower limit 500ms, got %v", cfg.Monitor.LowerLimit)
	}
	if cfg.Monitor.InitialGetBytecodeTries != 3 {
		t.Fatalf("expected default retry budget 3, got %v", cfg.Monitor.InitialGetBytecodeTries)
	}
}

func TestParseMonitorStartOverrides(t *testing.T) {
	t.Setenv("MONITOR_START_1", "123456")
	t.Setenv("MONITOR_START_137", "789")

	cfg, err := LoadMonitor("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StartBlockOverrides[1] != 123456 {
		t.Fatalf("expected override for chain 1, got %v", cfg.StartBlockOverrides[1])
	}
	if cfg.StartBlockOverrides[137] != 789 {
		t.Fatalf("expected override for chain 137, got %v", cfg.StartBlockOverrides[137])
	}
}

func TestLoadValidateNoPathsByDefault(t *testing.T) {
	cfg, err := LoadValidate("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Paths) != 0 {
		t.Fatalf("expected no paths by default, got %v", cfg.Paths)
	}
}
