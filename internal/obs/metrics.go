package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CurrentBlock is the per-chain block the monitor is currently processing.
var CurrentBlock = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "sourceverify_monitor_current_block",
		Help: "Current block number being polled, by chain id.",
	},
	[]string{"chain_id"},
)

// BlockPause is the current adaptive poll pause, in milliseconds, per chain.
var BlockPause = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "sourceverify_monitor_block_pause_ms",
		Help: "Current adaptive block poll pause in milliseconds, by chain id.",
	},
	[]string{"chain_id"},
)

// ManifestsRecognized counts manifests recognized by the Validation Engine,
// labeled by whether they were kept (exactly one compilation target) or
// discarded as malformed.
var ManifestsRecognized = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sourceverify_manifests_recognized_total",
		Help: "Manifests recognized by the validation engine, by outcome.",
	},
	[]string{"outcome"},
)

// ContractsChecked counts checked contracts produced, partitioned by validity.
var ContractsChecked = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sourceverify_contracts_checked_total",
		Help: "Checked contracts produced, labeled by validity.",
	},
	[]string{"valid"},
)

// InjectionsAttempted counts downstream verifier injection attempts.
var InjectionsAttempted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sourceverify_injections_attempted_total",
		Help: "Downstream verifier injection attempts, labeled by outcome.",
	},
	[]string{"chain_id", "outcome"},
)
