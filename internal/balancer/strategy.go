package balancer

import (
	"github.com/OldStager01/agent-resource-manager/internal/logger"
)

// Strategy is resolved from its config string once at construction so the
// selection hot path never compares strings.
type Strategy int

const (
	StrategyLeastLoaded Strategy = iota
	StrategyRoundRobin
	StrategyRandom
)

func (s Strategy) String() string {
	switch s {
	case StrategyLeastLoaded:
		return "least_loaded"
	case StrategyRoundRobin:
		return "round_robin"
	case StrategyRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a configured strategy name to its Strategy value.
// An unrecognized name falls back to least_loaded; this is logged as a
// warning and never fails.
func ParseStrategy(name string) Strategy {
	switch name {
	case "least_loaded", "":
		return StrategyLeastLoaded
	case "round_robin":
		return StrategyRoundRobin
	case "random":
		return StrategyRandom
	default:
		logger.WithStrategy(name).Warn("Unknown balancing strategy, falling back to least_loaded")
		return StrategyLeastLoaded
	}
}
