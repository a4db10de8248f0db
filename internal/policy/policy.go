package policy

import (
	"sync"
	"time"

	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

type Config struct {
	ScaleUpThreshold   int
	ScaleDownThreshold int
	MinAgents          int
	MaxAgents          int
	Cooldown           time.Duration
	MaxBatch           int
}

type State string

const (
	StateStable      State = "stable"
	StateCoolingDown State = "cooling_down"
)

// Policy decides whether and how much to change the agent pool size,
// respecting thresholds and a cooldown window between scaling actions.
// The cooldown timestamp is owned exclusively by the policy and is only
// touched inside Evaluate's critical section, so two concurrent ticks can
// never both pass the cooldown check.
type Policy struct {
	config        Config
	mu            sync.Mutex
	lastScaleTime time.Time
}

func New(cfg Config) *Policy {
	if cfg.ScaleUpThreshold == 0 {
		cfg.ScaleUpThreshold = 10
	}
	if cfg.ScaleDownThreshold == 0 {
		cfg.ScaleDownThreshold = 2
	}
	if cfg.MinAgents == 0 {
		cfg.MinAgents = 2
	}
	if cfg.MaxAgents == 0 {
		cfg.MaxAgents = 20
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 60 * time.Second
	}
	if cfg.MaxBatch == 0 {
		cfg.MaxBatch = 5
	}

	return &Policy{config: cfg}
}

func (p *Policy) Config() Config {
	return p.config
}

// ShouldScaleUp reports whether the pending queue exceeds the threshold
// while the pool still has headroom.
func (p *Policy) ShouldScaleUp(cm models.ClusterMetrics) bool {
	return cm.QueueDepth > p.config.ScaleUpThreshold &&
		cm.TotalAgents < p.config.MaxAgents
}

// ShouldScaleDown reports whether idle agents exceed the threshold while the
// pool is above its minimum size.
func (p *Policy) ShouldScaleDown(cm models.ClusterMetrics) bool {
	return cm.IdleAgents > p.config.ScaleDownThreshold &&
		cm.TotalAgents > p.config.MinAgents
}

// CalculateScaleAmount returns how many agents to add or remove, always >= 0,
// capped at MaxBatch and clamped so the pool never leaves [MinAgents, MaxAgents].
func (p *Policy) CalculateScaleAmount(cm models.ClusterMetrics, direction models.ScalingDirection) int {
	var amount int

	switch direction {
	case models.ScaleUp:
		amount = cm.QueueDepth / 5
		if amount > p.config.MaxBatch {
			amount = p.config.MaxBatch
		}
		if headroom := cm.Headroom(p.config.MaxAgents); amount > headroom {
			amount = headroom
		}
	case models.ScaleDown:
		amount = cm.IdleAgents
		if amount > p.config.MaxBatch {
			amount = p.config.MaxBatch
		}
		if surplus := cm.Surplus(p.config.MinAgents); amount > surplus {
			amount = surplus
		}
	default:
		return 0
	}

	if amount < 0 {
		amount = 0
	}
	return amount
}

// Evaluate runs one decision cycle against a snapshot. Within the cooldown
// window it returns {None, 0} unconditionally. Scale-up is checked before
// scale-down; a consistent snapshot cannot need both. The cooldown clock is
// reset only when the decision carries a non-zero amount.
func (p *Policy) Evaluate(cm models.ClusterMetrics, now time.Time) models.ScalingDecision {
	decision := models.ScalingDecision{
		Timestamp:     now,
		Direction:     models.ScaleNone,
		CurrentAgents: cm.TotalAgents,
		Reason:        "within_normal_parameters",
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inCooldownLocked(now) {
		decision.CooldownActive = true
		decision.Reason = "in_cooldown"
		logger.Debugf("Decision: none (cooldown active, %s remaining)", p.remainingLocked(now))
		return decision
	}

	if p.ShouldScaleUp(cm) {
		if amount := p.CalculateScaleAmount(cm, models.ScaleUp); amount > 0 {
			p.lastScaleTime = now
			decision.Direction = models.ScaleUp
			decision.Amount = amount
			decision.Reason = "queue_depth_above_threshold"
			logger.Infof(
				"Decision: scale_up +%d agents (queue=%d, total=%d)",
				amount, cm.QueueDepth, cm.TotalAgents,
			)
		}
		return decision
	}

	if p.ShouldScaleDown(cm) {
		if amount := p.CalculateScaleAmount(cm, models.ScaleDown); amount > 0 {
			p.lastScaleTime = now
			decision.Direction = models.ScaleDown
			decision.Amount = amount
			decision.Reason = "idle_agents_above_threshold"
			logger.Infof(
				"Decision: scale_down -%d agents (idle=%d, total=%d)",
				amount, cm.IdleAgents, cm.TotalAgents,
			)
		}
		return decision
	}

	return decision
}

// State reports Stable or CoolingDown for the given instant.
func (p *Policy) State(now time.Time) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inCooldownLocked(now) {
		return StateCoolingDown
	}
	return StateStable
}

func (p *Policy) CooldownRemaining(now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remainingLocked(now)
}

func (p *Policy) ResetCooldown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastScaleTime = time.Time{}
}

func (p *Policy) inCooldownLocked(now time.Time) bool {
	if p.lastScaleTime.IsZero() {
		return false
	}
	return now.Sub(p.lastScaleTime) < p.config.Cooldown
}

func (p *Policy) remainingLocked(now time.Time) time.Duration {
	if p.lastScaleTime.IsZero() {
		return 0
	}
	elapsed := now.Sub(p.lastScaleTime)
	if elapsed >= p.config.Cooldown {
		return 0
	}
	return p.config.Cooldown - elapsed
}
