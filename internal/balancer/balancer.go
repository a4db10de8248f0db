package balancer

import (
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

// ErrEmptyPool is returned when there are no candidates to select from.
// The caller must defer or queue the task; a result is never fabricated.
var ErrEmptyPool = errors.New("no agents available for selection")

// Load score weights. Lower score means less loaded.
const (
	weightCPU    = 0.4
	weightMemory = 0.3
	weightQueue  = 0.3
)

// CalculateLoadScore ranks an agent by weighted CPU, memory and queue depth.
// Exposed standalone so the scaling policy and external schedulers can reuse
// it without running a selection.
func CalculateLoadScore(m models.AgentMetrics) float64 {
	return m.CPUUsage*weightCPU + m.MemoryUsage*weightMemory + float64(m.QueueDepth)*weightQueue
}

// LoadBalancer picks one agent per task from a snapshot of candidates.
// Selection is pure given a snapshot; the only mutable state is the
// round-robin cursor and the random source, both owned by the instance.
type LoadBalancer struct {
	strategy Strategy
	cursor   atomic.Uint64

	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(strategy Strategy) *LoadBalancer {
	return NewWithSource(strategy, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource injects the random source used by the random strategy,
// keeping selection reproducible under test.
func NewWithSource(strategy Strategy, src rand.Source) *LoadBalancer {
	return &LoadBalancer{
		strategy: strategy,
		rng:      rand.New(src),
	}
}

func (lb *LoadBalancer) Strategy() Strategy {
	return lb.strategy
}

// SelectAgent returns the id of exactly one candidate, or ErrEmptyPool when
// candidates is empty. Concurrent calls against the same snapshot are safe.
func (lb *LoadBalancer) SelectAgent(candidates []models.AgentMetrics) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyPool
	}

	switch lb.strategy {
	case StrategyRoundRobin:
		return lb.roundRobin(candidates), nil
	case StrategyRandom:
		return lb.random(candidates), nil
	default:
		return lb.leastLoaded(candidates), nil
	}
}

// leastLoaded returns the candidate with the minimum load score. Ties break
// by input order so selection stays deterministic for equal scores.
func (lb *LoadBalancer) leastLoaded(candidates []models.AgentMetrics) string {
	best := 0
	bestScore := CalculateLoadScore(candidates[0])

	for i := 1; i < len(candidates); i++ {
		if score := CalculateLoadScore(candidates[i]); score < bestScore {
			best = i
			bestScore = score
		}
	}

	logger.WithAgent(candidates[best].AgentID).Debugf(
		"Selected least loaded agent (score=%.2f of %d candidates)",
		bestScore, len(candidates),
	)
	return candidates[best].AgentID
}

// roundRobin advances the rotation cursor exactly once per call and wraps
// modulo the candidate count.
func (lb *LoadBalancer) roundRobin(candidates []models.AgentMetrics) string {
	idx := (lb.cursor.Add(1) - 1) % uint64(len(candidates))
	return candidates[idx].AgentID
}

func (lb *LoadBalancer) random(candidates []models.AgentMetrics) string {
	lb.rngMu.Lock()
	idx := lb.rng.Intn(len(candidates))
	lb.rngMu.Unlock()
	return candidates[idx].AgentID
}
