package balancer

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

func metricsFixture() []models.AgentMetrics {
	return []models.AgentMetrics{
		{AgentID: "agent-a", CPUUsage: 15.0, MemoryUsage: 10.0, QueueDepth: 10, Status: models.AgentStatusAvailable},
		{AgentID: "agent-b", CPUUsage: 5.0, MemoryUsage: 10.0, QueueDepth: 12, Status: models.AgentStatusAvailable},
		{AgentID: "agent-c", CPUUsage: 20.0, MemoryUsage: 1.5, QueueDepth: 0, Status: models.AgentStatusAvailable},
	}
}

func TestCalculateLoadScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  models.AgentMetrics
		expected float64
	}{
		{
			name:     "weighted sum of cpu memory and queue",
			metrics:  models.AgentMetrics{CPUUsage: 50.0, MemoryUsage: 30.0, QueueDepth: 10},
			expected: 50.0*0.4 + 30.0*0.3 + 10*0.3,
		},
		{
			name:     "zero metrics score zero",
			metrics:  models.AgentMetrics{},
			expected: 0,
		},
		{
			name:     "queue depth alone contributes",
			metrics:  models.AgentMetrics{QueueDepth: 20},
			expected: 6.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateLoadScore(tt.metrics), 1e-9)
		})
	}
}

func TestLoadBalancer_EmptyPool(t *testing.T) {
	for _, strategy := range []Strategy{StrategyLeastLoaded, StrategyRoundRobin, StrategyRandom} {
		t.Run(strategy.String(), func(t *testing.T) {
			lb := New(strategy)

			id, err := lb.SelectAgent(nil)
			assert.ErrorIs(t, err, ErrEmptyPool)
			assert.Empty(t, id)

			id, err = lb.SelectAgent([]models.AgentMetrics{})
			assert.ErrorIs(t, err, ErrEmptyPool)
			assert.Empty(t, id)
		})
	}
}

func TestLoadBalancer_LeastLoaded(t *testing.T) {
	lb := New(StrategyLeastLoaded)

	// agent-a: 15*0.4 + 10*0.3 + 10*0.3 = 12.0
	// agent-b: 5*0.4 + 10*0.3 + 12*0.3 = 8.6
	// agent-c: 20*0.4 + 1.5*0.3 + 0*0.3 = 8.45
	id, err := lb.SelectAgent(metricsFixture())
	require.NoError(t, err)
	assert.Equal(t, "agent-c", id)
}

func TestLoadBalancer_LeastLoaded_TieBreaksByOrder(t *testing.T) {
	lb := New(StrategyLeastLoaded)

	candidates := []models.AgentMetrics{
		{AgentID: "agent-a", CPUUsage: 30.0},                    // score 12.0
		{AgentID: "agent-b", CPUUsage: 10.0, MemoryUsage: 15.0}, // score 8.5
		{AgentID: "agent-c", CPUUsage: 10.0, MemoryUsage: 15.0}, // score 8.5
	}

	// agent-b and agent-c tie; the earlier candidate wins.
	id, err := lb.SelectAgent(candidates)
	require.NoError(t, err)
	assert.Equal(t, "agent-b", id)
}

func TestLoadBalancer_RoundRobin(t *testing.T) {
	lb := New(StrategyRoundRobin)
	candidates := metricsFixture()

	var got []string
	for i := 0; i < 7; i++ {
		id, err := lb.SelectAgent(candidates)
		require.NoError(t, err)
		got = append(got, id)
	}

	// The cursor advances exactly once per call and wraps at the pool size.
	assert.Equal(t, []string{
		"agent-a", "agent-b", "agent-c",
		"agent-a", "agent-b", "agent-c",
		"agent-a",
	}, got)
}

func TestLoadBalancer_RoundRobin_PoolShrinks(t *testing.T) {
	lb := New(StrategyRoundRobin)
	candidates := metricsFixture()

	for i := 0; i < 2; i++ {
		_, err := lb.SelectAgent(candidates)
		require.NoError(t, err)
	}

	// A smaller snapshot stays in range via the modulo wrap.
	smaller := candidates[:1]
	for i := 0; i < 3; i++ {
		id, err := lb.SelectAgent(smaller)
		require.NoError(t, err)
		assert.Equal(t, "agent-a", id)
	}
}

func TestLoadBalancer_RoundRobin_Concurrent(t *testing.T) {
	lb := New(StrategyRoundRobin)
	candidates := metricsFixture()

	const callers = 10
	const perCaller = 30

	var wg sync.WaitGroup
	counts := make([]map[string]int, callers)

	for i := 0; i < callers; i++ {
		counts[i] = make(map[string]int)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perCaller; j++ {
				id, err := lb.SelectAgent(candidates)
				assert.NoError(t, err)
				counts[i][id]++
			}
		}(i)
	}
	wg.Wait()

	// 300 total calls over 3 agents: each agent selected exactly 100 times.
	total := make(map[string]int)
	for _, c := range counts {
		for id, n := range c {
			total[id] += n
		}
	}
	for _, m := range candidates {
		assert.Equal(t, callers*perCaller/len(candidates), total[m.AgentID])
	}
}

func TestLoadBalancer_Random_Deterministic(t *testing.T) {
	candidates := metricsFixture()

	first := NewWithSource(StrategyRandom, rand.NewSource(42))
	second := NewWithSource(StrategyRandom, rand.NewSource(42))

	for i := 0; i < 20; i++ {
		a, err := first.SelectAgent(candidates)
		require.NoError(t, err)
		b, err := second.SelectAgent(candidates)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestLoadBalancer_Random_SelectsFromPool(t *testing.T) {
	lb := NewWithSource(StrategyRandom, rand.NewSource(7))
	candidates := metricsFixture()

	valid := make(map[string]bool)
	for _, m := range candidates {
		valid[m.AgentID] = true
	}

	for i := 0; i < 50; i++ {
		id, err := lb.SelectAgent(candidates)
		require.NoError(t, err)
		assert.True(t, valid[id], "selected unknown agent %s", id)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Strategy
	}{
		{"least loaded", "least_loaded", StrategyLeastLoaded},
		{"round robin", "round_robin", StrategyRoundRobin},
		{"random", "random", StrategyRandom},
		{"unknown falls back to least loaded", "weighted", StrategyLeastLoaded},
		{"empty falls back to least loaded", "", StrategyLeastLoaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStrategy(tt.input))
		})
	}
}
