package provider

import (
	"context"
	"sync"

	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

// MockProvider serves fixed snapshots for tests.
type MockProvider struct {
	mu           sync.Mutex
	cluster      models.ClusterMetrics
	agents       []models.AgentMetrics
	shouldFail   bool
	failureError error
	calls        int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) SetClusterMetrics(cm models.ClusterMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cluster = cm
}

func (m *MockProvider) SetAgentMetrics(agents []models.AgentMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents = agents
}

func (m *MockProvider) SetShouldFail(shouldFail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = shouldFail
	m.failureError = err
}

func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockProvider) ClusterMetrics(ctx context.Context) (models.ClusterMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.shouldFail {
		if m.failureError != nil {
			return models.ClusterMetrics{}, m.failureError
		}
		return models.ClusterMetrics{}, ErrSnapshotFailed
	}
	return m.cluster, nil
}

func (m *MockProvider) AgentMetrics(ctx context.Context) ([]models.AgentMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.shouldFail {
		if m.failureError != nil {
			return nil, m.failureError
		}
		return nil, ErrSnapshotFailed
	}

	out := make([]models.AgentMetrics, len(m.agents))
	copy(out, m.agents)
	return out, nil
}

func (m *MockProvider) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return ErrSnapshotFailed
	}
	return nil
}

func (m *MockProvider) Close() error {
	return nil
}
