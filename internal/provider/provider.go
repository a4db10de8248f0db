package provider

import (
	"context"
	"errors"

	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

var (
	ErrSnapshotFailed = errors.New("metrics snapshot failed")
	ErrPoolNotReady   = errors.New("agent pool not initialized")
)

// MetricsProvider supplies decision-cycle snapshots on demand. Calls are
// synchronous and side-effect-free; the returned values are immutable copies.
type MetricsProvider interface {
	// ClusterMetrics returns the pool-wide snapshot for scaling decisions.
	ClusterMetrics(ctx context.Context) (models.ClusterMetrics, error)

	// AgentMetrics returns per-agent samples for task selection.
	AgentMetrics(ctx context.Context) ([]models.AgentMetrics, error)

	// HealthCheck verifies the provider can reach its data source
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the provider
	Close() error
}
