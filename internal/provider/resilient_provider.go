package provider

import (
	"context"
	"time"

	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/internal/resilience"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

// ResilientProvider wraps a MetricsProvider with bounded retries and a
// circuit breaker so a flapping source stops burning decision cycles.
type ResilientProvider struct {
	provider       MetricsProvider
	circuitBreaker *resilience.CircuitBreaker
	retryAttempts  int
	retryDelay     time.Duration
}

type ResilientProviderConfig struct {
	Provider      MetricsProvider
	MaxFailures   int
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

func NewResilientProvider(cfg ResilientProviderConfig) *ResilientProvider {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 1 * time.Second
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:          "metrics-provider",
		MaxFailures:   cfg.MaxFailures,
		Timeout:       cfg.Timeout,
		OnStateChange: cfg.OnStateChange,
	})

	return &ResilientProvider{
		provider:       cfg.Provider,
		circuitBreaker: cb,
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
	}
}

func (p *ResilientProvider) ClusterMetrics(ctx context.Context) (models.ClusterMetrics, error) {
	var cm models.ClusterMetrics

	err := p.execute(ctx, "cluster metrics", func() error {
		var err error
		cm, err = p.provider.ClusterMetrics(ctx)
		return err
	})
	if err != nil {
		return models.ClusterMetrics{}, err
	}
	return cm, nil
}

func (p *ResilientProvider) AgentMetrics(ctx context.Context) ([]models.AgentMetrics, error) {
	var agents []models.AgentMetrics

	err := p.execute(ctx, "agent metrics", func() error {
		var err error
		agents, err = p.provider.AgentMetrics(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return agents, nil
}

func (p *ResilientProvider) execute(ctx context.Context, what string, fetch func() error) error {
	var lastErr error

	return p.circuitBreaker.Execute(func() error {
		for attempt := 1; attempt <= p.retryAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := fetch(); err == nil {
				return nil
			} else {
				lastErr = err
			}

			logger.Warnf(
				"Fetching %s attempt %d/%d failed: %v",
				what, attempt, p.retryAttempts, lastErr,
			)

			if attempt < p.retryAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(p.retryDelay):
				}
			}
		}
		return lastErr
	})
}

func (p *ResilientProvider) BreakerState() resilience.State {
	return p.circuitBreaker.State()
}

func (p *ResilientProvider) HealthCheck(ctx context.Context) error {
	return p.provider.HealthCheck(ctx)
}

func (p *ResilientProvider) Close() error {
	return p.provider.Close()
}
