package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "agent-resource-manager", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Mode)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.Manager.TickInterval)
	assert.Equal(t, "least_loaded", cfg.Balancer.Strategy)
	assert.Equal(t, 10, cfg.Policy.ScaleUpThreshold)
	assert.Equal(t, 2, cfg.Policy.ScaleDownThreshold)
	assert.Equal(t, 2, cfg.Policy.MinAgents)
	assert.Equal(t, 20, cfg.Policy.MaxAgents)
	assert.Equal(t, 5, cfg.Policy.MaxBatch)
	assert.Equal(t, 60*time.Second, cfg.Policy.Cooldown)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, 100, cfg.Events.BufferSize)
}

func TestLoad_FromFile(t *testing.T) {
	content := `
app:
  name: test-manager
  mode: test
  log_level: debug
manager:
  tick_interval: 5s
balancer:
  strategy: round_robin
policy:
  scale_up_threshold: 15
  max_agents: 30
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-manager", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Mode)
	assert.Equal(t, 5*time.Second, cfg.Manager.TickInterval)
	assert.Equal(t, "round_robin", cfg.Balancer.Strategy)
	assert.Equal(t, 15, cfg.Policy.ScaleUpThreshold)
	assert.Equal(t, 30, cfg.Policy.MaxAgents)

	// Untouched keys keep their defaults.
	assert.Equal(t, 2, cfg.Policy.ScaleDownThreshold)
	assert.Equal(t, 8080, cfg.API.Port)
}

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:            "agent-resource-manager",
			Mode:            "development",
			LogLevel:        "info",
			ShutdownTimeout: 15 * time.Second,
		},
		Manager:  ManagerConfig{TickInterval: 10 * time.Second},
		Balancer: BalancerConfig{Strategy: "least_loaded"},
		Policy: PolicyConfig{
			ScaleUpThreshold:   10,
			ScaleDownThreshold: 2,
			MinAgents:          2,
			MaxAgents:          20,
			MaxBatch:           5,
			Cooldown:           60 * time.Second,
		},
		Provider: ProviderConfig{RetryAttempts: 3, RetryDelay: time.Second},
		Simulator: SimulatorConfig{
			InitialAgents: 2,
			BaseCPU:       50.0,
			BaseMemory:    60.0,
		},
		API: APIConfig{Port: 8080},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: "app.name",
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.App.Mode = "staging" },
			wantErr: "app.mode",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.App.LogLevel = "trace" },
			wantErr: "app.log_level",
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *Config) { c.Manager.TickInterval = 0 },
			wantErr: "manager.tick_interval",
		},
		{
			name:    "max below min agents",
			mutate:  func(c *Config) { c.Policy.MaxAgents = 1 },
			wantErr: "policy.max_agents",
		},
		{
			name:    "zero max batch",
			mutate:  func(c *Config) { c.Policy.MaxBatch = 0 },
			wantErr: "policy.max_batch",
		},
		{
			name:    "out of range port",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: "api.port",
		},
		{
			name: "store validated only when enabled",
			mutate: func(c *Config) {
				c.Store.Enabled = true
				c.Store.Host = ""
			},
			wantErr: "store.host",
		},
		{
			name: "disabled store skips validation",
			mutate: func(c *Config) {
				c.Store.Enabled = false
				c.Store.Host = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestStoreConfig_DSN(t *testing.T) {
	s := StoreConfig{
		Host:     "db.internal",
		Port:     5432,
		Name:     "agent_manager",
		User:     "manager",
		Password: "secret",
	}

	dsn := s.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=agent_manager")
	assert.Contains(t, dsn, "sslmode=disable")
}
