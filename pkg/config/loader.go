package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/agent-manager")
	}

	// Environment variable settings
	v.SetEnvPrefix("AGENTMGR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "agent-resource-manager")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "15s")

	// Manager defaults
	v.SetDefault("manager.tick_interval", "10s")

	// Balancer defaults
	v.SetDefault("balancer.strategy", "least_loaded")

	// Policy defaults
	v.SetDefault("policy.scale_up_threshold", 10)
	v.SetDefault("policy.scale_down_threshold", 2)
	v.SetDefault("policy.min_agents", 2)
	v.SetDefault("policy.max_agents", 20)
	v.SetDefault("policy.max_batch", 5)
	v.SetDefault("policy.cooldown", "60s")

	// Provider defaults
	v.SetDefault("provider.retry_attempts", 3)
	v.SetDefault("provider.retry_delay", "1s")
	v.SetDefault("provider.circuit_breaker.max_failures", 5)
	v.SetDefault("provider.circuit_breaker.timeout", "30s")

	// Simulator defaults
	v.SetDefault("simulator.initial_agents", 2)
	v.SetDefault("simulator.base_cpu", 50.0)
	v.SetDefault("simulator.base_memory", 60.0)
	v.SetDefault("simulator.variance", 10.0)
	v.SetDefault("simulator.arrival_rate", 3.0)
	v.SetDefault("simulator.completion_rate", 0.5)
	v.SetDefault("simulator.tick_interval", "1s")
	v.SetDefault("simulator.provision_delay", "2s")
	v.SetDefault("simulator.pattern", "steady")

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")

	// WebSocket defaults
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 256)

	// Store defaults
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.host", "localhost")
	v.SetDefault("store.port", 5432)
	v.SetDefault("store.name", "agent_manager")
	v.SetDefault("store.user", "admin")
	v.SetDefault("store.password", "password")
	v.SetDefault("store.ssl_mode", "disable")
	v.SetDefault("store.max_connections", 25)

	// Events defaults
	v.SetDefault("events.buffer_size", 100)
	v.SetDefault("events.ring_size", 200)
}
