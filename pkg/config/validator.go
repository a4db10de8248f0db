package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Manager validation
	if c.Manager.TickInterval <= 0 {
		errs = append(errs, errors.New("manager.tick_interval must be positive"))
	}

	// Policy validation
	if c.Policy.MinAgents < 0 {
		errs = append(errs, errors.New("policy.min_agents must be >= 0"))
	}
	if c.Policy.MaxAgents < c.Policy.MinAgents {
		errs = append(errs, errors.New("policy.max_agents must be >= min_agents"))
	}
	if c.Policy.MaxBatch <= 0 {
		errs = append(errs, errors.New("policy.max_batch must be positive"))
	}
	if c.Policy.Cooldown < 0 {
		errs = append(errs, errors.New("policy.cooldown must be >= 0"))
	}
	if c.Policy.ScaleUpThreshold < 0 {
		errs = append(errs, errors.New("policy.scale_up_threshold must be >= 0"))
	}
	if c.Policy.ScaleDownThreshold < 0 {
		errs = append(errs, errors.New("policy.scale_down_threshold must be >= 0"))
	}

	// Provider validation
	if c.Provider.RetryAttempts <= 0 {
		errs = append(errs, errors.New("provider.retry_attempts must be positive"))
	}

	// Simulator validation
	if c.Simulator.InitialAgents <= 0 {
		errs = append(errs, errors.New("simulator.initial_agents must be positive"))
	}
	if c.Simulator.BaseCPU < 0 || c.Simulator.BaseCPU > 100 {
		errs = append(errs, errors.New("simulator.base_cpu must be between 0 and 100"))
	}
	if c.Simulator.BaseMemory < 0 || c.Simulator.BaseMemory > 100 {
		errs = append(errs, errors.New("simulator.base_memory must be between 0 and 100"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}

	// Store validation
	if c.Store.Enabled {
		if c.Store.Host == "" {
			errs = append(errs, errors.New("store.host is required when store is enabled"))
		}
		if c.Store.Port <= 0 || c.Store.Port > 65535 {
			errs = append(errs, errors.New("store.port must be between 1 and 65535"))
		}
		if c.Store.Name == "" {
			errs = append(errs, errors.New("store.name is required when store is enabled"))
		}
		if c.Store.MaxConnections <= 0 {
			errs = append(errs, errors.New("store.max_connections must be positive"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
