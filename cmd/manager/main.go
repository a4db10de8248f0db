package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OldStager01/agent-resource-manager/api"
	"github.com/OldStager01/agent-resource-manager/internal/balancer"
	"github.com/OldStager01/agent-resource-manager/internal/events"
	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/internal/manager"
	"github.com/OldStager01/agent-resource-manager/internal/policy"
	"github.com/OldStager01/agent-resource-manager/internal/pool"
	"github.com/OldStager01/agent-resource-manager/internal/provider"
	"github.com/OldStager01/agent-resource-manager/internal/resilience"
	"github.com/OldStager01/agent-resource-manager/internal/simulator"
	"github.com/OldStager01/agent-resource-manager/pkg/config"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
	"github.com/OldStager01/agent-resource-manager/pkg/store"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "manager",
		Short: "Agent resource manager: load balancing and auto scaling for agent fleets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations()
		},
	}
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runMigrations() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !cfg.Store.Enabled {
		return fmt.Errorf("store is disabled in config, nothing to migrate")
	}

	db, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger.Info("Running database migrations")
	if err := store.NewMigrator(db).Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Migrations completed successfully")
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	var db *store.DB
	if cfg.Store.Enabled {
		db, err = store.New(cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		logger.Info("Database connection established")
	}

	bus := events.NewEventBus(cfg.Events.BufferSize)
	publisher := events.NewPublisher(bus)
	ring := events.NewRing(bus, cfg.Events.RingSize)

	recorder := events.NewRecorder(db, bus.SubscribeAll())
	recorder.Start()

	agentPool := pool.New(pool.Callbacks{
		OnAgentAdded:   func(agent *models.Agent) { publisher.AgentAdded(agent) },
		OnAgentRemoved: func(agent *models.Agent) { publisher.AgentRemoved(agent) },
	})

	fleet := simulator.NewFleet(simulator.FleetConfig{
		InitialAgents:  cfg.Simulator.InitialAgents,
		BaseCPU:        cfg.Simulator.BaseCPU,
		BaseMemory:     cfg.Simulator.BaseMemory,
		Variance:       cfg.Simulator.Variance,
		ArrivalRate:    cfg.Simulator.ArrivalRate,
		CompletionRate: cfg.Simulator.CompletionRate,
		TickInterval:   cfg.Simulator.TickInterval,
		ProvisionDelay: cfg.Simulator.ProvisionDelay,
		Pattern:        simulator.ParsePattern(cfg.Simulator.Pattern),
		Seed:           cfg.Simulator.Seed,
	}, agentPool)

	metricsProvider := provider.NewResilientProvider(provider.ResilientProviderConfig{
		Provider:      fleet,
		MaxFailures:   cfg.Provider.CircuitBreaker.MaxFailures,
		Timeout:       cfg.Provider.CircuitBreaker.Timeout,
		RetryAttempts: cfg.Provider.RetryAttempts,
		RetryDelay:    cfg.Provider.RetryDelay,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	lb := balancer.New(balancer.ParseStrategy(cfg.Balancer.Strategy))

	scalingPolicy := policy.New(policy.Config{
		ScaleUpThreshold:   cfg.Policy.ScaleUpThreshold,
		ScaleDownThreshold: cfg.Policy.ScaleDownThreshold,
		MinAgents:          cfg.Policy.MinAgents,
		MaxAgents:          cfg.Policy.MaxAgents,
		MaxBatch:           cfg.Policy.MaxBatch,
		Cooldown:           cfg.Policy.Cooldown,
	})

	mgr := manager.New(manager.Config{
		TickInterval: cfg.Manager.TickInterval,
		Provider:     metricsProvider,
		Sink:         fleet,
		Balancer:     lb,
		Policy:       scalingPolicy,
		Publisher:    publisher,
	})

	// The fleet routes queued tasks through the manager; the fleet itself
	// marks the chosen agent busy once the selection comes back.
	fleet.SetDispatcher(mgr.AssignTask)

	fleet.Start()
	defer fleet.Stop()

	if err := mgr.Start(); err != nil {
		return fmt.Errorf("failed to start manager: %w", err)
	}

	server := api.NewServer(cfg.API, cfg.App.Mode, api.Deps{
		Manager:  mgr,
		Provider: metricsProvider,
		Bus:      bus,
		Ring:     ring,
		DB:       db,
		WSConfig: &cfg.WebSocket,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("API shutdown error: %v", err)
	}

	mgr.Stop()
	recorder.Stop()
	bus.Close()

	logger.Info("Resource manager stopped gracefully")
	return nil
}
