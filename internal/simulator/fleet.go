package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/internal/pool"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

// Dispatcher assigns one task and returns the chosen agent id. The fleet
// treats it as the external task dispatcher; selection errors leave the task
// queued.
type Dispatcher func(ctx context.Context, taskID string) (string, error)

type FleetConfig struct {
	InitialAgents  int
	BaseCPU        float64
	BaseMemory     float64
	Variance       float64
	ArrivalRate    float64 // mean tasks arriving per tick
	CompletionRate float64 // probability a busy agent finishes per tick
	TickInterval   time.Duration
	ProvisionDelay time.Duration
	Pattern        Pattern
	Seed           int64
}

// Fleet drives a simulated agent fleet: it generates task arrivals and
// completions against the pool, serves metrics snapshots, and executes
// scaling commands. It stands in for the external collaborators the
// resource manager talks to.
type Fleet struct {
	config  FleetConfig
	pool    *pool.Pool
	pattern Pattern

	rngMu sync.Mutex
	rng   *rand.Rand

	dispatchMu sync.RWMutex
	dispatch   Dispatcher

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewFleet(cfg FleetConfig, p *pool.Pool) *Fleet {
	if cfg.InitialAgents <= 0 {
		cfg.InitialAgents = 2
	}
	if cfg.BaseCPU == 0 {
		cfg.BaseCPU = 50.0
	}
	if cfg.BaseMemory == 0 {
		cfg.BaseMemory = 60.0
	}
	if cfg.Variance == 0 {
		cfg.Variance = 10.0
	}
	if cfg.ArrivalRate == 0 {
		cfg.ArrivalRate = 3.0
	}
	if cfg.CompletionRate == 0 {
		cfg.CompletionRate = 0.5
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Pattern == nil {
		cfg.Pattern = PatternSteady
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())

	f := &Fleet{
		config:  cfg,
		pool:    p,
		pattern: cfg.Pattern,
		rng:     rand.New(rand.NewSource(seed)),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.AddAgents(cfg.InitialAgents)
	return f
}

// SetDispatcher wires the task dispatcher the fleet hands queued tasks to.
func (f *Fleet) SetDispatcher(d Dispatcher) {
	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()
	f.dispatch = d
}

func (f *Fleet) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return
	}
	f.running = true

	f.wg.Add(1)
	go f.run()

	logger.Infof("Fleet simulator started (pattern=%s, %d agents)",
		f.pattern.Name(), f.config.InitialAgents)
}

func (f *Fleet) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
	logger.Info("Fleet simulator stopped")
}

func (f *Fleet) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-ticker.C:
			f.tick()
		}
	}
}

func (f *Fleet) tick() {
	f.generateArrivals()
	f.completeTasks()
	f.dispatchQueued()
}

func (f *Fleet) generateArrivals() {
	f.rngMu.Lock()
	arrivals := int(f.rng.Float64() * 2 * f.config.ArrivalRate)
	f.rngMu.Unlock()

	if arrivals > 0 {
		f.pool.Enqueue(arrivals)
	}
}

func (f *Fleet) completeTasks() {
	for _, agent := range f.pool.Agents() {
		if agent.Status != models.AgentStatusBusy {
			continue
		}
		f.rngMu.Lock()
		done := f.rng.Float64() < f.config.CompletionRate
		f.rngMu.Unlock()
		if done {
			if err := f.pool.Release(agent.ID); err != nil && !errors.Is(err, pool.ErrAgentNotFound) {
				logger.WithAgent(agent.ID).Warnf("Release failed: %v", err)
			}
		}
	}
}

func (f *Fleet) dispatchQueued() {
	f.dispatchMu.RLock()
	dispatch := f.dispatch
	f.dispatchMu.RUnlock()

	if dispatch == nil {
		return
	}

	// Bounded per tick so a deep queue cannot starve the loop.
	for i := 0; i < 50; i++ {
		if !f.pool.Dequeue() {
			return
		}

		taskID := models.NewUUID()
		agentID, err := dispatch(f.ctx, taskID)
		if err != nil {
			// No agent available; put the task back and wait for scaling.
			f.pool.Enqueue(1)
			return
		}

		if err := f.pool.Acquire(agentID, taskID); err != nil {
			// Lost the race for that agent; requeue and retry next tick.
			f.pool.Enqueue(1)
			return
		}
	}
}

// ClusterMetrics implements provider.MetricsProvider.
func (f *Fleet) ClusterMetrics(ctx context.Context) (models.ClusterMetrics, error) {
	cm := f.pool.ClusterMetrics()
	cm.Timestamp = time.Now()
	return cm, nil
}

// AgentMetrics implements provider.MetricsProvider. Busy agents report
// elevated load; all samples carry pattern-shaped noise.
func (f *Fleet) AgentMetrics(ctx context.Context) ([]models.AgentMetrics, error) {
	agents := f.pool.Agents()
	out := make([]models.AgentMetrics, 0, len(agents))

	baseCPU := f.pattern.Apply(f.config.BaseCPU)

	for _, agent := range agents {
		cpu := baseCPU
		mem := f.config.BaseMemory
		queue := 0

		if agent.Status == models.AgentStatusBusy {
			cpu += 25.0
			mem += 10.0
			queue = 1
		}

		out = append(out, models.AgentMetrics{
			AgentID:     agent.ID,
			CPUUsage:    f.randomValue(cpu, f.config.Variance),
			MemoryUsage: f.randomValue(mem, f.config.Variance/2),
			QueueDepth:  queue,
			Status:      agent.Status,
		})
	}

	return out, nil
}

// ApplyScaling implements manager.CommandSink. Scale-up agents join after
// the provisioning delay; scale-down drains idle agents immediately.
func (f *Fleet) ApplyScaling(ctx context.Context, decision models.ScalingDecision) error {
	switch decision.Direction {
	case models.ScaleUp:
		if f.config.ProvisionDelay > 0 {
			f.wg.Add(1)
			go func() {
				defer f.wg.Done()
				select {
				case <-f.ctx.Done():
				case <-time.After(f.config.ProvisionDelay):
					f.pool.AddAgents(decision.Amount)
				}
			}()
			return nil
		}
		f.pool.AddAgents(decision.Amount)

	case models.ScaleDown:
		f.pool.DrainAgents(decision.Amount)
	}

	return nil
}

func (f *Fleet) HealthCheck(ctx context.Context) error {
	return nil
}

func (f *Fleet) Close() error {
	f.Stop()
	return nil
}

func (f *Fleet) randomValue(base, variance float64) float64 {
	f.rngMu.Lock()
	v := base + (f.rng.Float64()*2-1)*variance
	f.rngMu.Unlock()
	return clamp(v)
}
