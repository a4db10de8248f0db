package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

var (
	selectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_manager_selections_total",
			Help: "Total number of agent selections by strategy",
		},
		[]string{"strategy"},
	)

	emptyPoolRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_manager_empty_pool_rejections_total",
		Help: "Total number of task assignments rejected because no agent was available",
	})

	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_manager_decisions_total",
			Help: "Total number of scaling decisions by direction",
		},
		[]string{"direction"},
	)

	scalingOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_manager_scaling_operations_total",
			Help: "Total number of executed scaling operations by direction and result",
		},
		[]string{"direction", "result"},
	)

	poolAgents = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agent_manager_pool_agents",
		Help: "Current number of agents in the pool",
	})

	idleAgents = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agent_manager_idle_agents",
		Help: "Current number of idle agents",
	})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agent_manager_queue_depth",
		Help: "Current number of pending tasks",
	})

	cooldownRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agent_manager_cooldown_remaining_seconds",
		Help: "Seconds until the scaling policy leaves its cooldown window",
	})

	cycleDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agent_manager_cycle_duration_seconds",
		Help: "Duration of the last decision cycle in seconds",
	})
)

func init() {
	prometheus.MustRegister(
		selectionsTotal,
		emptyPoolRejections,
		decisionsTotal,
		scalingOperations,
		poolAgents,
		idleAgents,
		queueDepth,
		cooldownRemaining,
		cycleDuration,
	)
}

func IncSelection(strategy string) {
	selectionsTotal.WithLabelValues(strategy).Inc()
}

func IncEmptyPoolRejection() {
	emptyPoolRejections.Inc()
}

func IncDecision(direction models.ScalingDirection) {
	decisionsTotal.WithLabelValues(string(direction)).Inc()
}

func IncScalingOperation(direction models.ScalingDirection, result string) {
	scalingOperations.WithLabelValues(string(direction), result).Inc()
}

func SetPoolState(cm models.ClusterMetrics) {
	poolAgents.Set(float64(cm.TotalAgents))
	idleAgents.Set(float64(cm.IdleAgents))
	queueDepth.Set(float64(cm.QueueDepth))
}

func SetCooldownRemaining(d time.Duration) {
	cooldownRemaining.Set(d.Seconds())
}

func ObserveCycle(d time.Duration) {
	cycleDuration.Set(d.Seconds())
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
