package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/agent-resource-manager/api/handlers"
	"github.com/OldStager01/agent-resource-manager/api/middleware"
	"github.com/OldStager01/agent-resource-manager/api/websocket"
	"github.com/OldStager01/agent-resource-manager/internal/events"
	"github.com/OldStager01/agent-resource-manager/internal/manager"
	"github.com/OldStager01/agent-resource-manager/internal/metrics"
	"github.com/OldStager01/agent-resource-manager/internal/provider"
	"github.com/OldStager01/agent-resource-manager/pkg/config"
	"github.com/OldStager01/agent-resource-manager/pkg/store"
)

// Server is the dispatcher-facing HTTP adapter: task assignment, pool and
// policy introspection, recent events, live event stream, health and
// Prometheus scrape endpoints.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.APIConfig
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
}

type Deps struct {
	Manager  *manager.Manager
	Provider provider.MetricsProvider
	Bus      *events.EventBus
	Ring     *events.Ring
	DB       *store.DB
	WSConfig *config.WebSocketConfig
}

func NewServer(cfg config.APIConfig, mode string, deps Deps) *Server {
	if mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	wsHub := websocket.NewHub(deps.WSConfig)

	s := &Server{
		router: router,
		config: cfg,
		wsHub:  wsHub,
	}

	s.setupMiddleware()
	s.setupRoutes(deps)

	// Start WebSocket hub
	go wsHub.Run()

	if deps.Bus != nil {
		s.wsBridge = websocket.NewEventBridge(wsHub, deps.Bus.SubscribeAll())
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
}

func (s *Server) setupRoutes(deps Deps) {
	var scalingRepo *store.ScalingEventRepository
	if deps.DB != nil {
		scalingRepo = store.NewScalingEventRepository(deps.DB)
	}

	healthHandler := handlers.NewHealthHandler(deps.Provider, deps.DB)
	taskHandler := handlers.NewTaskHandler(deps.Manager)
	clusterHandler := handlers.NewClusterHandler(deps.Manager)
	policyHandler := handlers.NewPolicyHandler(deps.Manager.Policy())
	eventsHandler := handlers.NewEventsHandler(deps.Ring, scalingRepo)

	s.router.GET("/healthz", healthHandler.Health)
	s.router.GET("/healthz/live", healthHandler.Live)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/tasks/assign", taskHandler.Assign)
		v1.GET("/cluster", clusterHandler.Get)
		v1.GET("/agents", clusterHandler.Agents)
		v1.GET("/policy", policyHandler.Status)
		v1.GET("/events/recent", eventsHandler.Recent)
		v1.GET("/events/scaling", eventsHandler.ScalingHistory)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
