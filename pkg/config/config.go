package config

import (
	"fmt"
	"time"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Manager   ManagerConfig   `mapstructure:"manager"`
	Balancer  BalancerConfig  `mapstructure:"balancer"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	API       APIConfig       `mapstructure:"api"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Store     StoreConfig     `mapstructure:"store"`
	Events    EventsConfig    `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ManagerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

type BalancerConfig struct {
	Strategy string `mapstructure:"strategy"`
}

type PolicyConfig struct {
	ScaleUpThreshold   int           `mapstructure:"scale_up_threshold"`
	ScaleDownThreshold int           `mapstructure:"scale_down_threshold"`
	MinAgents          int           `mapstructure:"min_agents"`
	MaxAgents          int           `mapstructure:"max_agents"`
	MaxBatch           int           `mapstructure:"max_batch"`
	Cooldown           time.Duration `mapstructure:"cooldown"`
}

type ProviderConfig struct {
	RetryAttempts  int                  `mapstructure:"retry_attempts"`
	RetryDelay     time.Duration        `mapstructure:"retry_delay"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SimulatorConfig struct {
	InitialAgents  int           `mapstructure:"initial_agents"`
	BaseCPU        float64       `mapstructure:"base_cpu"`
	BaseMemory     float64       `mapstructure:"base_memory"`
	Variance       float64       `mapstructure:"variance"`
	ArrivalRate    float64       `mapstructure:"arrival_rate"`
	CompletionRate float64       `mapstructure:"completion_rate"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	ProvisionDelay time.Duration `mapstructure:"provision_delay"`
	Pattern        string        `mapstructure:"pattern"`
	Seed           int64         `mapstructure:"seed"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type WebSocketConfig struct {
	BroadcastBuffer int `mapstructure:"broadcast_buffer"`
	ClientBuffer    int `mapstructure:"client_buffer"`
}

type StoreConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int           `mapstructure:"max_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

func (s StoreConfig) DSN() string {
	sslMode := s.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, sslMode,
	)
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
	RingSize   int `mapstructure:"ring_size"`
}
