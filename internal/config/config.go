package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server            ServerConfig            `yaml:"server"`
	Database          DatabaseConfig          `yaml:"database"`
	RabbitMQ          RabbitMQConfig          `yaml:"rabbitmq"`
	RestaurantService RestaurantServiceConfig `yaml:"restaurant_service"`
	Messaging         MessagingConfig         `yaml:"messaging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// RestaurantServiceConfig bounds every authority call: the timeout
// caps a single HTTP request, the breaker governs when calls are
// short-circuited.
type RestaurantServiceConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

func (c RestaurantServiceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BreakerConfig tunes the circuit breaker: the breaker trips when at
// least MinRequests calls in the rolling interval failed at
// FailureRatio or above, stays open for CooldownSeconds, then lets
// MaxRequests trial calls through half-open.
type BreakerConfig struct {
	MaxRequests     uint32  `yaml:"max_requests"`
	IntervalSeconds int     `yaml:"interval_seconds"`
	CooldownSeconds int     `yaml:"cooldown_seconds"`
	MinRequests     uint32  `yaml:"min_requests"`
	FailureRatio    float64 `yaml:"failure_ratio"`
}

func (c BreakerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c BreakerConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

type MessagingConfig struct {
	Exchange                     string `yaml:"exchange"`
	OrderPlacedRoutingKey        string `yaml:"order_placed_routing_key"`
	OrderStatusChangedRoutingKey string `yaml:"order_status_changed_routing_key"`
	OrderPlacedQueue             string `yaml:"order_placed_queue"`
	OrderStatusChangedQueue      string `yaml:"order_status_changed_queue"`
	PublishTimeoutSeconds        int    `yaml:"publish_timeout_seconds"`
}

func (c MessagingConfig) PublishTimeout() time.Duration {
	return time.Duration(c.PublishTimeoutSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.host is required")
	}
	if cfg.RestaurantService.BaseURL == "" {
		return nil, fmt.Errorf("restaurant_service.base_url is required")
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000},
		RestaurantService: RestaurantServiceConfig{
			TimeoutSeconds: 3,
			Breaker: BreakerConfig{
				MaxRequests:     3,
				IntervalSeconds: 10,
				CooldownSeconds: 30,
				MinRequests:     5,
				FailureRatio:    0.5,
			},
		},
		Messaging: MessagingConfig{
			Exchange:                     "bytebites.exchange",
			OrderPlacedRoutingKey:        "order.placed",
			OrderStatusChangedRoutingKey: "order.status.changed",
			OrderPlacedQueue:             "order.placed.queue",
			OrderStatusChangedQueue:      "order.status.changed.queue",
			PublishTimeoutSeconds:        2,
		},
	}
}
