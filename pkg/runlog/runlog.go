// Package runlog публикует результат каждого выполнения отчета во внешнюю
// систему: Redis (SET + PUBLISH), Kafka или RabbitMQ.
package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/ruslano69/sqlreports/pkg/report"
)

// Статусы выполнения
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusNotReady = "not_ready"
)

// RunResult - состояние выполнения отчета
type RunResult struct {
	Report     string    `json:"report"`
	Title      string    `json:"title,omitempty"`
	Database   string    `json:"database,omitempty"`
	Status     string    `json:"status"` // "success" | "failed" | "not_ready"
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`
	Rows       int       `json:"rows"`
	QueryHash  string    `json:"query_hash,omitempty"` // xxh3 выполненного запроса, hex
	Error      *string   `json:"error,omitempty"`
}

// NewRunResult собирает результат по опциям отчета
// runErr == nil означает успешное выполнение; opts может быть nil,
// если отчет не удалось даже разобрать.
func NewRunResult(opts *report.Options, started time.Time, runErr error) RunResult {
	finished := time.Now()
	result := RunResult{
		StartedAt:  started,
		FinishedAt: finished,
		DurationMs: finished.Sub(started).Milliseconds(),
	}

	if opts != nil {
		result.Report = opts.Report
		result.Title = opts.Name
		result.Database = opts.Database
		result.Rows = opts.Count
		if opts.Query != "" {
			result.QueryHash = QueryHash(opts.Query)
		}
	}

	switch {
	case runErr == nil:
		result.Status = StatusSuccess
	case errors.Is(runErr, report.ErrNotReady):
		result.Status = StatusNotReady
	default:
		result.Status = StatusFailed
		errStr := runErr.Error()
		result.Error = &errStr
	}

	return result
}

// QueryHash возвращает xxh3 отпечаток запроса в hex
func QueryHash(query string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(query))
}

func (r RunResult) marshal() ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run result: %w", err)
	}
	return payload, nil
}

// Publisher публикует результаты выполнения
type Publisher interface {
	Publish(ctx context.Context, result RunResult) error
	Close() error
}

// Config - параметры публикации (секция result_log)
type Config struct {
	// Type: redis, kafka, rabbitmq (пустое или none = отключено)
	Type string `yaml:"type"`

	// Prefix ключей и каналов Redis (по умолчанию "sqlreports")
	Prefix string `yaml:"prefix"`

	// Redis
	Address  string `yaml:"address"`  // например "127.0.0.1:6379"
	Password string `yaml:"password"` // пароль Redis или RabbitMQ
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl"` // TTL ключа состояния в секундах (по умолчанию 3600)

	// Kafka
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`

	// RabbitMQ
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	User    string `yaml:"user"`
	VHost   string `yaml:"vhost"`
	Queue   string `yaml:"queue"`
	UseTLS  bool   `yaml:"use_tls"`
	Durable bool   `yaml:"durable"`
}

// Enabled сообщает, включена ли публикация
func (c *Config) Enabled() bool {
	return c.Type != "" && c.Type != "none"
}

// Validate проверяет корректность Config
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	switch c.Type {
	case "redis":
		if c.Address == "" {
			return fmt.Errorf("address is required when type is 'redis'")
		}
	case "kafka":
		if len(c.Brokers) == 0 {
			return fmt.Errorf("at least one broker address is required when type is 'kafka'")
		}
		if c.Topic == "" {
			return fmt.Errorf("topic is required when type is 'kafka'")
		}
	case "rabbitmq":
		if c.Queue == "" {
			return fmt.Errorf("queue is required when type is 'rabbitmq'")
		}
	default:
		return fmt.Errorf("unsupported type '%s', must be 'redis', 'kafka' or 'rabbitmq'", c.Type)
	}
	return nil
}

// SetDefaults заполняет значения по умолчанию
func (c *Config) SetDefaults() {
	if c.Prefix == "" {
		c.Prefix = "sqlreports"
	}
	if c.TTL == 0 {
		c.TTL = 3600
	}
	if c.Type != "rabbitmq" {
		return
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		if c.UseTLS {
			c.Port = 5671
		} else {
			c.Port = 5672
		}
	}
	if c.VHost == "" {
		c.VHost = "/"
	}
}

// New создает Publisher по конфигурации
func New(cfg Config) (Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("result_log: %w", err)
	}
	cfg.SetDefaults()

	switch cfg.Type {
	case "redis":
		return NewRedis(cfg), nil
	case "kafka":
		return NewKafka(cfg), nil
	case "rabbitmq":
		return NewRabbitMQ(cfg)
	}
	return Nop{}, nil
}

// Nop ничего не публикует
type Nop struct{}

func (Nop) Publish(context.Context, RunResult) error { return nil }
func (Nop) Close() error                             { return nil }

func routingKey(prefix, name string) string {
	return prefix + ":report:" + name
}
