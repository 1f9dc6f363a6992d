// Package config загружает YAML конфигурацию сервера и CLI отчетов.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/runlog"
	"github.com/ruslano69/sqlreports/pkg/storage"
)

// Config - корневая конфигурация
type Config struct {
	Server      ServerConfig                `yaml:"server"`
	Reports     storage.Config              `yaml:"reports"`
	Templates   TemplatesConfig             `yaml:"templates"`
	Connections []backends.ConnectionConfig `yaml:"connections"` // порядок важен для выбора подключения по умолчанию
	ResultLog   runlog.Config               `yaml:"result_log"`
	Log         LogConfig                   `yaml:"log"`
}

// ServerConfig - параметры HTTP сервера
type ServerConfig struct {
	Name         string        `yaml:"name"`          // заголовок в UI
	Addr         string        `yaml:"addr"`          // по умолчанию ":8080"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // по умолчанию 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // по умолчанию 60s
}

// TemplatesConfig - каталог шаблонов, переопределяющих встроенные
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig - параметры логирования
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (по умолчанию info)
	Format string `yaml:"format"` // console или json (по умолчанию console)
}

// Load читает конфигурацию
// Переменные окружения вида ${NAME} подставляются до разбора YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает, проверяет и дополняет значениями по умолчанию
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.SetDefaults()

	return &cfg, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if len(c.Connections) == 0 {
		return fmt.Errorf("at least one connection is required")
	}

	seen := make(map[string]bool, len(c.Connections))
	for i, conn := range c.Connections {
		if conn.Name == "" {
			return fmt.Errorf("connection[%d]: name is required", i)
		}
		if seen[conn.Name] {
			return fmt.Errorf("connection %q: duplicate name", conn.Name)
		}
		seen[conn.Name] = true
		if conn.Driver == "" {
			return fmt.Errorf("connection %q: driver is required", conn.Name)
		}
		if conn.DSN == "" {
			return fmt.Errorf("connection %q: dsn is required", conn.Name)
		}
		if conn.Timeout < 0 {
			return fmt.Errorf("connection %q: timeout must not be negative", conn.Name)
		}
	}

	if err := c.Reports.Validate(); err != nil {
		return fmt.Errorf("reports: %w", err)
	}

	if err := c.ResultLog.Validate(); err != nil {
		return fmt.Errorf("result_log: %w", err)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

// SetDefaults устанавливает значения по умолчанию
func (c *Config) SetDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "SQL Reports"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Reports.Type == "" {
		c.Reports.Type = "fs"
	}
	if c.ResultLog.Enabled() {
		c.ResultLog.SetDefaults()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
