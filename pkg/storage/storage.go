// Package storage загружает определения отчетов из каталога или S3 бакета.
package storage

import (
	"context"
	"fmt"

	"github.com/ruslano69/sqlreports/pkg/report"
)

// Store - источник определений отчетов
type Store interface {
	// Load загружает определение по пути относительно корня хранилища
	// Отсутствующий отчет - ошибка, оборачивающая report.ErrDefinitionNotFound
	Load(ctx context.Context, name string) (*report.Definition, error)

	// List возвращает отсортированные пути всех определений
	List(ctx context.Context) ([]string, error)
}

// Config - настройки хранилища отчетов
type Config struct {
	// Type: "fs" (по умолчанию) или "s3"
	Type string `yaml:"type"`

	// Dir - каталог отчетов для fs
	Dir string `yaml:"dir"`

	// S3
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // MinIO / совместимые хранилища
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

// Validate проверяет настройки
func (c *Config) Validate() error {
	switch c.Type {
	case "", "fs":
		if c.Dir == "" {
			return fmt.Errorf("reports.dir is required for fs storage")
		}
	case "s3":
		if c.Bucket == "" {
			return fmt.Errorf("reports.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown reports storage type: %s (fs/s3)", c.Type)
	}
	return nil
}

// New создает хранилище по конфигурации
func New(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Type == "s3" {
		return NewS3(ctx, cfg)
	}
	return NewFS(cfg.Dir), nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", report.ErrDefinitionNotFound, name)
}
