package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ruslano69/sqlreports/pkg/backends"
)

// DriverName идентификатор MongoDB драйвера
const DriverName = "mongo"

// Compile-time check
var _ backends.Driver = (*Driver)(nil)

func init() {
	backends.Register(DriverName, func() backends.Driver {
		return &Driver{}
	})
}

// Driver реализует backends.Driver для документных отчетов (*.js)
//
// Подключение и закрытие полноценные, выполнение скриптов не реализовано:
// Execute всегда возвращает backends.ErrNotImplemented, чтобы отчет падал
// явной ошибкой, а не отдавал пустую таблицу.
type Driver struct{}

// Kind возвращает семейство бэкенда
func (d *Driver) Kind() backends.Kind {
	return backends.KindDocument
}

// Connect подключается к MongoDB и проверяет доступность primary
func (d *Driver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	opts := options.Client().ApplyURI(cfg.DSN)
	if cfg.Timeout > 0 {
		opts.SetConnectTimeout(cfg.Timeout)
		opts.SetServerSelectionTimeout(cfg.Timeout)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping server: %w", err)
	}

	return &Conn{client: client}, nil
}

// Conn - открытое подключение к MongoDB
type Conn struct {
	client *mongo.Client
}

// Execute не реализован для документных отчетов
func (c *Conn) Execute(ctx context.Context, script string) (*backends.Result, error) {
	return nil, fmt.Errorf("mongo script: %w", backends.ErrNotImplemented)
}

// Close отключается от сервера
func (c *Conn) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
