package sqlite

import (
	"context"

	_ "modernc.org/sqlite"

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/backends/sqlbase"
)

// DriverName идентификатор SQLite драйвера
const DriverName = "sqlite"

// Compile-time check: Driver должен реализовывать интерфейс backends.Driver
var _ backends.Driver = (*Driver)(nil)

// Регистрация драйвера в глобальной фабрике
func init() {
	backends.Register(DriverName, func() backends.Driver {
		return &Driver{}
	})
}

// Driver представляет драйвер для работы с SQLite
type Driver struct{}

// Kind возвращает семейство бэкенда
func (d *Driver) Kind() backends.Kind {
	return backends.KindRelational
}

// Connect открывает SQLite базу
// DSN ":memory:" создает новую пустую базу на каждое подключение
func (d *Driver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	return sqlbase.Open(ctx, "sqlite", cfg.DSN)
}
