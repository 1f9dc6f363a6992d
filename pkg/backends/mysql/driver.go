package mysql

import (
	"context"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/backends/sqlbase"
)

// DriverName идентификатор MySQL драйвера
const DriverName = "mysql"

// Compile-time check
var _ backends.Driver = (*Driver)(nil)

func init() {
	// Регистрируем MySQL драйвер в фабрике
	backends.Register(DriverName, func() backends.Driver {
		return &Driver{}
	})
}

// Driver реализует backends.Driver для MySQL
type Driver struct{}

// Kind возвращает семейство бэкенда
func (d *Driver) Kind() backends.Kind {
	return backends.KindRelational
}

// Connect подключается к MySQL базе данных
func (d *Driver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	return sqlbase.Open(ctx, "mysql", cfg.DSN)
}
