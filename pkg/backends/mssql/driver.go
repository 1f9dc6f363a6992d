// Package mssql registers the Microsoft SQL Server backend.
package mssql

import (
	"context"
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // MS SQL Server driver

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/backends/sqlbase"
)

// DriverName identifies the MS SQL Server driver.
const DriverName = "mssql"

func init() {
	// Register MS SQL Server driver in factory
	backends.Register(DriverName, func() backends.Driver {
		return &Driver{}
	})
}

// Driver implements backends.Driver for Microsoft SQL Server.
type Driver struct{}

// Kind implements backends.Driver.
func (d *Driver) Kind() backends.Kind {
	return backends.KindRelational
}

// Connect implements backends.Driver.
// URL-style DSNs (sqlserver://...) go through the "sqlserver" driver name,
// ADO-style strings (server=...;user id=...) through the legacy "mssql" one.
func (d *Driver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	return sqlbase.Open(ctx, driverNameFor(cfg.DSN), cfg.DSN)
}

func driverNameFor(dsn string) string {
	if strings.HasPrefix(dsn, "sqlserver://") {
		return "sqlserver"
	}
	return "mssql"
}
