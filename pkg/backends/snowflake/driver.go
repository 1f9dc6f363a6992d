// Package snowflake registers the Snowflake warehouse backend.
package snowflake

import (
	"context"

	_ "github.com/snowflakedb/gosnowflake" // Snowflake driver

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/backends/sqlbase"
)

// DriverName identifies the Snowflake driver.
const DriverName = "snowflake"

func init() {
	backends.Register(DriverName, func() backends.Driver {
		return &Driver{}
	})
}

// Driver implements backends.Driver for Snowflake.
type Driver struct{}

// Kind implements backends.Driver.
func (d *Driver) Kind() backends.Kind {
	return backends.KindRelational
}

// Connect implements backends.Driver.
// DSN format: user:password@account/database/schema?warehouse=wh
func (d *Driver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	return sqlbase.Open(ctx, "snowflake", cfg.DSN)
}
