package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/backends/sqlbase"
)

// DriverName идентификатор PostgreSQL драйвера
const DriverName = "postgres"

// Compile-time check: Driver должен реализовывать интерфейс backends.Driver
var _ backends.Driver = (*Driver)(nil)

// Регистрация драйвера в глобальной фабрике
func init() {
	backends.Register(DriverName, func() backends.Driver {
		return &Driver{}
	})
}

// Driver представляет драйвер для работы с PostgreSQL через нативный pgx
type Driver struct{}

// Kind возвращает семейство бэкенда
func (d *Driver) Kind() backends.Kind {
	return backends.KindRelational
}

// Connect устанавливает одиночное подключение к PostgreSQL
// Пул не нужен: отчет выполняется в одной сессии и сразу закрывает ее
func (d *Driver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	// Парсим connection string
	config, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Проверяем подключение
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Conn{conn: conn}, nil
}

// Conn - открытое подключение pgx
type Conn struct {
	conn *pgx.Conn
}

// Execute выполняет выражение через simple protocol
// Simple protocol позволяет выполнять DDL/DML без подготовки и без параметров
func (c *Conn) Execute(ctx context.Context, statement string) (*backends.Result, error) {
	rows, err := c.conn.Query(ctx, statement, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &backends.Result{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		result.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		row := make(backends.Row, len(values))
		for i, val := range values {
			row[i] = backends.Cell{Key: result.Columns[i], Value: formatValue(val)}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Close закрывает подключение
func (c *Conn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// formatValue добавляет к общим правилам типы pgx (uuid, numeric и прочие pgtype)
func formatValue(val any) string {
	switch v := val.(type) {
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", v[0:4], v[4:6], v[6:8], v[8:10], v[10:16])
	case pgtype.Numeric:
		return formatNumeric(v)
	}
	// pgtype.Interval, pgtype.Time и др. реализуют driver.Valuer
	if valuer, ok := val.(driver.Valuer); ok {
		if plain, err := valuer.Value(); err == nil {
			return sqlbase.FormatValue(plain)
		}
	}
	return sqlbase.FormatValue(val)
}

// formatNumeric печатает numeric без потери точности: Int=123450, Exp=-2 → "1234.50"
func formatNumeric(n pgtype.Numeric) string {
	switch {
	case !n.Valid:
		return ""
	case n.NaN:
		return "NaN"
	case n.InfinityModifier == pgtype.Infinity:
		return "Infinity"
	case n.InfinityModifier == pgtype.NegativeInfinity:
		return "-Infinity"
	case n.Int == nil:
		return "0"
	}

	digits := n.Int.String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	if n.Exp >= 0 {
		return sign + digits + strings.Repeat("0", int(n.Exp))
	}

	scale := int(-n.Exp)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	point := len(digits) - scale
	return sign + digits[:point] + "." + digits[point:]
}
