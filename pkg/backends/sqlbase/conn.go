// Package sqlbase содержит общую реализацию подключения поверх database/sql.
// Используется драйверами MySQL, SQLite, MS SQL и Snowflake.
package sqlbase

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ruslano69/sqlreports/pkg/backends"
)

// Conn реализует backends.Conn поверх database/sql
//
// Все выражения выполняются на одном закрепленном *sql.Conn: временные таблицы
// и переменные сессии из первых выражений видны последнему.
type Conn struct {
	db   *sql.DB
	conn *sql.Conn
}

// Open открывает базу, проверяет подключение и закрепляет одну сессию
func Open(ctx context.Context, driverName, dsn string) (*Conn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Одна сессия на отчет
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return &Conn{db: db, conn: conn}, nil
}

// Execute выполняет выражение и читает все строки результата
func (c *Conn) Execute(ctx context.Context, statement string) (*backends.Result, error) {
	rows, err := c.conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return ScanRows(rows)
}

// Close освобождает сессию и закрывает базу
func (c *Conn) Close(ctx context.Context) error {
	var firstErr error
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			firstErr = err
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DB возвращает *sql.DB (для тестов и служебных запросов)
func (c *Conn) DB() *sql.DB {
	return c.db
}

// ScanRows читает *sql.Rows в backends.Result, значения приводятся к строкам
func ScanRows(rows *sql.Rows) (*backends.Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &backends.Result{Columns: columns}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(backends.Row, len(columns))
		for i, col := range columns {
			row[i] = backends.Cell{Key: col, Value: FormatValue(values[i])}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return result, nil
}
