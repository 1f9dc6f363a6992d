package sqlite

import (
	"context"
	"testing"

	"github.com/ruslano69/sqlreports/pkg/backends"
)

// TestDriver_TempTableAcrossStatements проверяет, что все выражения идут в одной сессии
func TestDriver_TempTableAcrossStatements(t *testing.T) {
	ctx := context.Background()

	conn, err := (&Driver{}).Connect(ctx, backends.ConnectionConfig{Name: "mem", Driver: DriverName, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer conn.Close(ctx)

	statements := []string{
		"CREATE TEMP TABLE t (id INTEGER, name TEXT, score REAL)",
		"INSERT INTO t VALUES (1, 'alice', 1.5), (2, 'bob', NULL)",
	}
	for _, stmt := range statements {
		res, err := conn.Execute(ctx, stmt)
		if err != nil {
			t.Fatalf("Execute(%q) error = %v", stmt, err)
		}
		if len(res.Rows) != 0 {
			t.Errorf("Execute(%q) returned %d rows, want 0", stmt, len(res.Rows))
		}
	}

	res, err := conn.Execute(ctx, "SELECT id, name, score FROM t ORDER BY id")
	if err != nil {
		t.Fatalf("SELECT error = %v", err)
	}

	if len(res.Columns) != 3 || res.Columns[0] != "id" || res.Columns[2] != "score" {
		t.Errorf("Columns = %v", res.Columns)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}

	first := res.Rows[0]
	if first[0].Key != "id" || first[0].Value != "1" {
		t.Errorf("row[0][0] = %+v", first[0])
	}
	if first[1].Value != "alice" || first[2].Value != "1.5" {
		t.Errorf("row[0] = %+v", first)
	}
	if res.Rows[1][2].Value != "" {
		t.Errorf("NULL should format as empty string, got %q", res.Rows[1][2].Value)
	}
}

func TestDriver_SyntaxError(t *testing.T) {
	ctx := context.Background()

	conn, err := (&Driver{}).Connect(ctx, backends.ConnectionConfig{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Execute(ctx, "SELEC 1"); err == nil {
		t.Error("expected syntax error")
	}
}
