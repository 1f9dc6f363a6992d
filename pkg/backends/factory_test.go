package backends_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ruslano69/sqlreports/pkg/backends"
	_ "github.com/ruslano69/sqlreports/pkg/backends/mongo"  // Register mongo
	_ "github.com/ruslano69/sqlreports/pkg/backends/sqlite" // Register sqlite
)

type stubDriver struct {
	kind backends.Kind
	err  error
}

func (d *stubDriver) Kind() backends.Kind { return d.kind }

func (d *stubDriver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	return nil, d.err
}

// TestFactory_GlobalRegistration проверяет регистрацию драйверов через init()
func TestFactory_GlobalRegistration(t *testing.T) {
	for _, name := range []string{"sqlite", "mongo"} {
		if !backends.IsRegistered(name) {
			t.Errorf("driver %q is not registered", name)
		}
	}

	kind, ok := backends.Default().KindOf("sqlite")
	if !ok || kind != backends.KindRelational {
		t.Errorf("KindOf(sqlite) = %q, %v; want relational", kind, ok)
	}

	kind, ok = backends.Default().KindOf("mongo")
	if !ok || kind != backends.KindDocument {
		t.Errorf("KindOf(mongo) = %q, %v; want document", kind, ok)
	}
}

// TestFactory_UnknownDriver проверяет ошибку для незарегистрированного драйвера
func TestFactory_UnknownDriver(t *testing.T) {
	f := backends.NewFactory()
	f.Register("stub", func() backends.Driver { return &stubDriver{} })

	_, err := f.Open(context.Background(), backends.ConnectionConfig{Name: "x", Driver: "oracle"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "unknown driver: oracle") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "stub") {
		t.Errorf("error should list available drivers: %v", err)
	}

	if _, ok := f.KindOf("oracle"); ok {
		t.Error("KindOf(oracle) should report false")
	}
}

// TestFactory_ConnectErrorWrapped проверяет, что ошибка драйвера не теряется
func TestFactory_ConnectErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	f := backends.NewFactory()
	f.Register("stub", func() backends.Driver { return &stubDriver{err: boom} })

	_, err := f.Open(context.Background(), backends.ConnectionConfig{Name: "main", Driver: "stub"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
	if !strings.Contains(err.Error(), "main") {
		t.Errorf("error should name the connection: %v", err)
	}
}

func TestFactory_GetRegisteredDriversSorted(t *testing.T) {
	f := backends.NewFactory()
	f.Register("b", func() backends.Driver { return &stubDriver{} })
	f.Register("a", func() backends.Driver { return &stubDriver{} })

	got := f.GetRegisteredDrivers()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("GetRegisteredDrivers() = %v, want [a b]", got)
	}
}

func TestRow_First(t *testing.T) {
	row := backends.Row{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	if row.First() != "1" {
		t.Errorf("First() = %q, want 1", row.First())
	}
	if (backends.Row{}).First() != "" {
		t.Error("First() of empty row should be empty")
	}
}
