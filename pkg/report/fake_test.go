package report

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/ruslano69/sqlreports/pkg/backends"
)

// fakeDriver - драйвер в памяти, запоминающий вызовы
type fakeDriver struct {
	kind       backends.Kind
	connectErr error
	results    map[string]*backends.Result
	errs       map[string]error

	opened   int
	closed   int
	executed []string
}

func (d *fakeDriver) Kind() backends.Kind { return d.kind }

func (d *fakeDriver) Connect(ctx context.Context, cfg backends.ConnectionConfig) (backends.Conn, error) {
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	d.opened++
	return &fakeConn{d: d}, nil
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) Execute(ctx context.Context, stmt string) (*backends.Result, error) {
	c.d.executed = append(c.d.executed, stmt)
	if err, ok := c.d.errs[stmt]; ok {
		return nil, err
	}
	if res, ok := c.d.results[stmt]; ok {
		return res, nil
	}
	return &backends.Result{}, nil
}

func (c *fakeConn) Close(ctx context.Context) error {
	c.d.closed++
	return nil
}

// newFactory регистрирует драйверы в отдельной фабрике
func newFactory(drivers map[string]*fakeDriver) *backends.Factory {
	f := backends.NewFactory()
	for name, d := range drivers {
		d := d
		f.Register(name, func() backends.Driver { return d })
	}
	return f
}

// row строит строку результата из пар ключ/значение
func row(kv ...string) backends.Row {
	r := make(backends.Row, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, backends.Cell{Key: kv[i], Value: kv[i+1]})
	}
	return r
}

// fakeRenderer выводит имя шаблона и данные через %v
type fakeRenderer struct {
	templates map[string]bool
	calls     []string
}

func (r *fakeRenderer) Render(w io.Writer, name string, data any) error {
	if !r.templates[name] {
		return fmt.Errorf("template %q: %w", name, fs.ErrNotExist)
	}
	r.calls = append(r.calls, name)
	_, err := fmt.Fprintf(w, "%s:%+v", name, data)
	return err
}
