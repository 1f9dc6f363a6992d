package render

import (
	"bytes"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruslano69/sqlreports/pkg/report"
)

func newEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestEngine_BuiltinTemplates(t *testing.T) {
	e := newEngine(t, "")
	for _, name := range []string{"header", "footer", "table", "chart", report.VariableFormTemplate, "index", "error"} {
		if !e.Has(name) {
			t.Errorf("builtin template %q is missing (have %v)", name, e.Names())
		}
	}
}

func TestEngine_UnknownTemplate(t *testing.T) {
	err := newEngine(t, "").Render(&bytes.Buffer{}, "pivot", nil)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func shapedOptions() *report.Options {
	return &report.Options{
		Name:           "Sales",
		Description:    "line one\nline two",
		Database:       "main",
		Count:          1,
		QueryFormatted: "SELECT\n    1",
		Rows: []report.TableRow{{
			First: true,
			Values: []report.TableCell{
				{Key: "link", Value: `<a href="/x">x</a>`, Alt: "/x", Class: "raw", First: true, Raw: true},
				{Key: "note", Value: "<b>", Alt: "<b>"},
				{Key: "code", Value: "a\nb", Alt: "a\nb", Class: "pre", Pre: true},
			},
		}},
		ChartRows: []report.ChartRow{{
			First:  true,
			Values: []report.ChartCell{{Key: "link", Value: "x", First: true}},
		}},
	}
}

func TestEngine_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := newEngine(t, "").Render(&buf, "table", shapedOptions()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<a href="/x">x</a>`, // raw колонка без экранирования
		"&lt;b&gt;",          // обычная колонка экранируется
		"<pre>a\nb</pre>",
		"<th>note</th>",
		"line one<br>line two<br>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestEngine_ChartWithoutChartDirective(t *testing.T) {
	var buf bytes.Buffer
	if err := newEngine(t, "").Render(&buf, "chart", shapedOptions()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `var kind = "";`) {
		t.Errorf("chart type should default to empty string:\n%s", buf.String())
	}
}

func TestEngine_VariableForm(t *testing.T) {
	form := &report.VariableForm{
		Report:   "sales/daily.sql",
		Database: "main",
		Databases: []report.DatabaseChoice{
			{Name: "main", Selected: true},
			{Name: "archive"},
		},
		Vars: []report.FormVariable{
			{Key: "start", Name: "Start", Type: "date", Value: "2024-01-01"},
			{Key: "region", Name: "Region", Type: "select", IsSelect: true, Options: []report.FormOption{
				{Display: "North", Value: "n", Selected: true},
			}},
		},
	}

	var buf bytes.Buffer
	if err := newEngine(t, "").Render(&buf, report.VariableFormTemplate, form); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`action="/report/sales/daily.sql"`,
		`type="date" value="2024-01-01"`,
		`<option value="n" selected>North</option>`,
		`<option value="archive">archive</option>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestEngine_HeaderLinksKeepQuery(t *testing.T) {
	var buf bytes.Buffer
	page := NewPage("Reports", "Sales", "sales.sql", url.Values{"start": {"2024-01-01"}, "region": {"n"}})
	if err := newEngine(t, "").Header(&buf, page); err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	if !strings.Contains(buf.String(), `href="/xlsx/sales.sql?region=n&amp;start=2024-01-01"`) {
		t.Errorf("xlsx link not found:\n%s", buf.String())
	}
}

func TestEngine_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	custom := `{{define "table"}}custom {{.Name}}{{end}}{{define "summary"}}{{.Count}} rows{{end}}`
	if err := os.WriteFile(filepath.Join(dir, "mine.html"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newEngine(t, dir)

	var buf bytes.Buffer
	if err := e.Render(&buf, "table", shapedOptions()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != "custom Sales" {
		t.Errorf("table = %q, want override", buf.String())
	}

	buf.Reset()
	if err := e.Render(&buf, "summary", shapedOptions()); err != nil {
		t.Fatalf("Render(summary) error = %v", err)
	}
	if buf.String() != "1 rows" {
		t.Errorf("summary = %q", buf.String())
	}
}

func TestEngine_MissingOverrideDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing templates dir")
	}
}
