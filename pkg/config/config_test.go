package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/ruslano69/sqlreports/pkg/backends"
)

const sampleConfig = `
server:
  name: Finance Reports
  addr: ":9090"
reports:
  dir: ./reports
templates:
  dir: ./templates
connections:
  - name: main
    driver: postgres
    dsn: ${REPORTS_TEST_DSN}
    timeout: 30s
  - name: archive
    driver: sqlite
    dsn: file:archive.db
  - name: events
    driver: mongo
    dsn: mongodb://localhost:27017/events
result_log:
  type: redis
  address: 127.0.0.1:6379
log:
  level: debug
  format: json
`

func TestLoad(t *testing.T) {
	t.Setenv("REPORTS_TEST_DSN", "postgresql://reports@localhost/finance")

	path := filepath.Join(t.TempDir(), "reports.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []backends.ConnectionConfig{
		{Name: "main", Driver: "postgres", DSN: "postgresql://reports@localhost/finance", Timeout: 30 * time.Second},
		{Name: "archive", Driver: "sqlite", DSN: "file:archive.db"},
		{Name: "events", Driver: "mongo", DSN: "mongodb://localhost:27017/events"},
	}
	if diff := cmp.Diff(want, cfg.Connections); diff != "" {
		t.Errorf("connections mismatch (-want +got):\n%s", diff)
	}

	if cfg.Server.Name != "Finance Reports" || cfg.Server.Addr != ":9090" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Reports.Type != "fs" || cfg.Reports.Dir != "./reports" {
		t.Errorf("reports = %+v", cfg.Reports)
	}
	if cfg.Templates.Dir != "./templates" {
		t.Errorf("templates = %+v", cfg.Templates)
	}
	if cfg.ResultLog.Prefix != "sqlreports" || cfg.ResultLog.TTL != 3600 {
		t.Errorf("result_log defaults not applied: %+v", cfg.ResultLog)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("reports: {dir: r}\nconnections: [{name: db, driver: sqlite, dsn: ':memory:'}]\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.Name != "SQL Reports" {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 10*time.Second || cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("timeouts = %v/%v", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.ResultLog.Enabled() {
		t.Error("result log should be disabled by default")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no connections", "reports: {dir: r}", "at least one connection"},
		{"missing name", "reports: {dir: r}\nconnections: [{driver: sqlite, dsn: x}]", "name is required"},
		{"missing driver", "reports: {dir: r}\nconnections: [{name: a, dsn: x}]", "driver is required"},
		{"missing dsn", "reports: {dir: r}\nconnections: [{name: a, driver: sqlite}]", "dsn is required"},
		{"duplicate", "reports: {dir: r}\nconnections: [{name: a, driver: sqlite, dsn: x}, {name: a, driver: mysql, dsn: y}]", "duplicate name"},
		{"no reports dir", "connections: [{name: a, driver: sqlite, dsn: x}]", "reports:"},
		{"bad result log", "reports: {dir: r}\nconnections: [{name: a, driver: sqlite, dsn: x}]\nresult_log: {type: kafka}", "result_log:"},
		{"bad log level", "reports: {dir: r}\nconnections: [{name: a, driver: sqlite, dsn: x}]\nlog: {level: loud}", "unknown level"},
		{"bad log format", "reports: {dir: r}\nconnections: [{name: a, driver: sqlite, dsn: x}]\nlog: {format: xml}", "unknown format"},
		{"bad yaml", "connections: [", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("report", "daily.sql").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"report":"daily.sql"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("unexpected json output: %s", out)
	}
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v", logger.GetLevel())
	}
}
