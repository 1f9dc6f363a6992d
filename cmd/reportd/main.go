// reportd serves SQL report definitions as HTML pages and XLSX exports.
//
// Usage:
//
//	reportd [--config reports.yaml] [--addr :8080]
//
// Routes:
//
//	GET /             report index
//	GET /report/{path} render a report; query parameters become macros,
//	                  "database" selects the connection
//	GET /raw/{path}   report definition source
//	GET /xlsx/{path}  XLSX export
//	GET /healthz      liveness
//	GET /metrics      Prometheus metrics
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/config"
	"github.com/ruslano69/sqlreports/pkg/render"
	"github.com/ruslano69/sqlreports/pkg/runlog"
	"github.com/ruslano69/sqlreports/pkg/storage"

	// Backend registrations
	_ "github.com/ruslano69/sqlreports/pkg/backends/mongo"
	_ "github.com/ruslano69/sqlreports/pkg/backends/mssql"
	_ "github.com/ruslano69/sqlreports/pkg/backends/mysql"
	_ "github.com/ruslano69/sqlreports/pkg/backends/postgres"
	_ "github.com/ruslano69/sqlreports/pkg/backends/snowflake"
	_ "github.com/ruslano69/sqlreports/pkg/backends/sqlite"
)

func main() {
	configPath := flag.String("config", "reports.yaml", "path to config file")
	addrOverride := flag.String("addr", "", "listen address override (e.g. :8080)")
	flag.Parse()

	// Bootstrap logger until the config tells us level and format
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("config", *configPath).Msg("config load failed")
	}
	if *addrOverride != "" {
		cfg.Server.Addr = *addrOverride
	}
	logger = cfg.Log.Logger(os.Stderr)

	for _, conn := range cfg.Connections {
		if !backends.IsRegistered(conn.Driver) {
			logger.Fatal().
				Str("connection", conn.Name).
				Str("driver", conn.Driver).
				Strs("available", backends.GetRegisteredDrivers()).
				Msg("unknown driver")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg.Reports)
	if err != nil {
		logger.Fatal().Err(err).Msg("report storage setup failed")
	}

	engine, err := render.New(cfg.Templates.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("template load failed")
	}

	publisher, err := runlog.New(cfg.ResultLog)
	if err != nil {
		logger.Fatal().Err(err).Msg("result log setup failed")
	}
	defer publisher.Close()

	s := newServer(cfg, store, engine, publisher, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("reports", cfg.Reports.Type).
			Int("connections", len(cfg.Connections)).
			Str("result_log", cfg.ResultLog.Type).
			Msg("reportd started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	logger.Info().Msg("stopped")
}
