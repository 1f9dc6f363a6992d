// reportcli renders a single report definition or lists the available ones.
//
// Usage:
//
//	reportcli -config reports.yaml -list
//	reportcli -config reports.yaml -report sales/daily.sql -macro start=2024-01-01 [-database main]
//	reportcli -config reports.yaml -report sales/daily.sql -macro start=2024-01-01 -format xlsx -output daily.xlsx
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ruslano69/sqlreports/pkg/config"
	"github.com/ruslano69/sqlreports/pkg/render"
	"github.com/ruslano69/sqlreports/pkg/report"
	"github.com/ruslano69/sqlreports/pkg/runlog"
	"github.com/ruslano69/sqlreports/pkg/storage"
	"github.com/ruslano69/sqlreports/pkg/xlsx"

	// Backend registrations
	_ "github.com/ruslano69/sqlreports/pkg/backends/mongo"
	_ "github.com/ruslano69/sqlreports/pkg/backends/mssql"
	_ "github.com/ruslano69/sqlreports/pkg/backends/mysql"
	_ "github.com/ruslano69/sqlreports/pkg/backends/postgres"
	_ "github.com/ruslano69/sqlreports/pkg/backends/snowflake"
	_ "github.com/ruslano69/sqlreports/pkg/backends/sqlite"
)

const version = "1.0.0"

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fatal("%v", err)
	}

	if flags.Version {
		fmt.Printf("reportcli version %s\n", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flags, os.Stdout, os.Stderr); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// run executes the command selected by flags
func run(ctx context.Context, flags *Flags, stdout, stderr io.Writer) error {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := cfg.Log.Logger(stderr)

	store, err := storage.New(ctx, cfg.Reports)
	if err != nil {
		return err
	}

	if flags.List {
		names, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	if flags.Format == formatRaw {
		def, err := store.Load(ctx, flags.Report)
		if err != nil {
			return err
		}
		return writeOutput(flags.Output, stdout, func(w io.Writer) error {
			_, err := io.WriteString(w, def.Raw)
			return err
		})
	}

	engine, err := render.New(cfg.Templates.Dir)
	if err != nil {
		return err
	}

	publisher, err := runlog.New(cfg.ResultLog)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// every outcome after this point is published, including load failures
	start := time.Now()
	def, err := store.Load(ctx, flags.Report)
	if err != nil {
		publish(ctx, publisher, logger, flags.Report, nil, start, err)
		return err
	}
	rpt, err := report.New(def, flags.Macros, flags.Database, report.Environment{
		Connections: cfg.Connections,
		Renderer:    engine,
		Logger:      logger,
	})
	if err != nil {
		publish(ctx, publisher, logger, flags.Report, nil, start, err)
		return err
	}

	runErr := renderReport(ctx, rpt, engine, cfg.Server.Name, flags, stdout)
	publish(ctx, publisher, logger, flags.Report, rpt.Options, start, runErr)
	return runErr
}

func renderReport(ctx context.Context, rpt *report.Report, engine *render.Engine, title string, flags *Flags, stdout io.Writer) error {
	if !rpt.Ready {
		return fmt.Errorf("%w: set %s", report.ErrNotReady, missingMacros(rpt))
	}

	if flags.Format == formatXLSX {
		if err := rpt.Run(ctx); err != nil {
			return err
		}
		rpt.Prepare()
		return writeOutput(flags.Output, stdout, func(w io.Writer) error {
			return xlsx.Write(w, rpt.Options, flags.Sheet)
		})
	}

	var body bytes.Buffer
	if err := rpt.Render(ctx, &body); err != nil {
		return err
	}

	page := render.NewPage(title, rpt.Options.Name, "", nil)
	return writeOutput(flags.Output, stdout, func(w io.Writer) error {
		if err := engine.Header(w, page); err != nil {
			return err
		}
		if _, err := body.WriteTo(w); err != nil {
			return err
		}
		return engine.Footer(w, page)
	})
}

// missingMacros lists variables without a value as -macro hints
func missingMacros(rpt *report.Report) string {
	var missing []string
	for _, v := range rpt.Form().Vars {
		if v.Value == "" {
			missing = append(missing, "-macro "+v.Key+"=...")
		}
	}
	return strings.Join(missing, " ")
}

// publish sends the run result; opts is nil when the report never got built
func publish(ctx context.Context, p runlog.Publisher, logger zerolog.Logger, name string, opts *report.Options, start time.Time, runErr error) {
	result := runlog.NewRunResult(opts, start, runErr)
	if result.Report == "" {
		result.Report = name
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.Publish(pubCtx, result); err != nil {
		logger.Warn().Err(err).Str("report", name).Msg("run result publish failed")
	}
}

// writeOutput writes to path, or to stdout when path is empty
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
