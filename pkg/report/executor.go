package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/sqlformat"
)

// Executor выбирает подключение и выполняет запрос отчета
type Executor struct {
	// Connections - подключения из конфигурации, порядок значим для выбора по умолчанию
	Connections []backends.ConnectionConfig
	Drivers     *backends.Factory
	Macros      MacroExpander
	Logger      zerolog.Logger
}

// candidates возвращает подключения, драйвер которых относится к kind
func (e *Executor) candidates(kind backends.Kind) []backends.ConnectionConfig {
	var out []backends.ConnectionConfig
	for _, c := range e.Connections {
		if k, ok := e.Drivers.KindOf(c.Driver); ok && k == kind {
			out = append(out, c)
		}
	}
	return out
}

// ResolveDatabase выбирает подключение для отчета
//
// preferred (выбор пользователя) важнее директивы Database. Если имя не
// задано или такого подключения нет, берется первое подключение нужного
// семейства в порядке конфигурации. Заполняет Options.Databases.
func (e *Executor) ResolveDatabase(opts *Options, preferred string) error {
	candidates := e.candidates(opts.Type)
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no %s connections configured", ErrConnectionFailed, opts.Type)
	}

	name := opts.Database
	if preferred != "" {
		name = preferred
	}

	selected := candidates[0].Name
	for _, c := range candidates {
		if c.Name == name {
			selected = name
			break
		}
	}
	opts.Database = selected

	opts.Databases = make([]DatabaseChoice, 0, len(candidates))
	for _, c := range candidates {
		opts.Databases = append(opts.Databases, DatabaseChoice{
			Name:     c.Name,
			Selected: c.Name == selected,
		})
	}
	return nil
}

func (e *Executor) connection(name string) (backends.ConnectionConfig, bool) {
	for _, c := range e.Connections {
		if c.Name == name {
			return c, true
		}
	}
	return backends.ConnectionConfig{}, false
}

// SplitStatements делит текст на выражения по ';' и отбрасывает пустые
// Деление наивное: ';' внутри строковых литералов тоже разделяет выражения.
func SplitStatements(query string) []string {
	var statements []string
	for _, part := range strings.Split(query, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		statements = append(statements, part)
	}
	return statements
}

// Execute подставляет макросы в body, выполняет запрос и заполняет
// Query, QueryFormatted, Time, Count и Results
//
// Неготовый отчет не открывает подключение. Подключение закрывается на
// любом пути выхода. Из нескольких выражений сохраняются только строки
// последнего; уже выполненные выражения не откатываются.
func (e *Executor) Execute(ctx context.Context, b *Builder, body string) error {
	if !b.Ready {
		return ErrNotReady
	}
	opts := b.Options

	query := e.Macros.Expand(body, b.Macros)
	opts.Query = query
	if opts.Type == backends.KindRelational {
		opts.QueryFormatted = sqlformat.Format(query)
	} else {
		opts.QueryFormatted = query
	}

	cfg, ok := e.connection(opts.Database)
	if !ok {
		return fmt.Errorf("%w: unknown connection %q", ErrConnectionFailed, opts.Database)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	conn, err := e.Drivers.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			e.Logger.Warn().Err(cerr).Str("database", cfg.Name).Msg("failed to close connection")
		}
	}()

	start := time.Now()

	var result *backends.Result
	switch opts.Type {
	case backends.KindRelational:
		statements := SplitStatements(query)
		for i, stmt := range statements {
			e.Logger.Debug().Str("database", cfg.Name).Int("statement", i+1).Int("total", len(statements)).Msg("executing statement")
			result, err = conn.Execute(ctx, stmt)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
			}
		}
	case backends.KindDocument:
		result, err = conn.Execute(ctx, query)
		if errors.Is(err, backends.ErrNotImplemented) {
			return fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Driver)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownReportType, opts.Type)
	}

	opts.Time = math.Round(time.Since(start).Seconds()*1e5) / 1e5
	opts.Results = nil
	if result != nil {
		opts.Results = result.Rows
	}
	opts.Count = len(opts.Results)

	return nil
}
