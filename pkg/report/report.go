// Package report разбирает определения отчетов, выполняет их запросы и
// готовит строки для шаблонов вывода.
//
// Определение - текстовый файл: блок директив в комментариях, пустая
// строка, затем запрос с макросами {{name}}:
//
//	-- Daily Sales
//	-- Sales grouped by day.
//	-- Variables: {start: {name: Start Date, type: date}}
//	-- Filters: {revenue: number}
//	-- Chart: {y: [revenue], omit-total: true}
//
//	SELECT day, SUM(amount) AS revenue FROM sales WHERE day >= '{{start}}' GROUP BY day
//
// Конвейер: ParseDefinition -> ParseHeader -> Executor.Execute -> RowShaper.Shape
// -> Renderer. Report связывает шаги для одного рендера.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ruslano69/sqlreports/pkg/backends"
	"github.com/ruslano69/sqlreports/pkg/filters"
)

// VariableFormTemplate - шаблон формы ввода переменных
const VariableFormTemplate = "variable_form"

// Renderer выводит именованный шаблон
// Для отсутствующего шаблона возвращает ошибку, оборачивающую fs.ErrNotExist.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Environment - неизменяемое окружение процесса, общее для всех рендеров
type Environment struct {
	Connections []backends.ConnectionConfig
	Drivers     *backends.Factory
	Headers     *HeaderRegistry
	Filters     *filters.Registry
	Renderer    Renderer
	Logger      zerolog.Logger
}

func (env Environment) withDefaults() Environment {
	if env.Drivers == nil {
		env.Drivers = backends.Default()
	}
	if env.Headers == nil {
		env.Headers = DefaultHeaders()
	}
	if env.Filters == nil {
		env.Filters = filters.Default()
	}
	return env
}

// Report - один рендер одного определения
type Report struct {
	Definition *Definition
	Options    *Options
	Macros     map[string]string
	Ready      bool

	env      Environment
	builder  *Builder
	executor *Executor
	shaper   *RowShaper
	logger   zerolog.Logger
}

// New разбирает заголовок определения и выбирает подключение
// database - выбор вызывающего, он важнее директивы Database.
func New(def *Definition, macros map[string]string, database string, env Environment) (*Report, error) {
	env = env.withDefaults()
	logger := env.Logger.With().Str("report", def.Name).Logger()

	b := NewBuilder(def.Name, macros)
	if err := ParseHeader(def, b, env.Headers); err != nil {
		return nil, err
	}

	executor := &Executor{
		Connections: env.Connections,
		Drivers:     env.Drivers,
		Logger:      logger,
	}
	if err := executor.ResolveDatabase(b.Options, database); err != nil {
		return nil, err
	}

	b.Options.Description = executor.Macros.Expand(b.Options.Description, b.Macros)
	if b.Options.Template == "" {
		b.Options.Template = DefaultTemplate
	}

	logger.Debug().
		Str("type", string(b.Options.Type)).
		Str("database", b.Options.Database).
		Bool("ready", b.Ready).
		Msg("report parsed")

	return &Report{
		Definition: def,
		Options:    b.Options,
		Macros:     b.Macros,
		Ready:      b.Ready,
		env:        env,
		builder:    b,
		executor:   executor,
		shaper:     &RowShaper{Filters: env.Filters},
		logger:     logger,
	}, nil
}

// Raw возвращает исходный текст определения
func (r *Report) Raw() string {
	return r.Definition.Raw
}

// Run выполняет запрос отчета
func (r *Report) Run(ctx context.Context) error {
	start := time.Now()
	if err := r.executor.Execute(ctx, r.builder, r.Definition.Body); err != nil {
		r.logger.Debug().Err(err).Msg("report run failed")
		return err
	}

	r.logger.Info().
		Str("database", r.Options.Database).
		Int("rows", r.Options.Count).
		Dur("elapsed", time.Since(start)).
		Msg("report executed")
	return nil
}

// Prepare строит Rows и ChartRows из результата Run
func (r *Report) Prepare() {
	r.shaper.Shape(r.Options)
}

// Render выполняет отчет и выводит его шаблоном Options.Template
func (r *Report) Render(ctx context.Context, w io.Writer) error {
	if err := r.Run(ctx); err != nil {
		return err
	}
	r.Prepare()
	return r.render(w, r.Options.Template, r.Options)
}

func (r *Report) render(w io.Writer, name string, data any) error {
	if r.env.Renderer == nil {
		return fmt.Errorf("%w: %s (no renderer configured)", ErrTemplateNotFound, name)
	}
	if err := r.env.Renderer.Render(w, name, data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return nil
}

// VariableForm - данные шаблона формы ввода переменных
type VariableForm struct {
	Report    string
	Database  string
	Databases []DatabaseChoice
	Vars      []FormVariable
}

// FormVariable - одно поле формы
type FormVariable struct {
	Key      string
	Name     string
	Type     string
	Value    string
	IsSelect bool
	Options  []FormOption
}

// FormOption - вариант выбора поля select
type FormOption struct {
	Display  string
	Value    string
	Selected bool
}

// Form собирает данные формы ввода переменных
func (r *Report) Form() *VariableForm {
	form := &VariableForm{
		Report:    r.Definition.Name,
		Database:  r.Options.Database,
		Databases: r.Options.Databases,
	}

	// Caser хранит состояние, поэтому создается на каждый вызов
	caser := cases.Title(language.Und, cases.NoLower)

	for _, key := range r.Options.VariableKeys() {
		v := r.Options.Variables[key]

		fv := FormVariable{
			Key:   key,
			Name:  v.Name,
			Type:  v.Type,
			Value: r.Macros[key],
		}
		if fv.Name == "" {
			fv.Name = caser.String(strings.NewReplacer("_", " ", "-", " ").Replace(key))
		}
		if fv.Type == "" {
			fv.Type = "string"
		}

		if fv.Type == "select" {
			fv.IsSelect = true
			for _, o := range v.Options {
				fv.Options = append(fv.Options, FormOption{
					Display:  o.Display,
					Value:    o.Value,
					Selected: o.Value == fv.Value,
				})
			}
		}

		form.Vars = append(form.Vars, fv)
	}

	return form
}

// RenderVariableForm выводит форму ввода переменных
// Если переменных нет, ничего не выводится.
func (r *Report) RenderVariableForm(w io.Writer) error {
	if len(r.Options.Variables) == 0 {
		return nil
	}
	return r.render(w, VariableFormTemplate, r.Form())
}
