package report

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/sqlreports/pkg/backends"
)

// Значения директив - YAML flow (JSON тоже подходит):
//
//	-- Variables: {start: {name: Start Date, type: date, default: 2024-01-01}}
//	-- Filters: {email: mask_partial, 3: {filter: number}}
//	-- Columns: [raw, ~, pre]
//	-- Chart: {x: 1, y: [revenue, cost], omit-total: true}

// kindAliases - значения директивы Type
var kindAliases = map[string]backends.Kind{
	"relational": backends.KindRelational,
	"sql":        backends.KindRelational,
	"mysql":      backends.KindRelational,
	"postgres":   backends.KindRelational,
	"sqlite":     backends.KindRelational,
	"sqlserver":  backends.KindRelational,
	"mssql":      backends.KindRelational,
	"snowflake":  backends.KindRelational,
	"document":   backends.KindDocument,
	"mongo":      backends.KindDocument,
	"js":         backends.KindDocument,
}

// extensionKinds - вывод типа по расширению файла
var extensionKinds = map[string]backends.Kind{
	".sql": backends.KindRelational,
	".js":  backends.KindDocument,
}

func parseName(_, value string, b *Builder) error {
	b.Options.Name = value
	return nil
}

func parseDescription(_, value string, b *Builder) error {
	appendDescription(b.Options, value)
	return nil
}

func appendDescription(o *Options, line string) {
	if o.Description == "" {
		o.Description = line
		return
	}
	o.Description += "\n" + line
}

func parseType(name, value string, b *Builder) error {
	kind, ok := kindAliases[strings.ToLower(value)]
	if !ok {
		return &DirectiveError{Directive: name, Err: fmt.Errorf("%w: %s", ErrUnknownReportType, value)}
	}
	b.Options.Type = kind
	return nil
}

func parseDatabase(_, value string, b *Builder) error {
	b.Options.Database = value
	return nil
}

func parseTemplate(_, value string, b *Builder) error {
	b.Options.Template = value
	return nil
}

// parseVariables объявляет входные переменные
// Если макрос не передан, подставляется default; без default отчет не готов.
func parseVariables(name, value string, b *Builder) error {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(value), &doc); err != nil {
		return invalid(name, err)
	}
	if len(doc.Content) == 0 {
		return nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return invalid(name, fmt.Errorf("expected a mapping of variables"))
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value

		var v Variable
		if err := mapping.Content[i+1].Decode(&v); err != nil {
			return invalid(name, fmt.Errorf("variable %s: %w", key, err))
		}

		if _, seen := b.Options.Variables[key]; !seen {
			b.Options.variableOrder = append(b.Options.variableOrder, key)
		}
		b.Options.Variables[key] = v

		if _, ok := b.Macros[key]; ok {
			continue
		}
		if v.Default != "" {
			b.Macros[key] = v.Default
			continue
		}
		b.Ready = false
	}
	return nil
}

func parseFilters(name, value string, b *Builder) error {
	var specs map[string]FilterSpec
	if err := yaml.Unmarshal([]byte(value), &specs); err != nil {
		return invalid(name, err)
	}
	for key, spec := range specs {
		b.Options.Filters[key] = spec
	}
	return nil
}

// parseColumns принимает YAML список или строку через запятую: "raw,,pre"
func parseColumns(name, value string, b *Builder) error {
	if strings.HasPrefix(value, "[") {
		// *string, чтобы ~ остался пустым классом, а не выпал из списка
		var list []*string
		if err := yaml.Unmarshal([]byte(value), &list); err != nil {
			return invalid(name, err)
		}
		columns := make([]string, len(list))
		for i, c := range list {
			if c != nil {
				columns[i] = *c
			}
		}
		b.Options.Columns = columns
		return nil
	}

	parts := strings.Split(value, ",")
	columns := make([]string, len(parts))
	for i, p := range parts {
		columns[i] = strings.TrimSpace(p)
	}
	b.Options.Columns = columns
	return nil
}

func parseChart(name, value string, b *Builder) error {
	chart := &Chart{}
	if err := yaml.Unmarshal([]byte(value), chart); err != nil {
		return invalid(name, err)
	}
	b.Options.Chart = chart
	return nil
}

func invalid(name string, err error) error {
	return &DirectiveError{Directive: name, Err: fmt.Errorf("%w: %v", ErrInvalidDirective, err)}
}
