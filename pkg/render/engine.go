// Package render выводит отчеты через html/template.
//
// Встроенные шаблоны лежат в templates/ и вшиты в бинарник. Каталог
// переопределения (templates.dir в конфиге) читается после встроенных,
// поэтому одноименный {{define}} из него заменяет встроенный.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed templates/*.html
var builtin embed.FS

// Engine - набор разобранных шаблонов
type Engine struct {
	tmpl *template.Template
}

// FuncMap - функции, доступные в шаблонах
var FuncMap = template.FuncMap{
	// safe выводит строку без экранирования (колонки с классом raw)
	"safe": func(s string) template.HTML { return template.HTML(s) },
	// json сериализует значение для встраивания в <script>
	"json": func(v any) (template.JS, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(data), nil
	},
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}

// New разбирает встроенные шаблоны и, если dir не пуст, шаблоны *.html из dir
func New(dir string) (*Engine, error) {
	tmpl, err := template.New("reports").Funcs(FuncMap).ParseFS(builtin, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse builtin templates: %w", err)
	}

	if dir != "" {
		files, err := filepath.Glob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("invalid templates dir %q: %w", dir, err)
		}
		if len(files) == 0 {
			if _, err := os.Stat(dir); err != nil {
				return nil, fmt.Errorf("templates dir %q: %w", dir, err)
			}
		} else if tmpl, err = tmpl.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("failed to parse templates in %q: %w", dir, err)
		}
	}

	return &Engine{tmpl: tmpl}, nil
}

// Render выполняет шаблон name
// Для неизвестного имени возвращает ошибку, оборачивающую fs.ErrNotExist.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	t := e.tmpl.Lookup(name)
	if t == nil {
		return fmt.Errorf("template %q: %w", name, fs.ErrNotExist)
	}
	return t.Execute(w, data)
}

// Has проверяет, определен ли шаблон
func (e *Engine) Has(name string) bool {
	return e.tmpl.Lookup(name) != nil
}

// Names возвращает имена всех определенных шаблонов
func (e *Engine) Names() []string {
	var names []string
	for _, t := range e.tmpl.Templates() {
		if t.Name() == "reports" || strings.HasSuffix(t.Name(), ".html") {
			continue
		}
		names = append(names, t.Name())
	}
	sort.Strings(names)
	return names
}
