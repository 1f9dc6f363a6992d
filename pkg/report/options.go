package report

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/sqlreports/pkg/backends"
)

// DefaultTemplate - шаблон вывода по умолчанию
const DefaultTemplate = "table"

// Options - настройки и результат одного отчета
// Заполняется обработчиками заголовка, затем исполнителем и RowShaper.
// Экземпляр принадлежит одному рендеру и не разделяется между запросами.
type Options struct {
	// Report - идентификатор определения (путь относительно каталога отчетов)
	Report string

	Name        string
	Description string
	Type        backends.Kind

	// Database - выбранное подключение; Databases - все подключения того же
	// семейства для формы переключения
	Database  string
	Databases []DatabaseChoice

	Variables map[string]Variable
	Filters   map[string]FilterSpec

	// Columns - классы колонок по 0-based индексу: "raw", "pre" или ""
	Columns []string

	// Chart == nil, если директива Chart не задана
	Chart *Chart

	Template string

	// Заполняется после выполнения
	Query          string
	QueryFormatted string
	Time           float64 // секунды
	Count          int
	Results        []backends.Row

	// Заполняется RowShaper
	Rows      []TableRow
	ChartRows []ChartRow

	// порядок объявления переменных для формы ввода
	variableOrder []string
}

func newOptions(report string) *Options {
	return &Options{
		Report:    report,
		Name:      report,
		Variables: make(map[string]Variable),
		Filters:   make(map[string]FilterSpec),
	}
}

// VariableKeys возвращает ключи переменных в порядке объявления
func (o *Options) VariableKeys() []string {
	return o.variableOrder
}

// DatabaseChoice - элемент списка подключений
type DatabaseChoice struct {
	Name     string
	Selected bool
}

// Variable описывает входной параметр отчета
type Variable struct {
	Name    string           `yaml:"name"`
	Type    string           `yaml:"type"`
	Options []VariableOption `yaml:"options"`
	Default string           `yaml:"default"`
}

// VariableOption - вариант значения для переменной типа select
type VariableOption struct {
	Display string `yaml:"display"`
	Value   string `yaml:"value"`
}

// UnmarshalYAML принимает как скаляр (display = value), так и {display, value}
func (o *VariableOption) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Display = node.Value
		o.Value = node.Value
		return nil
	}

	type plain VariableOption
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*o = VariableOption(p)
	if o.Display == "" {
		o.Display = o.Value
	}
	return nil
}

// FilterSpec - фильтр, назначенный колонке
type FilterSpec struct {
	Filter string `yaml:"filter"`
}

// UnmarshalYAML принимает как имя фильтра, так и {filter: name}
func (f *FilterSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Filter = node.Value
		return nil
	}

	type plain FilterSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = FilterSpec(p)
	return nil
}

// Chart - выбор колонок для графика
type Chart struct {
	X         ColumnRefs `yaml:"x"`
	Y         ColumnRefs `yaml:"y"`
	OmitTotal bool       `yaml:"omit-total"`
	Type      string     `yaml:"type"`
}

// ColumnRefs - список колонок по имени или 1-based позиции
// nil означает, что ось не задана
type ColumnRefs []string

// UnmarshalYAML принимает скаляр (одна колонка) или список
func (c *ColumnRefs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = ColumnRefs{node.Value}
		return nil
	}

	list := []string{}
	if err := node.Decode(&list); err != nil {
		return err
	}
	*c = list
	return nil
}

// Has проверяет, указана ли колонка по имени или по позиции
func (c ColumnRefs) Has(key string, pos int) bool {
	p := strconv.Itoa(pos)
	for _, ref := range c {
		if ref == key || ref == p {
			return true
		}
	}
	return false
}

// lookup ищет значение по имени колонки, затем по ее 1-based позиции
func lookup[V any](m map[string]V, key string, pos int) (V, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	v, ok := m[strconv.Itoa(pos)]
	return v, ok
}

// TableCell - ячейка табличного представления
type TableCell struct {
	Key   string
	Value string // после фильтра
	Alt   string // до фильтра
	Class string
	First bool // первая колонка
	Raw   bool // выводить без экранирования
	Pre   bool // выводить в <pre>
}

// TableRow - строка табличного представления
type TableRow struct {
	Values []TableCell
	First  bool
}

// ChartCell - ячейка графика
type ChartCell struct {
	Key   string
	Value string
	First bool
}

// ChartRow - строка графика
type ChartRow struct {
	Values []ChartCell
	First  bool
}

// Builder - состояние разбора заголовка, передаваемое обработчикам
type Builder struct {
	Options *Options

	// Macros - копия значений, переданных вызывающим; обработчики могут
	// дополнять ее значениями по умолчанию
	Macros map[string]string

	// Ready сбрасывается обработчиком, если обязательная переменная не задана
	Ready bool
}

// NewBuilder создает состояние разбора для определения name
func NewBuilder(name string, macros map[string]string) *Builder {
	m := make(map[string]string, len(macros))
	for k, v := range macros {
		m[k] = v
	}
	return &Builder{
		Options: newOptions(name),
		Macros:  m,
		Ready:   true,
	}
}
