package report

import (
	"strings"

	"github.com/ruslano69/sqlreports/pkg/filters"
)

// totalMarker - значение первой колонки итоговой строки
const totalMarker = "TOTAL"

// RowShaper строит табличное и графическое представление результата
type RowShaper struct {
	Filters *filters.Registry
}

// Shape заполняет Rows и ChartRows из Results
func (s *RowShaper) Shape(opts *Options) {
	chart := opts.Chart
	if chart == nil {
		chart = &Chart{}
	}

	rows := make([]TableRow, 0, len(opts.Results))
	var chartRows []ChartRow

	for _, raw := range opts.Results {
		includeInChart := !(chart.OmitTotal && strings.TrimSpace(raw.First()) == totalMarker)

		cells := make([]TableCell, 0, len(raw))
		var chartCells []ChartCell

		for idx, cell := range raw {
			i := idx + 1
			value := cell.Value

			if f, ok := s.filterFor(opts, cell.Key, i); ok {
				value = f.Apply(cell.Key, value)
			}

			class := ""
			if idx < len(opts.Columns) {
				class = opts.Columns[idx]
			}

			if inChart(chart, cell.Key, i) {
				chartCells = append(chartCells, ChartCell{
					Key:   cell.Key,
					Value: value,
					First: i == 1,
				})
			}

			cells = append(cells, TableCell{
				Key:   cell.Key,
				Value: value,
				Alt:   cell.Value,
				Class: class,
				First: i == 1,
				Raw:   class == "raw",
				Pre:   class == "pre",
			})
		}

		if includeInChart {
			chartRows = append(chartRows, ChartRow{
				Values: chartCells,
				First:  len(chartRows) == 0,
			})
		}

		rows = append(rows, TableRow{
			Values: cells,
			First:  len(rows) == 0,
		})
	}

	opts.Rows = rows
	opts.ChartRows = chartRows
}

// filterFor ищет фильтр колонки; незарегистрированное имя игнорируется
func (s *RowShaper) filterFor(opts *Options, key string, pos int) (filters.Filter, bool) {
	spec, ok := lookup(opts.Filters, key, pos)
	if !ok || spec.Filter == "" || s.Filters == nil {
		return nil, false
	}
	return s.Filters.Lookup(spec.Filter)
}

// inChart определяет, попадает ли колонка на график
func inChart(chart *Chart, key string, pos int) bool {
	switch {
	case chart.Y == nil:
		return true
	case chart.Y.Has(key, pos):
		return true
	case pos == 1 && chart.X == nil:
		return true
	case chart.X != nil && chart.X.Has(key, pos):
		return true
	default:
		return false
	}
}
