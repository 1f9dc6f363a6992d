// Package xlsx выгружает результат отчета в Excel.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/sqlreports/pkg/report"
)

// QuerySheet - лист с текстом выполненного запроса
const QuerySheet = "Query"

// altQuerySheet - имя листа запроса, если QuerySheet занят данными
const altQuerySheet = "SQL"

const maxSheetName = 31

// Write - выгрузка подготовленных строк отчета в XLSX
//
// Первая строка листа - заголовки (ключи колонок), далее строки отчета.
// В ячейки пишется значение до фильтров (Alt): числа попадают в Excel
// числами, а не отформатированными строками вроде "1,500".
// Запрос сохраняется на отдельном листе Query.
//
// Example:
//
//	err := xlsx.Write(w, rpt.Options, "")
func Write(w io.Writer, opts *report.Options, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName = SheetName(sheetName, opts.Name)

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// имена листов в excelize регистронезависимы
	if !strings.EqualFold(sheetName, "Sheet1") {
		f.DeleteSheet("Sheet1")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	keys := columnKeys(opts)
	for col, key := range keys {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, key)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range opts.Rows {
		for col, value := range row.Values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, cellValue(value.Alt)); err != nil {
				return fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
	}

	if len(keys) > 0 {
		last, _ := excelize.ColumnNumberToName(len(keys))
		f.SetColWidth(sheetName, "A", last, 15)
		f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	if opts.Query != "" {
		querySheet := querySheetName(sheetName)
		if _, err := f.NewSheet(querySheet); err != nil {
			return fmt.Errorf("failed to create query sheet: %w", err)
		}
		f.SetCellValue(querySheet, "A1", opts.QueryFormatted)
		f.SetColWidth(querySheet, "A", "A", 120)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// SheetName подбирает допустимое имя листа: явное, иначе название отчета
func SheetName(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")

	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}

// querySheetName - имя листа запроса, не совпадающее с листом данных
func querySheetName(dataSheet string) string {
	if strings.EqualFold(dataSheet, QuerySheet) {
		return altQuerySheet
	}
	return QuerySheet
}

// columnKeys - ключи колонок по первой строке
func columnKeys(opts *report.Options) []string {
	if len(opts.Rows) > 0 {
		keys := make([]string, len(opts.Rows[0].Values))
		for i, v := range opts.Rows[0].Values {
			keys[i] = v.Key
		}
		return keys
	}
	return nil
}

// cellValue - число, если значение похоже на число
func cellValue(s string) any {
	if s == "" {
		return ""
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && !leadingZero(s) {
		return i
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil && !leadingZero(s) && !strings.ContainsAny(s, "xXnN") {
		return fl
	}
	return s
}

// leadingZero: коды вроде "007" остаются строками
func leadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}
