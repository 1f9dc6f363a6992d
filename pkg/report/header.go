package report

import (
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// commentMarkers - префиксы строк заголовка
var commentMarkers = []string{"--", "/*", "#"}

// ParseHeader разбирает заголовок определения и заполняет b
//
// Строки без префикса комментария пропускаются. Первая строка без ':'
// становится именем отчета, последующие такие строки - описанием.
// Остальные строки - директивы "Name: Value", которые передаются
// обработчику из реестра. Неизвестная директива - ошибка.
func ParseHeader(def *Definition, b *Builder, registry *HeaderRegistry) error {
	first := true

	for _, line := range strings.Split(def.Header, "\n") {
		if line == "" || !isHeaderLine(line) {
			continue
		}

		line = stripComment(line)
		if line == "" {
			continue
		}

		var name, value string
		n, v, hasColon := strings.Cut(line, ":")
		switch {
		case !hasColon && first:
			name, value = "Name", line
		case !hasColon:
			appendDescription(b.Options, line)
			continue
		default:
			name = strings.TrimSpace(n)
			value = strings.TrimSpace(v)
			if strings.ToUpper(name) == name {
				name = capitalize(name)
			}
		}

		first = false
		name = registry.Resolve(name)

		handler, ok := registry.Lookup(name)
		if !ok {
			return &DirectiveError{Directive: name, Err: ErrUnknownDirective}
		}
		if err := handler.Parse(name, value, b); err != nil {
			return err
		}
	}

	if b.Options.Type == "" {
		kind, ok := extensionKinds[strings.ToLower(path.Ext(def.Name))]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownReportType, def.Name)
		}
		b.Options.Type = kind
	}

	return nil
}

func isHeaderLine(line string) bool {
	for _, marker := range commentMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// stripComment убирает маркер комментария и закрывающий "*/"
func stripComment(line string) string {
	line = strings.TrimSpace(strings.TrimLeft(line, "-*/#"))
	line = strings.TrimSpace(strings.TrimSuffix(line, "*/"))
	return line
}

// capitalize: "DATABASE" -> "Database"
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

// IsDefinitionFile проверяет, похоже ли имя файла на определение отчета
func IsDefinitionFile(name string) bool {
	_, ok := extensionKinds[strings.ToLower(path.Ext(name))]
	return ok
}
