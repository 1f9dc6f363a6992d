package filters

import (
	"html"
	"strings"
)

// formatNumber разделяет разряды целой части запятыми: 1234567.5 → 1,234,567.5
// Нечисловые значения возвращаются как есть
func formatNumber(_, value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return value
	}

	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" || !allDigits(intPart) || (hasFrac && !allDigits(fracPart)) {
		return value
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// escapeHTML экранирует значение; используется вместе с классом колонки raw,
// когда значение должно быть выведено без повторного экранирования шаблоном
func escapeHTML(_, value string) string {
	return html.EscapeString(value)
}

// linkify оборачивает http(s) ссылку в тег <a>; колонке нужен класс raw
func linkify(_, value string) string {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return html.EscapeString(value)
	}
	escaped := html.EscapeString(v)
	return `<a href="` + escaped + `">` + escaped + `</a>`
}
