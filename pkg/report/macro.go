package report

import (
	"io"
	"regexp"
	"strings"

	"github.com/valyala/fasttemplate"
)

// legacyPlaceholder - макрос в старом формате {name}
var legacyPlaceholder = regexp.MustCompile(`\{[a-zA-Z0-9_\-]+\}`)

// MacroExpander подставляет значения макросов в текст отчета
//
// Канонический формат - {{name}}. Старый формат {name} переводится в
// канонический, если рядом нет других фигурных скобок, поэтому {{name}}
// никогда не превращается в {{{name}}}.
type MacroExpander struct{}

// Normalize переводит {name} в {{name}}
func (MacroExpander) Normalize(text string) string {
	matches := legacyPlaceholder.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text) + 2*len(matches))

	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if (start > 0 && text[start-1] == '{') || (end < len(text) && text[end] == '}') {
			continue
		}
		sb.WriteString(text[last:start])
		sb.WriteByte('{')
		sb.WriteString(text[start:end])
		sb.WriteByte('}')
		last = end
	}
	sb.WriteString(text[last:])

	return sb.String()
}

// Expand подставляет значения макросов
// Отсутствующий макрос дает пустую строку. Незакрытый "{{" и теги с
// фигурными скобками внутри ({{{a}}}) выводятся как есть.
func (m MacroExpander) Expand(text string, macros map[string]string) string {
	return fasttemplate.ExecuteFuncString(m.Normalize(text), "{{", "}}",
		func(w io.Writer, tag string) (int, error) {
			if strings.ContainsAny(tag, "{}") {
				return io.WriteString(w, "{{"+tag+"}}")
			}
			return io.WriteString(w, macros[strings.TrimSpace(tag)])
		})
}
