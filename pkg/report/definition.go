package report

import (
	"fmt"
	"strings"
)

// Definition - загруженное определение отчета
type Definition struct {
	// Name - путь относительно каталога отчетов, например "sales/daily.sql"
	Name string

	Header string
	Body   string

	// Raw - весь текст с нормализованными переводами строк
	Raw string
}

var eolReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseDefinition разбивает текст отчета на заголовок и тело
// Разделитель - первая пустая строка. Без него определение невалидно.
func ParseDefinition(name string, raw []byte) (*Definition, error) {
	text := eolReplacer.Replace(string(raw))

	header, body, ok := strings.Cut(text, "\n\n")
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingHeaders, name)
	}

	return &Definition{
		Name:   name,
		Header: header,
		Body:   body,
		Raw:    text,
	}, nil
}
