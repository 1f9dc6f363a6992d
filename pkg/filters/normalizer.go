package filters

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// NormalizeRule определяет правило нормализации
type NormalizeRule string

const (
	// NormalizePhone приводит телефон к формату 79991234567
	NormalizePhone NormalizeRule = "phone"
	// NormalizeEmail приводит email к нижнему регистру
	NormalizeEmail NormalizeRule = "email"
	// NormalizeWhitespace убирает лишние пробелы
	NormalizeWhitespace NormalizeRule = "whitespace"
	// NormalizeUpperCase приводит к верхнему регистру
	NormalizeUpperCase NormalizeRule = "uppercase"
	// NormalizeLowerCase приводит к нижнему регистру
	NormalizeLowerCase NormalizeRule = "lowercase"
	// NormalizeDate приводит дату к формату YYYY-MM-DD
	NormalizeDate NormalizeRule = "date"
)

var (
	errInvalidEmail = errors.New("invalid email format")
	errInvalidDate  = errors.New("invalid date format")
)

// Normalizer приводит значения колонок к единому формату отображения
type Normalizer struct {
	phoneRegex      *regexp.Regexp
	whitespaceRegex *regexp.Regexp
	dateRegex       *regexp.Regexp
}

// NewNormalizer создает новый нормализатор
func NewNormalizer() *Normalizer {
	return &Normalizer{
		phoneRegex:      regexp.MustCompile(`[^\d+]`),                                // Все кроме цифр и +
		whitespaceRegex: regexp.MustCompile(`\s+`),                                   // Множественные пробелы
		dateRegex:       regexp.MustCompile(`^(\d{1,2})[./\-](\d{1,2})[./\-](\d{2,4})$`), // DD.MM.YYYY или DD/MM/YYYY
	}
}

// Filter возвращает фильтр для правила
// Если значение не удалось нормализовать, оно отображается как есть
func (n *Normalizer) Filter(rule NormalizeRule) Filter {
	return FilterFunc(func(_, value string) string {
		if value == "" {
			return value
		}
		normalized, err := n.Normalize(value, rule)
		if err != nil {
			return value
		}
		return normalized
	})
}

// Normalize применяет правило нормализации к значению
func (n *Normalizer) Normalize(value string, rule NormalizeRule) (string, error) {
	switch rule {
	case NormalizePhone:
		return n.normalizePhone(value), nil
	case NormalizeEmail:
		return n.normalizeEmail(value)
	case NormalizeWhitespace:
		return n.whitespaceRegex.ReplaceAllString(strings.TrimSpace(value), " "), nil
	case NormalizeUpperCase:
		return strings.ToUpper(value), nil
	case NormalizeLowerCase:
		return strings.ToLower(value), nil
	case NormalizeDate:
		return n.normalizeDate(value)
	default:
		return value, fmt.Errorf("unknown normalize rule: %s", rule)
	}
}

// normalizePhone приводит телефон к формату 79991234567
// Примеры:
//   - "+7 (999) 123-45-67" → "79991234567"
//   - "8(999)123-45-67" → "79991234567"
//
// Номера других стран возвращаются как есть.
func (n *Normalizer) normalizePhone(value string) string {
	cleaned := n.phoneRegex.ReplaceAllString(value, "")

	if strings.HasPrefix(cleaned, "+7") {
		cleaned = "7" + cleaned[2:]
	}
	if strings.HasPrefix(cleaned, "8") && len(cleaned) == 11 {
		cleaned = "7" + cleaned[1:]
	}

	if len(cleaned) != 11 || !strings.HasPrefix(cleaned, "7") {
		return value
	}
	return cleaned
}

// normalizeEmail приводит email к нижнему регистру и убирает пробелы
func (n *Normalizer) normalizeEmail(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if !strings.Contains(normalized, "@") || !strings.Contains(normalized, ".") {
		return value, errInvalidEmail
	}
	return normalized, nil
}

// normalizeDate приводит дату к формату YYYY-MM-DD
// Примеры:
//   - "01.12.2024" → "2024-12-01"
//   - "15/03/24" → "2024-03-15"
func (n *Normalizer) normalizeDate(value string) (string, error) {
	matches := n.dateRegex.FindStringSubmatch(value)
	if len(matches) != 4 {
		return value, errInvalidDate
	}

	day, month, year := matches[1], matches[2], matches[3]
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(year) == 2 {
		year = "20" + year
	}

	return fmt.Sprintf("%s-%s-%s", year, month, day), nil
}
