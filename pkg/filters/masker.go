package filters

import (
	"regexp"
	"strings"
)

// MaskPattern определяет тип маскирования
type MaskPattern string

const (
	// MaskPartial маскирует среднюю часть (email: j***@example.com)
	MaskPartial MaskPattern = "partial"
	// MaskMiddle маскирует середину (phone: +1 (555) XXX-4567)
	MaskMiddle MaskPattern = "middle"
	// MaskStars заменяет все на звездочки (**** *****)
	MaskStars MaskPattern = "stars"
	// MaskFirst2Last2 показывает только первые 2 и последние 2 символа (1234 5678 → 12** **78)
	MaskFirst2Last2 MaskPattern = "first2_last2"
)

// Masker маскирует чувствительные данные (PII) в отображаемых значениях отчета
type Masker struct {
	emailRegex *regexp.Regexp
	digitRegex *regexp.Regexp
}

// NewMasker создает новый маскировщик
func NewMasker() *Masker {
	return &Masker{
		emailRegex: regexp.MustCompile(`^([a-zA-Z0-9._%+-]+)@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})$`),
		digitRegex: regexp.MustCompile(`\D`),
	}
}

// Filter возвращает фильтр для заданного паттерна
func (m *Masker) Filter(pattern MaskPattern) Filter {
	return FilterFunc(func(_, value string) string {
		if value == "" {
			return value
		}
		return m.Mask(value, pattern)
	})
}

// Mask применяет маскирование к значению
func (m *Masker) Mask(value string, pattern MaskPattern) string {
	switch pattern {
	case MaskPartial:
		return m.maskPartial(value)
	case MaskMiddle:
		return m.maskMiddle(value)
	case MaskFirst2Last2:
		return m.maskFirst2Last2(value)
	default:
		return m.maskStars(value)
	}
}

// maskPartial маскирует среднюю часть значения
// Примеры:
//   - Email: john.doe@example.com → j***@example.com
//   - Text: "Hello World" → "H***d"
func (m *Masker) maskPartial(value string) string {
	if matches := m.emailRegex.FindStringSubmatch(value); len(matches) == 3 {
		return matches[1][:1] + "***@" + matches[2]
	}

	runes := []rune(value)
	if len(runes) <= 2 {
		return "***"
	}
	return string(runes[0]) + "***" + string(runes[len(runes)-1])
}

// maskMiddle маскирует средние цифры, оставляя начало и конец
// Примеры:
//   - Phone: +1 (555) 123-4567 → +1 (555) XXX-4567
//   - Card: 1234 5678 9012 3456 → 1234 XXXX XXXX 3456
func (m *Masker) maskMiddle(value string) string {
	digitsOnly := m.digitRegex.ReplaceAllString(value, "")

	if len(digitsOnly) <= 4 {
		return strings.Repeat("X", len([]rune(value)))
	}

	// Для телефонов и карт показываем первые 4 и последние 4 цифры
	visibleDigits := 4
	if len(digitsOnly) < 8 {
		visibleDigits = len(digitsOnly) / 2
	}

	runes := []rune(value)
	digitsSeen := 0
	for i, r := range runes {
		if r >= '0' && r <= '9' {
			digitsSeen++
			if digitsSeen > visibleDigits && digitsSeen <= len(digitsOnly)-visibleDigits {
				runes[i] = 'X'
			}
		}
	}

	return string(runes)
}

// maskStars заменяет все символы на звездочки, сохраняя разделители
// Пример: SSN "123-45-6789" → "***-**-****"
func (m *Masker) maskStars(value string) string {
	runes := []rune(value)
	for i, r := range runes {
		if r != ' ' && r != '-' && r != '(' && r != ')' && r != '.' && r != '/' {
			runes[i] = '*'
		}
	}
	return string(runes)
}

// maskFirst2Last2 показывает только первые 2 и последние 2 символа
// Пробелы остаются на своих местах: "1234 567890" → "12** ****90"
func (m *Masker) maskFirst2Last2(value string) string {
	cleaned := []rune(strings.ReplaceAll(value, " ", ""))

	if len(cleaned) <= 4 {
		return strings.Repeat("*", len([]rune(value)))
	}

	masked := make([]rune, 0, len(cleaned))
	masked = append(masked, cleaned[:2]...)
	masked = append(masked, []rune(strings.Repeat("*", len(cleaned)-4))...)
	masked = append(masked, cleaned[len(cleaned)-2:]...)

	if !strings.Contains(value, " ") {
		return string(masked)
	}

	// Восстанавливаем пробелы в оригинальных позициях
	result := make([]rune, 0, len([]rune(value)))
	idx := 0
	for _, r := range value {
		if r == ' ' {
			result = append(result, ' ')
			continue
		}
		result = append(result, masked[idx])
		idx++
	}
	return string(result)
}
