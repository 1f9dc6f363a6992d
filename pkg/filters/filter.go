// Package filters содержит именованные преобразования значений колонок отчета.
//
// Фильтр назначается колонке директивой Filters и применяется при подготовке
// строк: отображаемое значение заменяется результатом фильтра, исходное
// сохраняется отдельно. Незарегистрированное имя фильтра не является ошибкой.
package filters

import (
	"sort"
	"sync"
)

// Filter преобразует отображаемое значение колонки
type Filter interface {
	// Apply возвращает новое значение; key - имя колонки
	Apply(key, value string) string
}

// FilterFunc позволяет использовать обычную функцию как Filter
type FilterFunc func(key, value string) string

// Apply реализует Filter
func (f FilterFunc) Apply(key, value string) string {
	return f(key, value)
}

// Registry - реестр фильтров по имени
type Registry struct {
	mu      sync.RWMutex
	filters map[string]Filter
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]Filter)}
}

// Register регистрирует фильтр под именем name (повторная регистрация заменяет)
func (r *Registry) Register(name string, f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = f
}

// Lookup ищет фильтр по имени
func (r *Registry) Lookup(name string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.filters[name]
	return f, ok
}

// Names возвращает отсортированный список имен
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default возвращает реестр со всеми встроенными фильтрами
func Default() *Registry {
	r := NewRegistry()

	m := NewMasker()
	for _, p := range []MaskPattern{MaskPartial, MaskMiddle, MaskStars, MaskFirst2Last2} {
		r.Register("mask_"+string(p), m.Filter(p))
	}

	n := NewNormalizer()
	for _, rule := range []NormalizeRule{NormalizePhone, NormalizeEmail, NormalizeWhitespace,
		NormalizeUpperCase, NormalizeLowerCase, NormalizeDate} {
		r.Register(string(rule), n.Filter(rule))
	}

	r.Register("number", FilterFunc(formatNumber))
	r.Register("html", FilterFunc(escapeHTML))
	r.Register("link", FilterFunc(linkify))

	return r
}
