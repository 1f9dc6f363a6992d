package report

import (
	"sort"
	"sync"
)

// HeaderHandler интерпретирует одну директиву заголовка и изменяет Builder
type HeaderHandler interface {
	Parse(name, value string, b *Builder) error
}

// HeaderHandlerFunc позволяет использовать функцию как HeaderHandler
type HeaderHandlerFunc func(name, value string, b *Builder) error

// Parse реализует HeaderHandler
func (f HeaderHandlerFunc) Parse(name, value string, b *Builder) error {
	return f(name, value, b)
}

// HeaderRegistry - реестр обработчиков директив
// Новые директивы добавляются регистрацией обработчика, парсер не меняется.
type HeaderRegistry struct {
	mu       sync.RWMutex
	handlers map[string]HeaderHandler
	aliases  map[string]string
}

// NewHeaderRegistry создает пустой реестр
func NewHeaderRegistry() *HeaderRegistry {
	return &HeaderRegistry{
		handlers: make(map[string]HeaderHandler),
		aliases:  make(map[string]string),
	}
}

// Register регистрирует обработчик директивы name
func (r *HeaderRegistry) Register(name string, h HeaderHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Alias переименовывает устаревшее имя директивы в актуальное
func (r *HeaderRegistry) Alias(legacy, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[legacy] = name
}

// Resolve применяет алиас к имени директивы
func (r *HeaderRegistry) Resolve(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}

// Lookup ищет обработчик по имени (с учетом алиасов)
func (r *HeaderRegistry) Lookup(name string) (HeaderHandler, bool) {
	name = r.Resolve(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names возвращает отсортированный список директив
func (r *HeaderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultHeaders возвращает реестр со всеми встроенными директивами
func DefaultHeaders() *HeaderRegistry {
	r := NewHeaderRegistry()

	r.Register("Name", HeaderHandlerFunc(parseName))
	r.Register("Description", HeaderHandlerFunc(parseDescription))
	r.Register("Type", HeaderHandlerFunc(parseType))
	r.Register("Database", HeaderHandlerFunc(parseDatabase))
	r.Register("Variables", HeaderHandlerFunc(parseVariables))
	r.Register("Filters", HeaderHandlerFunc(parseFilters))
	r.Register("Columns", HeaderHandlerFunc(parseColumns))
	r.Register("Chart", HeaderHandlerFunc(parseChart))
	r.Register("Template", HeaderHandlerFunc(parseTemplate))

	// совместимость со старыми отчетами
	r.Alias("Plot", "Chart")

	return r
}
