package backends

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DriverConstructor - функция-конструктор драйвера
type DriverConstructor func() Driver

// Factory - реестр драйверов бэкендов
// Управляет регистрацией драйверов и открытием подключений
type Factory struct {
	registry map[string]DriverConstructor
	mu       sync.RWMutex
}

// NewFactory создает новую пустую фабрику
func NewFactory() *Factory {
	return &Factory{
		registry: make(map[string]DriverConstructor),
	}
}

// Register регистрирует конструктор драйвера под именем name
//
// Пример:
//
//	factory.Register("postgres", func() backends.Driver {
//	    return &postgres.Driver{}
//	})
func (f *Factory) Register(name string, constructor DriverConstructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry[name] = constructor
}

// IsRegistered проверяет, зарегистрирован ли драйвер
func (f *Factory) IsRegistered(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.registry[name]
	return ok
}

// GetRegisteredDrivers возвращает отсортированный список зарегистрированных драйверов
func (f *Factory) GetRegisteredDrivers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.registry))
	for name := range f.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Driver возвращает новый экземпляр драйвера по имени
func (f *Factory) Driver(name string) (Driver, error) {
	f.mu.RLock()
	constructor, ok := f.registry[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown driver: %s (available drivers: %v)",
			name, f.GetRegisteredDrivers())
	}
	return constructor(), nil
}

// KindOf возвращает семейство драйвера; false если драйвер неизвестен
func (f *Factory) KindOf(name string) (Kind, bool) {
	drv, err := f.Driver(name)
	if err != nil {
		return "", false
	}
	return drv.Kind(), true
}

// Open создает драйвер и открывает подключение по конфигурации
//
// Пример:
//
//	conn, err := factory.Open(ctx, backends.ConnectionConfig{
//	    Name:   "main",
//	    Driver: "sqlite",
//	    DSN:    ":memory:",
//	})
//	if err != nil {
//	    return err
//	}
//	defer conn.Close(ctx)
func (f *Factory) Open(ctx context.Context, cfg ConnectionConfig) (Conn, error) {
	drv, err := f.Driver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	conn, err := drv.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s (%s): %w", cfg.Name, cfg.Driver, err)
	}
	return conn, nil
}

// ========== Global Factory ==========

var globalFactory = NewFactory()

// Register регистрирует драйвер в глобальной фабрике
// Вызывается из init() пакетов драйверов:
//
//	func init() {
//	    backends.Register("mysql", func() backends.Driver {
//	        return &Driver{}
//	    })
//	}
func Register(name string, constructor DriverConstructor) {
	globalFactory.Register(name, constructor)
}

// IsRegistered проверяет регистрацию в глобальной фабрике
func IsRegistered(name string) bool {
	return globalFactory.IsRegistered(name)
}

// GetRegisteredDrivers возвращает драйверы глобальной фабрики
func GetRegisteredDrivers() []string {
	return globalFactory.GetRegisteredDrivers()
}

// Default возвращает глобальную фабрику
func Default() *Factory {
	return globalFactory
}
