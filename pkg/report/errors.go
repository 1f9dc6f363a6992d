package report

import (
	"errors"
	"fmt"
)

var (
	// ErrDefinitionNotFound - файл отчета не найден в хранилище
	ErrDefinitionNotFound = errors.New("report not found")

	// ErrMissingHeaders - в определении нет пустой строки между заголовком и телом
	ErrMissingHeaders = errors.New("report missing headers")

	// ErrUnknownDirective - для директивы нет зарегистрированного обработчика
	ErrUnknownDirective = errors.New("unknown header")

	// ErrInvalidDirective - значение директивы не удалось разобрать
	ErrInvalidDirective = errors.New("invalid header value")

	// ErrUnknownReportType - тип отчета не задан и не выводится из расширения
	ErrUnknownReportType = errors.New("unknown report type")

	// ErrNotReady - не заданы обязательные переменные
	ErrNotReady = errors.New("report is not ready, missing variables")

	// ErrConnectionFailed - не удалось подключиться к бэкенду
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed - бэкенд вернул ошибку при выполнении выражения
	ErrExecutionFailed = errors.New("query failed")

	// ErrUnsupportedBackend - бэкенд не умеет выполнять отчеты
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrTemplateNotFound - шаблон вывода не найден
	ErrTemplateNotFound = errors.New("report template not found")
)

// DirectiveError - ошибка разбора конкретной директивы заголовка
type DirectiveError struct {
	Directive string
	Err       error
}

// Error реализует error
func (e *DirectiveError) Error() string {
	return fmt.Sprintf("header %q: %v", e.Directive, e.Err)
}

// Unwrap позволяет errors.Is / errors.As видеть исходную ошибку
func (e *DirectiveError) Unwrap() error {
	return e.Err
}
