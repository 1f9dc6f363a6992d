package render

import (
	"html/template"
	"io"
	"net/url"
)

// Page - данные общей шапки страницы
type Page struct {
	Title    string // имя сервера
	Subtitle string // имя отчета
	Report   string // путь отчета для ссылок XLSX / Source
	Query    template.URL
}

// NewPage заполняет Page; параметры запроса переносятся в ссылки
func NewPage(title, subtitle, report string, params url.Values) Page {
	return Page{
		Title:    title,
		Subtitle: subtitle,
		Report:   report,
		Query:    template.URL(params.Encode()),
	}
}

// IndexPage - данные шаблона index
type IndexPage struct {
	Page    Page
	Reports []string
}

// ErrorPage - данные шаблона error
type ErrorPage struct {
	Status  int
	Title   string
	Message string
}

// Header выводит шапку страницы
func (e *Engine) Header(w io.Writer, p Page) error {
	return e.Render(w, "header", p)
}

// Footer закрывает страницу
func (e *Engine) Footer(w io.Writer, p Page) error {
	return e.Render(w, "footer", p)
}
