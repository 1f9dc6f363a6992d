// Package sqlformat форматирует SQL текст отчета для отображения.
//
// Форматирование чисто косметическое: ключевые слова приводятся к верхнему
// регистру, основные секции запроса начинаются с новой строки. Литералы,
// идентификаторы и комментарии выводятся без изменений.
package sqlformat

import (
	"strings"
)

const indentWidth = 4

// keywords - слова, которые приводятся к верхнему регистру
var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true, "NOT": true,
	"IN": true, "IS": true, "NULL": true, "LIKE": true, "BETWEEN": true, "EXISTS": true,
	"GROUP": true, "ORDER": true, "BY": true, "HAVING": true, "LIMIT": true, "OFFSET": true,
	"AS": true, "ON": true, "USING": true, "JOIN": true, "LEFT": true, "RIGHT": true,
	"INNER": true, "OUTER": true, "FULL": true, "CROSS": true, "UNION": true, "ALL": true,
	"DISTINCT": true, "INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true,
	"SET": true, "DELETE": true, "CREATE": true, "TABLE": true, "TEMPORARY": true,
	"TEMP": true, "DROP": true, "IF": true, "CASE": true, "WHEN": true, "THEN": true,
	"ELSE": true, "END": true, "ASC": true, "DESC": true, "WITH": true,
}

// clauses - секции, после которых содержимое идет с отступом на новой строке
var clauses = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP BY": true, "ORDER BY": true,
	"HAVING": true, "LIMIT": true, "SET": true, "VALUES": true,
}

// statements - начало инструкции, продолжение остается на той же строке
var statements = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "CREATE": true, "DROP": true,
	"UNION": true, "WITH": true,
}

// joinPrefixes - слова, с которых начинается JOIN
var joinPrefixes = map[string]bool{
	"LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true, "FULL": true, "CROSS": true,
}

// Format возвращает отформатированный SQL
func Format(sql string) string {
	f := &formatter{tokens: NewLexer(sql).Tokens()}
	return f.format()
}

type formatter struct {
	tokens []Token
	b      strings.Builder

	depth   int    // глубина скобок
	clause  string // текущая секция верхнего уровня
	indent  int
	pending bool // перевод строки откладывается до следующего токена
	prev    Token
	between bool // ожидается AND из BETWEEN x AND y
}

func (f *formatter) format() string {
	for i := 0; i < len(f.tokens); i++ {
		tok := f.tokens[i]

		switch tok.Type {
		case TokenComment:
			f.write(tok.Literal, true)
			if isLineComment(tok.Literal) {
				f.newline(f.indent)
			}
			continue
		case TokenWord:
			i = f.word(i)
			continue
		}

		switch tok.Literal {
		case "(":
			f.depth++
		case ")":
			if f.depth > 0 {
				f.depth--
			}
		}

		f.write(tok.Literal, f.spaceBefore(tok))
		f.prev = tok

		if f.depth > 0 {
			continue
		}
		switch tok.Literal {
		case ",":
			if f.clause == "SELECT" || f.clause == "GROUP BY" || f.clause == "ORDER BY" || f.clause == "SET" {
				f.newline(indentWidth)
			}
		case ";":
			f.clause = ""
			f.newline(0)
		}
	}

	return strings.TrimSpace(f.b.String())
}

// word обрабатывает слово с индексом i и возвращает индекс последнего потребленного токена
func (f *formatter) word(i int) int {
	tok := f.tokens[i]
	upper := tok.Upper()

	if !keywords[upper] {
		f.write(tok.Literal, f.spaceBefore(tok))
		f.prev = tok
		return i
	}

	tok.Literal = upper
	if f.depth > 0 {
		f.write(upper, f.spaceBefore(tok))
		f.prev = tok
		return i
	}

	// GROUP BY / ORDER BY
	if (upper == "GROUP" || upper == "ORDER") && i+1 < len(f.tokens) && f.tokens[i+1].Upper() == "BY" {
		upper += " BY"
		tok.Literal = upper
		i++
	}

	switch {
	case clauses[upper]:
		f.newline(0)
		f.write(upper, true)
		f.newline(indentWidth)
		f.clause = upper
	case statements[upper]:
		f.newline(0)
		f.write(upper, true)
		f.indent = 0
		f.clause = upper
	case joinPrefixes[upper] && !joinPrefixes[f.prev.Upper()]:
		f.newline(0)
		f.write(upper, true)
		f.indent = 0
	case upper == "JOIN" && !joinPrefixes[f.prev.Upper()]:
		f.newline(0)
		f.write(upper, true)
		f.indent = 0
	case upper == "BETWEEN":
		f.between = true
		f.write(upper, true)
	case upper == "AND" && f.between:
		f.between = false
		f.write(upper, true)
	case (upper == "AND" || upper == "OR") && (f.clause == "WHERE" || f.clause == "HAVING"):
		f.newline(indentWidth)
		f.write(upper, true)
	default:
		f.write(upper, f.spaceBefore(tok))
	}

	f.prev = tok
	return i
}

// spaceBefore определяет, нужен ли пробел перед токеном
func (f *formatter) spaceBefore(tok Token) bool {
	switch tok.Literal {
	case ",", ")", ";", ".", "::":
		return false
	}
	switch f.prev.Literal {
	case "(", ".", "@", "::":
		return false
	}
	// вызов функции: COUNT(*), coalesce(a, b)
	if tok.Literal == "(" && f.prev.Type == TokenWord && !keywords[f.prev.Upper()] {
		return false
	}
	return true
}

// isLineComment - комментарий до конца строки, после него обязателен перевод строки
func isLineComment(s string) bool {
	return strings.HasPrefix(s, "--") || strings.HasPrefix(s, "#")
}

// newline откладывает перевод строки с отступом indent
func (f *formatter) newline(indent int) {
	f.pending = true
	f.indent = indent
}

func (f *formatter) write(s string, space bool) {
	switch {
	case f.pending:
		if f.b.Len() > 0 {
			f.b.WriteByte('\n')
			f.b.WriteString(strings.Repeat(" ", f.indent))
		}
		f.pending = false
	case space && f.b.Len() > 0:
		f.b.WriteByte(' ')
	}
	f.b.WriteString(s)
}
