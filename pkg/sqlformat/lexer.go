package sqlformat

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType тип токена
type TokenType int

const (
	// Специальные токены
	TokenEOF TokenType = iota

	TokenWord    // идентификаторы, ключевые слова, параметры $1 и :name
	TokenQuoted  // 'строка', N'строка', $$строка$$, "идентификатор", `идентификатор`
	TokenNumber  // 123, 123.45, 1e5
	TokenComment // -- комментарий, # комментарий, /* комментарий */
	TokenPunct   // операторы и пунктуация
)

// Token представляет токен
type Token struct {
	Type    TokenType
	Literal string // исходный текст токена, для строк - вместе с кавычками
	Pos     int    // позиция в исходной строке
}

// Upper возвращает литерал в верхнем регистре
func (t Token) Upper() string {
	return strings.ToUpper(t.Literal)
}

// String возвращает строковое представление токена
func (t Token) String() string {
	return fmt.Sprintf("Token{Type:%v, Literal:%q, Pos:%d}", t.Type, t.Literal, t.Pos)
}

// Lexer лексический анализатор SQL текста
// Разбирает ровно столько, сколько нужно для форматирования: слова,
// литералы, комментарии и пунктуацию. Содержимое литералов не меняется.
type Lexer struct {
	input   string
	pos     int  // текущая позиция
	readPos int  // следующая позиция для чтения
	ch      byte // текущий символ
}

// NewLexer создает новый лексер
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken возвращает следующий токен
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.pos}
	start := l.pos

	switch {
	case l.ch == 0:
		tok.Type = TokenEOF
		return tok
	case l.ch == '-' && l.peekChar() == '-':
		tok.Type = TokenComment
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		tok.Literal = strings.TrimRight(l.input[start:l.pos], " \t\r")
		return tok
	case l.ch == '#':
		// MySQL комментарий до конца строки. Для MS SQL (#tmp) остаток строки
		// тоже выводится как есть, с переводом строки после него
		tok.Type = TokenComment
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		tok.Literal = strings.TrimRight(l.input[start:l.pos], " \t\r")
		return tok
	case l.ch == '/' && l.peekChar() == '*':
		tok.Type = TokenComment
		l.readChar()
		l.readChar()
		for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
			l.readChar()
		}
		if l.ch != 0 {
			l.readChar()
			l.readChar()
		}
		tok.Literal = l.input[start:l.pos]
		return tok
	case l.ch == '\'' || l.ch == '"' || l.ch == '`':
		tok.Type = TokenQuoted
		tok.Literal = l.readQuoted(l.ch)
		return tok
	case isStringPrefix(l.ch) && l.peekChar() == '\'':
		// N'...', E'...', X'...', B'...'
		tok.Type = TokenQuoted
		l.readChar()
		l.readQuoted('\'')
		tok.Literal = l.input[start:l.pos]
		return tok
	case l.ch == '$' && isDigit(l.peekChar()):
		tok.Type = TokenWord
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		tok.Literal = l.input[start:l.pos]
		return tok
	case l.ch == '$':
		if lit, ok := l.readDollarQuoted(); ok {
			tok.Type = TokenQuoted
			tok.Literal = lit
			return tok
		}
		tok.Type = TokenPunct
		tok.Literal = "$"
		l.readChar()
		return tok
	case l.ch == ':' && isNameStart(l.peekChar()):
		tok.Type = TokenWord
		l.readChar()
		tok.Literal = ":" + l.readIdentifier()
		return tok
	case isLetter(l.ch) || l.ch == '_':
		tok.Type = TokenWord
		tok.Literal = l.readIdentifier()
		return tok
	case isDigit(l.ch):
		tok.Type = TokenNumber
		tok.Literal = l.readNumber()
		return tok
	case isOperator(l.ch):
		tok.Type = TokenPunct
		for isOperator(l.ch) {
			// =:name - параметр не приклеивается к оператору, :: остается целым
			if l.ch == ':' && l.pos > start && l.input[l.pos-1] != ':' && isNameStart(l.peekChar()) {
				break
			}
			l.readChar()
		}
		tok.Literal = l.input[start:l.pos]
		return tok
	default:
		tok.Type = TokenPunct
		tok.Literal = string(l.ch)
		l.readChar()
		return tok
	}
}

// Tokens возвращает все токены до EOF (без него)
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// readChar читает следующий символ
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar смотрит следующий символ без продвижения
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// peekAt смотрит символ на n позиций вперед от текущего
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// jump переводит лексер на позицию to
func (l *Lexer) jump(to int) {
	l.readPos = to
	l.readChar()
}

// readIdentifier читает идентификатор или ключевое слово
func (l *Lexer) readIdentifier() string {
	position := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
		l.readChar()
	}
	return l.input[position:l.pos]
}

// readNumber читает число
func (l *Lexer) readNumber() string {
	position := l.pos
	hasDecimal := false

	for isDigit(l.ch) || (l.ch == '.' && !hasDecimal) {
		if l.ch == '.' {
			hasDecimal = true
		}
		l.readChar()
	}

	// экспонента: 1e5, 2.5E-3
	if (l.ch == 'e' || l.ch == 'E') &&
		(isDigit(l.peekAt(1)) || ((l.peekAt(1) == '+' || l.peekAt(1) == '-') && isDigit(l.peekAt(2)))) {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.pos]
}

// readDollarQuoted читает строку PostgreSQL в долларовых кавычках ($$...$$, $tag$...$tag$)
// Незакрытая строка идет до конца ввода
func (l *Lexer) readDollarQuoted() (string, bool) {
	start := l.pos
	end := start + 1
	for end < len(l.input) && (isNameStart(l.input[end]) || (end > start+1 && isDigit(l.input[end]))) {
		end++
	}
	if end >= len(l.input) || l.input[end] != '$' {
		return "", false
	}
	delim := l.input[start : end+1]

	closing := len(l.input)
	if i := strings.Index(l.input[end+1:], delim); i >= 0 {
		closing = end + 1 + i + len(delim)
	}
	l.jump(closing)
	return l.input[start:closing], true
}

// readQuoted читает литерал в кавычках вместе с кавычками
// Удвоенная кавычка ('it''s') и экранирование (\') остаются внутри литерала
func (l *Lexer) readQuoted(quote byte) string {
	position := l.pos
	l.readChar() // открывающая кавычка

	for l.ch != 0 {
		if l.ch == '\\' && l.peekChar() == quote {
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == quote {
			if l.peekChar() == quote {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // закрывающая кавычка
			break
		}
		l.readChar()
	}

	return l.input[position:l.pos]
}

// skipWhitespace пропускает пробелы
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// isLetter проверяет, является ли символ буквой
// Байты >= 0x80 считаются буквами, чтобы не резать UTF-8 идентификаторы
func isLetter(ch byte) bool {
	return ch >= 0x80 || unicode.IsLetter(rune(ch))
}

// isNameStart - символ, с которого может начинаться имя
func isNameStart(ch byte) bool {
	return isLetter(ch) || ch == '_'
}

// isStringPrefix - префиксы строковых литералов: N'', E'', X'', B''
func isStringPrefix(ch byte) bool {
	switch ch {
	case 'N', 'n', 'E', 'e', 'X', 'x', 'B', 'b':
		return true
	}
	return false
}

// isDigit проверяет, является ли символ цифрой
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isOperator - символы, из которых склеиваются операторы сравнения (<=, <>, !=, ||, ::)
func isOperator(ch byte) bool {
	return ch == '<' || ch == '>' || ch == '=' || ch == '!' || ch == '|' || ch == ':'
}
