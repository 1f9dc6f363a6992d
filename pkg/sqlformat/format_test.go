package sqlformat

import (
	"testing"
)

func TestLexer_Tokens(t *testing.T) {
	l := NewLexer("SELECT name, 'it''s' FROM users -- tail\nWHERE age >= 18.5 /* c */")
	tokens := l.Tokens()

	expected := []struct {
		typ     TokenType
		literal string
	}{
		{TokenWord, "SELECT"},
		{TokenWord, "name"},
		{TokenPunct, ","},
		{TokenQuoted, "'it''s'"},
		{TokenWord, "FROM"},
		{TokenWord, "users"},
		{TokenComment, "-- tail"},
		{TokenWord, "WHERE"},
		{TokenWord, "age"},
		{TokenPunct, ">="},
		{TokenNumber, "18.5"},
		{TokenComment, "/* c */"},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}

	for i, exp := range expected {
		if tokens[i].Type != exp.typ {
			t.Errorf("Token %d: expected type %v, got %v", i, exp.typ, tokens[i].Type)
		}
		if tokens[i].Literal != exp.literal {
			t.Errorf("Token %d: expected literal %q, got %q", i, exp.literal, tokens[i].Literal)
		}
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	tokens := NewLexer("select 'abc").Tokens()
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %d", len(tokens))
	}
	if tokens[1].Literal != "'abc" {
		t.Errorf("Expected literal to run to end of input, got %q", tokens[1].Literal)
	}
}

func TestLexer_DialectTokens(t *testing.T) {
	tests := []struct {
		in   string
		typ  TokenType
		want string
	}{
		{"N'Иван'", TokenQuoted, "N'Иван'"},
		{"E'a\\'b'", TokenQuoted, "E'a\\'b'"},
		{"x'ff'", TokenQuoted, "x'ff'"},
		{"$1", TokenWord, "$1"},
		{":region", TokenWord, ":region"},
		{"1e5", TokenNumber, "1e5"},
		{"2.5E-3", TokenNumber, "2.5E-3"},
		{"$$a;b$$", TokenQuoted, "$$a;b$$"},
		{"$fn$ select 1 $fn$", TokenQuoted, "$fn$ select 1 $fn$"},
		{"# note", TokenComment, "# note"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tokens := NewLexer(tt.in).Tokens()
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d: %v", len(tokens), tokens)
			}
			if tokens[0].Type != tt.typ || tokens[0].Literal != tt.want {
				t.Errorf("got %v, want type %v literal %q", tokens[0], tt.typ, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "select with where",
			in:   "select a, b from t where x=1 and y = 'a;b' order by a desc",
			want: "SELECT\n    a,\n    b\nFROM\n    t\nWHERE\n    x = 1\n    AND y = 'a;b'\nORDER BY\n    a DESC",
		},
		{
			name: "function call and join",
			in:   "SELECT COUNT(*) AS n FROM t1 LEFT JOIN t2 ON t1.id = t2.id",
			want: "SELECT\n    COUNT(*) AS n\nFROM\n    t1\nLEFT JOIN t2 ON t1.id = t2.id",
		},
		{
			name: "multiple statements",
			in:   "update t set x=1; select * from t",
			want: "UPDATE t\nSET\n    x = 1;\nSELECT\n    *\nFROM\n    t",
		},
		{
			name: "between keeps and inline",
			in:   "select a from t where d between 1 and 2",
			want: "SELECT\n    a\nFROM\n    t\nWHERE\n    d BETWEEN 1 AND 2",
		},
		{
			name: "subquery stays inline",
			in:   "select a from t where id in (select id from u)",
			want: "SELECT\n    a\nFROM\n    t\nWHERE\n    id IN (SELECT id FROM u)",
		},
		{
			name: "leading comment",
			in:   "-- hdr\nselect 1",
			want: "-- hdr\nSELECT\n    1",
		},
		{
			name: "national string literal",
			in:   "select name from t where name = N'Иван'",
			want: "SELECT\n    name\nFROM\n    t\nWHERE\n    name = N'Иван'",
		},
		{
			name: "positional parameter",
			in:   "select * from t where id = $1",
			want: "SELECT\n    *\nFROM\n    t\nWHERE\n    id = $1",
		},
		{
			name: "named parameter and cast",
			in:   "select a from t where id=:id and x::int > 0",
			want: "SELECT\n    a\nFROM\n    t\nWHERE\n    id = :id\n    AND x::int > 0",
		},
		{
			name: "exponent numbers",
			in:   "select 1e5, 2.5E-3",
			want: "SELECT\n    1e5,\n    2.5E-3",
		},
		{
			name: "dollar quoted string",
			in:   "select $$a;b$$",
			want: "SELECT\n    $$a;b$$",
		},
		{
			name: "hash comment ends the line",
			in:   "SELECT a, b # note\n, c FROM t",
			want: "SELECT\n    a,\n    b # note\n    ,\n    c\nFROM\n    t",
		},
		{
			name: "temp table name kept with rest of line",
			in:   "select * from #tmp where x = 1",
			want: "SELECT\n    *\nFROM\n    #tmp where x = 1",
		},
		{
			name: "empty",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.in)
			if got != tt.want {
				t.Errorf("Format() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
