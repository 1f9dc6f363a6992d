package postgres

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestFormatValue(t *testing.T) {
	var num pgtype.Numeric
	if err := num.Scan("1234.50"); err != nil {
		t.Fatalf("Scan numeric: %v", err)
	}

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"uuid", [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0},
			"12345678-9abc-def0-1234-56789abcdef0"},
		{"numeric", num, "1234.50"},
		{"negative fraction", pgtype.Numeric{Int: big.NewInt(-5), Exp: -3, Valid: true}, "-0.005"},
		{"positive exponent", pgtype.Numeric{Int: big.NewInt(12), Exp: 2, Valid: true}, "1200"},
		{"text", "hello", "hello"},
		{"null", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.input); got != tt.expected {
				t.Errorf("formatValue() = %q, want %q", got, tt.expected)
			}
		})
	}
}
