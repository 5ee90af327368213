package telemetry

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		max   int
		want  string
	}{
		{"fits", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"empty", "", 0, ""},
		{"max below ellipsis", "hello", 2, ""},
		{"exactly ellipsis", "hello", 3, "..."},
		{"escaped newline counts twice", "a\nb\nc", 6, "a\n..."},
		{"multibyte rune aligned", "ééé", 5, "é..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.value, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, EncodedLen(got), max(tt.max, 0))
		})
	}
}

func TestTruncate_Idempotent(t *testing.T) {
	inputs := []string{
		strings.Repeat("x", 10000),
		strings.Repeat("日本語\n", 300),
		`quote"and\backslash`,
	}
	for _, in := range inputs {
		for _, m := range []int{0, 3, 7, 100, 1234} {
			once := Truncate(in, m)
			assert.Equal(t, once, Truncate(once, m))
			assert.True(t, utf8.ValidString(once))
		}
	}
}

func TestEncodedLen(t *testing.T) {
	assert.Equal(t, 3, EncodedLen("abc"))
	assert.Equal(t, 2, EncodedLen("\n"))
	assert.Equal(t, 1, EncodedLen("<"), "html characters are not escaped")
	assert.Equal(t, 2, EncodedLen("é"))
}
