package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"a.bin", "a_bin"},
		{"dir/sub/a.bin", "a_bin"},
		{"index.html.gz", "index_html_gz"},
		{"my-font 12.ttf", "my_font_12_ttf"},
		{"already_ok", "already_ok"},
		{"Mixed09.Case", "Mixed09_Case"},
		{"café.png", "caf__png"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := Symbol(tt.path)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, result, Symbol(tt.path), "symbol must be deterministic")
		})
	}
}

func TestGuardName(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"combo", "COMBO"},
		{"a.bin", "A_BIN"},
		{"build/web-ui", "BUILD_WEB_UI"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.expected, GuardName(tt.base))
		})
	}
}

func TestCheckCollisions(t *testing.T) {
	require.NoError(t, CheckCollisions([]string{"a/x.bin", "a/y.bin"}))

	err := CheckCollisions([]string{"a/x.bin", "b/x.bin", "c/x-bin"})
	require.ErrorIs(t, err, ErrSymbolCollision)
}
