package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_SizeLimit(t *testing.T) {
	limit := DefaultMaxQuerySize

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Query(strings.Repeat("a", tt.size))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrQueryTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuery_ControlCharsPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Plain", "(Homo, Pan)"},
		{"Grammar Whitespace", "(\n\tHomo,\r\n Pan)"},
		{"ANSI Code", "(\x1b[31mHomo)"},
		{"Null Byte", "(Ho\x00mo)"},
		{"Delete", "(Ho\x7fmo)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Query(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestQuery_InvalidUTF8(t *testing.T) {
	_, err := Query("(Ho\xffmo)")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestQuery_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxQuerySize, "10")

	_, err := Query("(Homo, Pan)")
	assert.ErrorIs(t, err, ErrQueryTooLarge)

	_, err = Query("(Homo)")
	assert.NoError(t, err)
}

func TestMaxQuerySize_IgnoresInvalidOverride(t *testing.T) {
	t.Setenv(EnvMaxQuerySize, "-3")
	assert.Equal(t, DefaultMaxQuerySize, MaxQuerySize())

	t.Setenv(EnvMaxQuerySize, "lots")
	assert.Equal(t, DefaultMaxQuerySize, MaxQuerySize())
}
