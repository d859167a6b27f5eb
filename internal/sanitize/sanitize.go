// Package sanitize guards query text that arrives from outside the process.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

var (
	// DefaultMaxQuerySize is 4KB.
	DefaultMaxQuerySize = 4096
	// EnvMaxQuerySize overrides DefaultMaxQuerySize.
	EnvMaxQuerySize = "TAXAQUERY_MAX_QUERY_SIZE"
)

var (
	ErrQueryTooLarge = errors.New("query exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("query contains invalid UTF-8 sequences")
)

// Query enforces the size limit and validates UTF-8. The text is returned unchanged:
// any other illegal character is left for the parser to report at its offset.
func Query(input string) (string, error) {
	limit := MaxQuerySize()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrQueryTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	return input, nil
}

// MaxQuerySize returns the effective limit in bytes.
func MaxQuerySize() int {
	if val := os.Getenv(EnvMaxQuerySize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxQuerySize
}
