// Package credential persists the API key the console sends as X-API-Key.
package credential

import (
	"context"
	"errors"
	"strings"
)

// KeyName is the fixed entry name the key is stored under.
const KeyName = "yemen_lpr_api_key"

var ErrEmptyKey = errors.New("api key is empty")

// Store holds a single API key. Load returns "" when nothing was saved yet.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, key string) error
}

// Mask hides everything but the edges of a key for display.
func Mask(key string) string {
	runes := []rune(key)
	n := len(runes)
	if n == 0 {
		return ""
	}
	if n <= 8 {
		return strings.Repeat("*", n)
	}
	return string(runes[:4]) + strings.Repeat("*", n-8) + string(runes[n-4:])
}
