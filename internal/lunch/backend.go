// Package lunch owns the user's list of lunch options.
//
// The whole collection is one JSON array stored under OptionsKey in a
// Backend. Every mutation rewrites the array inside Backend.Update.
package lunch

import "context"

// Fixed keys in the backing key-value store.
const (
	OptionsKey = "lunchOptions"
	VisitedKey = "lunchChooserVisited"
)

// Backend is the key-value medium the store persists through.
// store.KV and memory.Store both satisfy it.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Update must hold whatever lock it needs for the whole read-modify-write
	// cycle and write nothing if fn returns an error.
	Update(ctx context.Context, key string, fn func(current string, ok bool) (string, error)) error
}

// FirstVisit reports whether the help flag was unset and sets it.
// Callers show first-run help when it returns true.
func FirstVisit(ctx context.Context, b Backend) (bool, error) {
	first := false
	err := b.Update(ctx, VisitedKey, func(current string, ok bool) (string, error) {
		first = !ok || current == ""
		return "true", nil
	})
	if err != nil {
		return false, err
	}
	return first, nil
}
