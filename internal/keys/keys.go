package keys

import (
	"strconv"
	"strings"
)

// ExerciseKey produces the canonical key used to detect repeated plays of
// the same exercise: trimmed, lower-cased, inner whitespace collapsed to
// single underscores. "Jumping  Jacks" and "jumping jacks" share a key.
func ExerciseKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// DeckKey is the singleflight and cache key for a deck load.
func DeckKey(id uint) string {
	return "deck:" + strconv.FormatUint(uint64(id), 10)
}
