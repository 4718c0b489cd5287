package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent loads. Only one load runs for a given key while other callers
// wait for its result.

import "golang.org/x/sync/singleflight"

// DeckGroup deduplicates deck loads keyed by keys.DeckKey (e.g. "deck:3").
var DeckGroup singleflight.Group
