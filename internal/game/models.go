package game

import (
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Exercise is a single workout movement from the exercise library. Rows are
// seeded from the deck file and treated as read-only reference data.
type Exercise struct {
	gorm.Model
	Name       string `json:"name" gorm:"size:64;uniqueIndex"`
	Category   string `json:"category" gorm:"size:32"`
	Difficulty int    `json:"difficulty"`
	// Default prescription. A zero value means the exercise is not measured
	// that way (a plank has a duration, push-ups have reps).
	Reps     int `json:"reps"`
	Duration int `json:"duration"`
	// Kind selects how the exercise becomes cards (exercise, warmup or
	// utility). Empty means derived from the category.
	Kind          CardCategory `json:"kind,omitempty" gorm:"size:16"`
	UtilityEffect UtilityEffect `json:"utility_effect,omitempty" gorm:"size:32"`
}

// CardKind resolves the card category an exercise expands into.
func (e Exercise) CardKind() CardCategory {
	switch e.Kind {
	case CardCategoryExercise, CardCategoryWarmup, CardCategoryUtility:
		return e.Kind
	}
	if strings.EqualFold(strings.TrimSpace(e.Category), CategoryWarmup) {
		return CardCategoryWarmup
	}
	return CardCategoryExercise
}

// Deck is a named, ordered collection of exercises.
type Deck struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:64"`
	Description string `json:"description" gorm:"size:256"`
	// Entries hold the ordering; API responses expose the flattened
	// Exercises list instead.
	Entries   []DeckEntry `json:"-"`
	Exercises []Exercise  `json:"exercises" gorm:"-"`
}

// DeckEntry places an exercise at a position inside a deck.
type DeckEntry struct {
	ID         uint     `json:"-" gorm:"primaryKey"`
	DeckID     uint     `json:"-" gorm:"index"`
	ExerciseID uint     `json:"-"`
	Position   int      `json:"-"`
	Exercise   Exercise `json:"-"`
}

// TableName keeps the join table name explicit.
func (DeckEntry) TableName() string { return "deck_entries" }

// FlattenEntries copies the preloaded entry exercises into Exercises,
// ordered by position.
func (d *Deck) FlattenEntries() {
	sort.SliceStable(d.Entries, func(i, j int) bool { return d.Entries[i].Position < d.Entries[j].Position })
	out := make([]Exercise, 0, len(d.Entries))
	for _, e := range d.Entries {
		out = append(out, e.Exercise)
	}
	d.Exercises = out
}
