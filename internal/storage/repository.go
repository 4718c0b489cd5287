package storage

import (
	"errors"

	"github.com/ottersport/ottersport/internal/game"
)

var (
	// ErrNotFound is returned when a deck does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownExercise is returned by CreateDeck when an exercise id is
	// not part of the library.
	ErrUnknownExercise = errors.New("unknown exercise")
)

// Repository is the persistence boundary for the exercise and deck library.
type Repository interface {
	ListExercises() ([]game.Exercise, error)
	// ListDecks returns decks without their exercises.
	ListDecks() ([]game.Deck, error)
	// GetDeckByID returns a deck with Exercises ordered by position.
	GetDeckByID(id uint) (*game.Deck, error)
	// CreateDeck stores a deck whose exercises are the given library ids,
	// in order. Duplicated ids are allowed.
	CreateDeck(name, description string, exerciseIDs []uint) (*game.Deck, error)
	Ping() error
}
