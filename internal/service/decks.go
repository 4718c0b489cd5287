package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/dedupe"
	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/keys"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/storage"
)

// DeckProvider loads decks through the repository. Concurrent loads of the
// same deck share one query. Decks never change once created, so loaded
// decks stay cached.
type DeckProvider struct {
	repo storage.Repository

	mu    sync.RWMutex
	cache map[uint]*game.Deck
}

func NewDeckProvider(repo storage.Repository) *DeckProvider {
	return &DeckProvider{repo: repo, cache: map[uint]*game.Deck{}}
}

// Deck returns the deck with its ordered exercises. Callers must not
// modify the result.
func (p *DeckProvider) Deck(id uint) (*game.Deck, error) {
	p.mu.RLock()
	d, ok := p.cache[id]
	p.mu.RUnlock()
	if ok {
		return d, nil
	}

	key := keys.DeckKey(id)
	v, err, shared := dedupe.DeckGroup.Do(key, func() (interface{}, error) {
		p.mu.RLock()
		cached, ok := p.cache[id]
		p.mu.RUnlock()
		if ok {
			return cached, nil
		}
		d, err := p.repo.GetDeckByID(id)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[id] = d
		p.mu.Unlock()
		return d, nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDeckNotFound, id)
		}
		return nil, err
	}
	if shared {
		logging.Debug("deck load shared", logging.Fields{constants.LogFieldKey: key})
	}
	return v.(*game.Deck), nil
}

// Exercises returns the deck's exercises, or ErrDeckEmpty when there are
// none.
func (p *DeckProvider) Exercises(id uint) ([]game.Exercise, error) {
	d, err := p.Deck(id)
	if err != nil {
		return nil, err
	}
	if len(d.Exercises) == 0 {
		return nil, fmt.Errorf("%w: deck %d", ErrDeckEmpty, id)
	}
	return d.Exercises, nil
}

func (p *DeckProvider) ListDecks() ([]game.Deck, error) {
	return p.repo.ListDecks()
}

func (p *DeckProvider) ListExercises() ([]game.Exercise, error) {
	return p.repo.ListExercises()
}

// CreateDeck validates and stores a new deck.
func (p *DeckProvider) CreateDeck(name, description string, exerciseIDs []uint) (*game.Deck, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: %s", ErrInvalidDeck, constants.ErrDeckNameRequired)
	case len(name) > constants.MaxDeckNameLength:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDeck, constants.ErrDeckNameExceeds)
	case len(description) > constants.MaxDeckDescriptionLength:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDeck, constants.ErrDescriptionExceeds)
	case len(exerciseIDs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDeck, constants.ErrDeckNeedsExercises)
	}
	d, err := p.repo.CreateDeck(name, description, exerciseIDs)
	if errors.Is(err, storage.ErrUnknownExercise) {
		return nil, ErrUnknownExercise
	}
	if err != nil {
		return nil, err
	}
	logging.Info("deck created", logging.Fields{constants.LogFieldDeckID: d.ID, constants.LogFieldName: d.Name})
	return d, nil
}
