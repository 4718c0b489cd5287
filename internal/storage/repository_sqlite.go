package storage

import (
	"errors"
	"fmt"

	"github.com/ottersport/ottersport/internal/game"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) ListExercises() ([]game.Exercise, error) {
	var exercises []game.Exercise
	if err := r.db.Order("name").Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *sqliteRepository) ListDecks() ([]game.Deck, error) {
	var decks []game.Deck
	if err := r.db.Order("id").Find(&decks).Error; err != nil {
		return nil, err
	}
	return decks, nil
}

func (r *sqliteRepository) GetDeckByID(id uint) (*game.Deck, error) {
	var d game.Deck
	err := r.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Preload("Entries.Exercise").First(&d, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("deck %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	d.FlattenEntries()
	return &d, nil
}

func (r *sqliteRepository) CreateDeck(name, description string, exerciseIDs []uint) (*game.Deck, error) {
	var created game.Deck
	err := r.db.Transaction(func(tx *gorm.DB) error {
		unique := make([]uint, 0, len(exerciseIDs))
		seen := make(map[uint]bool, len(exerciseIDs))
		for _, id := range exerciseIDs {
			if !seen[id] {
				seen[id] = true
				unique = append(unique, id)
			}
		}
		var found int64
		if err := tx.Model(&game.Exercise{}).Where("id IN ?", unique).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(unique) {
			return ErrUnknownExercise
		}

		entries := make([]game.DeckEntry, len(exerciseIDs))
		for i, id := range exerciseIDs {
			entries[i] = game.DeckEntry{ExerciseID: id, Position: i}
		}
		created = game.Deck{Name: name, Description: description}
		return createDeck(tx, &created, entries)
	})
	if err != nil {
		return nil, err
	}
	return r.GetDeckByID(created.ID)
}

func (r *sqliteRepository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
