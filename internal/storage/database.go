package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ottersport/ottersport/internal/config"
	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the SQLite database, creates the tables and seeds
// the deck library from seed when no deck exists yet. A nil seed skips
// seeding.
func OpenAndMigrate(dataSourceName string, seed *config.DeckFile) (*gorm.DB, error) {
	if !strings.HasPrefix(dataSourceName, "file:") && dataSourceName != ":memory:" {
		if dir := filepath.Dir(dataSourceName); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&game.Exercise{}, &game.Deck{}, &game.DeckEntry{}); err != nil {
		return nil, err
	}
	if seed != nil {
		if err := seedDecks(db, seed); err != nil {
			return nil, fmt.Errorf("seed decks: %w", err)
		}
	}
	return db, nil
}

// seedDecks inserts the decks of df when the decks table is empty.
// Exercises are shared across decks by name.
func seedDecks(db *gorm.DB, df *config.DeckFile) error {
	var count int64
	if err := db.Model(&game.Deck{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		byName := map[string]uint{}
		for _, d := range df.Decks {
			entries := make([]game.DeckEntry, 0, len(d.Exercises))
			for pos, e := range d.Exercises {
				ex := e.Exercise()
				id, ok := byName[strings.ToLower(ex.Name)]
				if !ok {
					if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ex).Error; err != nil {
						return err
					}
					var stored game.Exercise
					if err := tx.Where("name = ?", ex.Name).First(&stored).Error; err != nil {
						return err
					}
					id = stored.ID
					byName[strings.ToLower(ex.Name)] = id
				}
				entries = append(entries, game.DeckEntry{ExerciseID: id, Position: pos})
			}
			deck := game.Deck{Name: strings.TrimSpace(d.Name), Description: strings.TrimSpace(d.Description)}
			if err := createDeck(tx, &deck, entries); err != nil {
				return err
			}
			logging.Info("deck seeded", logging.Fields{constants.LogFieldDeckID: deck.ID, constants.LogFieldName: deck.Name, constants.LogFieldCount: len(entries)})
		}
		return nil
	})
}

// createDeck inserts deck and its entries without touching the exercise
// rows the entries point at.
func createDeck(tx *gorm.DB, deck *game.Deck, entries []game.DeckEntry) error {
	if err := tx.Omit(clause.Associations).Create(deck).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].DeckID = deck.ID
	}
	return tx.Omit(clause.Associations).Create(&entries).Error
}
