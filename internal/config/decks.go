package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ottersport/ottersport/internal/game"
)

// DeckFile is the top-level structure of the YAML seed file.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry is one deck in the seed file.
type DeckEntry struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Exercises   []ExerciseEntry `yaml:"exercises"`
}

// ExerciseEntry describes an exercise as it appears in a seed deck. The
// same exercise name may appear in several decks; it is stored once.
type ExerciseEntry struct {
	Name          string             `yaml:"name"`
	Category      string             `yaml:"category"`
	Difficulty    int                `yaml:"difficulty"`
	Reps          int                `yaml:"reps"`
	Duration      int                `yaml:"duration"`
	Kind          game.CardCategory  `yaml:"kind"`
	UtilityEffect game.UtilityEffect `yaml:"utility_effect"`
}

// Exercise converts the entry into its persisted form.
func (e ExerciseEntry) Exercise() game.Exercise {
	return game.Exercise{
		Name:          strings.TrimSpace(e.Name),
		Category:      strings.ToLower(strings.TrimSpace(e.Category)),
		Difficulty:    e.Difficulty,
		Reps:          e.Reps,
		Duration:      e.Duration,
		Kind:          e.Kind,
		UtilityEffect: e.UtilityEffect,
	}
}

// LoadDeckFile parses and validates a YAML seed file.
func LoadDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file %s: %w", path, err)
	}
	return ParseDeckFile(path, data)
}

// ParseDeckFile parses seed YAML. path only labels errors.
func ParseDeckFile(path string, data []byte) (*DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML %s: %w", path, err)
	}
	if len(df.Decks) == 0 {
		return nil, fmt.Errorf("deck file %s: decks is empty", path)
	}
	for _, d := range df.Decks {
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("deck file %s: deck entry missing 'name'", path)
		}
		for _, e := range d.Exercises {
			if strings.TrimSpace(e.Name) == "" {
				return nil, fmt.Errorf("deck file %s: deck %q has an exercise without 'name'", path, d.Name)
			}
			if e.Difficulty < 0 || e.Difficulty > 5 {
				return nil, fmt.Errorf("deck file %s: exercise %q difficulty must be 0-5", path, e.Name)
			}
			switch e.Kind {
			case "", game.CardCategoryExercise, game.CardCategoryWarmup:
			case game.CardCategoryUtility:
				if !e.UtilityEffect.Valid() {
					return nil, fmt.Errorf("deck file %s: utility %q has unknown utility_effect %q", path, e.Name, e.UtilityEffect)
				}
			default:
				return nil, fmt.Errorf("deck file %s: exercise %q has unknown kind %q", path, e.Name, e.Kind)
			}
		}
	}
	return &df, nil
}
