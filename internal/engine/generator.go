package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/ottersport/ottersport/internal/game"
)

const (
	DefaultSpecialChance  = 0.15
	DefaultPowerCardRatio = 0.10
	minPowerCards         = 2
	defaultDifficulty     = 3
	defaultCategoryBase   = 3
)

// categoryBase is the per-category difficulty used in the point formula.
var categoryBase = map[string]int{
	game.CategoryCardio:      3,
	game.CategoryStrength:    4,
	game.CategoryFlexibility: 2,
	game.CategoryBalance:     2,
	game.CategoryEndurance:   4,
	game.CategoryMixed:       3,
}

// Generator expands deck exercises into a shuffled draw pile.
type Generator struct {
	Rand           Rand
	SpecialChance  float64
	PowerCardRatio float64
	// NewID produces card ids; defaults to uuid.NewString.
	NewID func() string
}

// NewGenerator returns a generator with the default probabilities.
func NewGenerator(r Rand) *Generator {
	return &Generator{Rand: r, SpecialChance: DefaultSpecialChance, PowerCardRatio: DefaultPowerCardRatio}
}

// Generate builds the complete play deck for exercises. The returned slice
// is already shuffled and can be used as the draw pile.
func (g *Generator) Generate(exercises []game.Exercise) []game.PlayCard {
	cards := make([]game.PlayCard, 0, len(exercises)*3)
	for _, ex := range exercises {
		kind := ex.CardKind()
		for i := 0; i < CopiesFor(kind); i++ {
			cards = append(cards, g.exerciseCard(ex, kind))
		}
	}

	power := int(math.Round(float64(len(cards)) * g.PowerCardRatio))
	if power < minPowerCards {
		power = minPowerCards
	}
	for i := 1; i <= power; i++ {
		cards = append(cards, g.powerCard(i))
	}

	Shuffle(g.Rand, cards)
	return cards
}

// CopiesFor returns how many copies of an exercise enter the deck.
func CopiesFor(kind game.CardCategory) int {
	switch kind {
	case game.CardCategoryUtility:
		return 1
	case game.CardCategoryWarmup:
		return 2
	default:
		return 3
	}
}

// CardPoints applies the point formula for an exercise.
func CardPoints(ex game.Exercise) int {
	base, ok := categoryBase[normalizeCategory(ex.Category)]
	if !ok {
		base = defaultCategoryBase
	}
	scale := math.Max(float64(ex.Reps)/10, float64(ex.Duration)/30)
	return int(math.Round(float64(base) * scale))
}

// TypeFor maps an exercise category to its card type tag.
func TypeFor(category string) game.CardType {
	switch normalizeCategory(category) {
	case game.CategoryCardio:
		return game.CardTypeCardio
	case game.CategoryStrength, game.CategoryEndurance:
		return game.CardTypeStrength
	case game.CategoryFlexibility, game.CategoryBalance:
		return game.CardTypeFlexibility
	default:
		return game.CardTypeMixed
	}
}

func (g *Generator) exerciseCard(ex game.Exercise, kind game.CardCategory) game.PlayCard {
	c := game.PlayCard{
		ID:         g.newID(),
		ExerciseID: ex.ID,
		Name:       ex.Name,
		Difficulty: ex.Difficulty,
		Category:   kind,
	}
	if c.Difficulty <= 0 {
		c.Difficulty = defaultDifficulty
	}

	switch kind {
	case game.CardCategoryUtility:
		c.Type = game.CardTypeUtility
		c.UtilityEffect = ex.UtilityEffect
		if !c.UtilityEffect.Valid() {
			c.UtilityEffect = game.UtilityRedrawHand
		}
		return c
	case game.CardCategoryWarmup:
		c.Type = game.CardTypeWarmup
		c.ComboTag = game.CategoryWarmup
	default:
		c.Type = TypeFor(ex.Category)
		c.ComboTag = normalizeCategory(ex.Category)
	}

	c.Points = CardPoints(ex)
	if c.Points < 1 {
		c.Points = 1
	}
	if g.Rand.Float64() < g.SpecialChance {
		c.Special = g.randomSpecial()
	}
	return c
}

func (g *Generator) powerCard(n int) game.PlayCard {
	return game.PlayCard{
		ID:         g.newID(),
		Name:       fmt.Sprintf("Power Surge %d", n),
		Points:     4 + g.Rand.Intn(3),
		Difficulty: 3 + g.Rand.Intn(3),
		Type:       game.CardTypeMixed,
		Special:    g.randomSpecial(),
		Category:   game.CardCategoryPower,
	}
}

func (g *Generator) randomSpecial() game.Special {
	return game.Specials[g.Rand.Intn(len(game.Specials))]
}

func (g *Generator) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return uuid.NewString()
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
