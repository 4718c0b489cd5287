package engine

import (
	"math"

	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/keys"
)

const (
	// DecayWindow is how many of a side's most recent plays are checked for
	// repeats of the same exercise.
	DecayWindow = 10

	midPhaseAt  = 4
	latePhaseAt = 8

	streakBonusFrom = 2
	bonusPoints     = 2
	maxSteal        = 3
)

// ComboMultiplier counts the other cards in hand sharing the played card's
// combo tag. The played card itself must not be part of hand.
func ComboMultiplier(hand []game.PlayCard, played game.PlayCard) float64 {
	if played.ComboTag == "" {
		return 1
	}
	matches := 0
	for _, c := range hand {
		if c.ID != played.ID && c.ComboTag == played.ComboTag {
			matches++
		}
	}
	switch {
	case matches >= 2:
		return 2
	case matches == 1:
		return 1.5
	default:
		return 1
	}
}

// DecayFactor returns the share of points awarded for an exercise given the
// side's recent plays: full on first play, 60% on the second, 30% after.
func DecayFactor(recent []string, name string) float64 {
	key := keys.ExerciseKey(name)
	start := 0
	if len(recent) > DecayWindow {
		start = len(recent) - DecayWindow
	}
	seen := 0
	for _, k := range recent[start:] {
		if k == key {
			seen++
		}
	}
	switch seen {
	case 0:
		return 1
	case 1:
		return 0.6
	default:
		return 0.3
	}
}

// WarmupPhaseFactor scales warmup cards: worth more early, less late.
func WarmupPhaseFactor(category game.CardCategory, phase game.WarmupPhase) float64 {
	if category != game.CardCategoryWarmup {
		return 1
	}
	switch phase {
	case game.WarmupMid:
		return 1
	case game.WarmupLate:
		return 0.5
	default:
		return 1.5
	}
}

// PhaseFor classifies a play count.
func PhaseFor(cardsPlayed int) game.WarmupPhase {
	switch {
	case cardsPlayed >= latePhaseAt:
		return game.WarmupLate
	case cardsPlayed >= midPhaseAt:
		return game.WarmupMid
	default:
		return game.WarmupEarly
	}
}

// AdvanceWarmup records one more play. The phase never moves backwards.
func AdvanceWarmup(s game.WarmupScoringState, combo float64) game.WarmupScoringState {
	next := s
	next.CardsPlayed++
	if p := PhaseFor(next.CardsPlayed); p.Rank() > next.Phase.Rank() || next.Phase == "" {
		next.Phase = p
	}
	if combo <= 0 {
		combo = 1
	}
	next.Multiplier = combo
	return next
}

// WarmupInput is everything the warmup calculation needs about one play.
type WarmupInput struct {
	Name        string                  `json:"name"`
	Category    game.CardCategory       `json:"category"`
	Points      int                     `json:"points"`
	Combo       float64                 `json:"combo_multiplier"`
	OneShot     float64                 `json:"one_shot_multiplier"`
	RecentPlays []string                `json:"recent_plays"`
	State       game.WarmupScoringState `json:"state"`
}

// WarmupResult is the awarded points and the side's next warmup state.
type WarmupResult struct {
	Points int                     `json:"points"`
	Decay  float64                 `json:"decay"`
	State  game.WarmupScoringState `json:"state"`
}

// WarmupScorer computes warmup scoring. The local implementation is pure;
// remote implementations must fall back to it on failure.
type WarmupScorer interface {
	ScoreWarmup(in WarmupInput) WarmupResult
	// AdvanceWarmup records a play that scores nothing, such as a utility card.
	AdvanceWarmup(s game.WarmupScoringState, combo float64) game.WarmupScoringState
}

// LocalScorer is the in-process WarmupScorer.
type LocalScorer struct{}

// ScoreWarmup implements WarmupScorer.
func (LocalScorer) ScoreWarmup(in WarmupInput) WarmupResult {
	return ScoreWarmup(in)
}

// AdvanceWarmup implements WarmupScorer.
func (LocalScorer) AdvanceWarmup(s game.WarmupScoringState, combo float64) game.WarmupScoringState {
	return AdvanceWarmup(s, combo)
}

// ScoreWarmup applies decay, the warmup phase factor, the combo multiplier
// and the one-shot multiplier to a card's points, rounding once at the end.
func ScoreWarmup(in WarmupInput) WarmupResult {
	combo := in.Combo
	if combo <= 0 {
		combo = 1
	}
	oneShot := in.OneShot
	if oneShot <= 0 {
		oneShot = 1
	}
	state := in.State
	if state.Phase == "" {
		state.Phase = game.WarmupEarly
	}
	decay := DecayFactor(in.RecentPlays, in.Name)
	raw := float64(in.Points) * decay * WarmupPhaseFactor(in.Category, state.Phase) * combo * oneShot
	pts := int(math.Round(raw))
	if pts < 0 {
		pts = 0
	}
	return WarmupResult{Points: pts, Decay: decay, State: AdvanceWarmup(state, combo)}
}

// pushRecent appends a play to the recent window, trimming the oldest.
func pushRecent(recent []string, name string) []string {
	recent = append(recent, keys.ExerciseKey(name))
	if len(recent) > DecayWindow {
		recent = append([]string(nil), recent[len(recent)-DecayWindow:]...)
	}
	return recent
}
