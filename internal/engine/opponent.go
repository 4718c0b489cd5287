package engine

import "github.com/ottersport/ottersport/internal/game"

const (
	losingGap  = 5
	winningGap = -3
	strongCard = 4
)

// Policy picks the index of the card to play from hand, or -1 to pass.
type Policy interface {
	Choose(hand []game.PlayCard, ownScore, opponentScore int, r Rand) int
}

// HeuristicPolicy is the AI opponent: aggressive when behind, defensive when
// comfortably ahead, otherwise a random strong card.
type HeuristicPolicy struct{}

// Choose implements Policy. ownScore is the AI's score.
func (HeuristicPolicy) Choose(hand []game.PlayCard, aiScore, playerScore int, r Rand) int {
	if len(hand) == 0 {
		return -1
	}
	gap := playerScore - aiScore
	switch {
	case gap > losingGap:
		for i := range hand {
			if hand[i].Special != game.SpecialNone {
				return i
			}
		}
		for i := range hand {
			if hand[i].ComboTag != "" && ComboMultiplier(hand, hand[i]) > 1 {
				return i
			}
		}
		return highest(hand)
	case gap < winningGap:
		return lowest(hand)
	default:
		strong := make([]int, 0, len(hand))
		for i := range hand {
			if hand[i].Points >= strongCard {
				strong = append(strong, i)
			}
		}
		if len(strong) > 0 {
			return strong[r.Intn(len(strong))]
		}
		return r.Intn(len(hand))
	}
}

// GreedyPolicy always plays the highest-point card. The simulator uses it
// for the player side.
type GreedyPolicy struct{}

// Choose implements Policy.
func (GreedyPolicy) Choose(hand []game.PlayCard, _, _ int, _ Rand) int {
	if len(hand) == 0 {
		return -1
	}
	return highest(hand)
}

func highest(hand []game.PlayCard) int {
	best := 0
	for i := 1; i < len(hand); i++ {
		if hand[i].Points > hand[best].Points {
			best = i
		}
	}
	return best
}

func lowest(hand []game.PlayCard) int {
	best := 0
	for i := 1; i < len(hand); i++ {
		if hand[i].Points < hand[best].Points {
			best = i
		}
	}
	return best
}
