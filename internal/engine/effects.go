package engine

import (
	"fmt"

	"github.com/ottersport/ottersport/internal/game"
)

const drawBonusCards = 2

// applyUtility performs a utility card's effect. Utility cards never score.
// It reports whether the actor takes another turn.
func (e *Engine) applyUtility(pc *playContext, side game.Side, card game.PlayCard) bool {
	s := pc.s
	actor := s.Side(side)
	who := sideLabel(side)

	switch card.UtilityEffect {
	case game.UtilityRedrawHand:
		returned := len(actor.Hand)
		s.Discard = append(s.Discard, actor.Hand...)
		actor.Hand = []game.PlayCard{}
		drawn := fillHand(s, actor)
		pc.add(fmt.Sprintf("%s discarded %d cards and redrew %d.", who, returned, drawn))
	case game.UtilityShuffleDiscards:
		n := len(s.Discard)
		s.DrawPile = append(s.DrawPile, s.Discard...)
		s.Discard = []game.PlayCard{}
		Shuffle(e.Rand, s.DrawPile)
		pc.add(fmt.Sprintf("%s shuffled %d discarded cards back into the pile.", who, n))
	case game.UtilityDrawBonus:
		drawn := drawInto(s, actor, drawBonusCards)
		pc.add(fmt.Sprintf("%s drew %d bonus cards.", who, drawn))
	case game.UtilityDoubleNext:
		actor.OneShot = 2
		pc.add(fmt.Sprintf("%s will score double with the next card.", who))
	case game.UtilitySkipTurn:
		drawn := drawInto(s, actor, 1)
		pc.add(fmt.Sprintf("%s skipped %s's turn and drew %d.", who, sideLabel(side.Opponent()), drawn))
		return true
	default:
		pc.add(fmt.Sprintf("%s played %s with no effect.", who, card.Name))
	}
	return false
}
