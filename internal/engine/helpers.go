package engine

import "github.com/ottersport/ottersport/internal/game"

// indexOf returns the position of the card with id in cards, or -1.
func indexOf(cards []game.PlayCard, id string) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

// removeAt returns cards without the element at i.
func removeAt(cards []game.PlayCard, i int) []game.PlayCard {
	out := make([]game.PlayCard, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	return append(out, cards[i+1:]...)
}

// drawInto moves up to n cards from the top of the pile into hand.
func drawInto(s *game.BattleState, side *game.SideState, n int) int {
	if n > len(s.DrawPile) {
		n = len(s.DrawPile)
	}
	if n <= 0 {
		return 0
	}
	side.Hand = append(side.Hand, s.DrawPile[:n]...)
	s.DrawPile = append([]game.PlayCard(nil), s.DrawPile[n:]...)
	return n
}

// fillHand draws until the hand reaches the cap or the pile runs out.
func fillHand(s *game.BattleState, side *game.SideState) int {
	return drawInto(s, side, s.HandSize-len(side.Hand))
}

// exhausted reports whether no card is left to draw or play.
func exhausted(s *game.BattleState) bool {
	return len(s.DrawPile) == 0 && len(s.Player.Hand) == 0 && len(s.AI.Hand) == 0
}

// winnerOf compares final scores.
func winnerOf(s *game.BattleState) string {
	switch {
	case s.Player.Score > s.AI.Score:
		return game.WinnerPlayer
	case s.AI.Score > s.Player.Score:
		return game.WinnerAI
	default:
		return game.WinnerTie
	}
}
