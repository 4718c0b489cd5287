package api

import (
	"time"

	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/session"
)

// battleView is the client-facing battle. The AI hand and the draw pile
// order stay on the server; only their sizes are sent.
type battleView struct {
	ID        string     `json:"id"`
	DeckID    uint       `json:"deck_id"`
	State     *stateView `json:"state"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type stateView struct {
	*game.BattleState
	AIHandCount   int `json:"ai_hand_count"`
	DrawPileCount int `json:"draw_pile_count"`
}

func newBattleView(b session.Battle) battleView {
	v := battleView{ID: b.ID, DeckID: b.DeckID, Version: b.Version, UpdatedAt: b.UpdatedAt}
	if b.State == nil {
		return v
	}
	st := b.State.Clone()
	st.AI.Hand = []game.PlayCard{}
	st.DrawPile = []game.PlayCard{}
	v.State = &stateView{
		BattleState:   st,
		AIHandCount:   len(b.State.AI.Hand),
		DrawPileCount: len(b.State.DrawPile),
	}
	return v
}
