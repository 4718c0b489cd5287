package engine

import "github.com/ottersport/ottersport/internal/game"

// --- Resolution context ----------------------------------------------------
type playContext struct {
	s       *game.BattleState
	summary []string
}

func newPlayContext(s *game.BattleState) *playContext {
	return &playContext{s: s, summary: make([]string, 0, 8)}
}

func (pc *playContext) add(msg string) { pc.summary = append(pc.summary, msg) }

// finish stores the accumulated summary as the state's log.
func (pc *playContext) finish() {
	pc.s.Log = pc.summary
}

func sideLabel(s game.Side) string {
	if s == game.SideAI {
		return "Otter AI"
	}
	return "Player"
}
