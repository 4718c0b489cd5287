package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottersport/ottersport/internal/game"
)

func card(id string, pts int) game.PlayCard {
	return game.PlayCard{ID: id, Name: "Exercise " + id, Points: pts, Category: game.CardCategoryExercise, Type: game.CardTypeMixed}
}

func utility(id string, effect game.UtilityEffect) game.PlayCard {
	return game.PlayCard{ID: id, Name: "Utility " + id, Category: game.CardCategoryUtility, Type: game.CardTypeUtility, UtilityEffect: effect}
}

// battleAt builds a state in the given phase with explicit piles.
func battleAt(phase game.Phase, player, ai, pile []game.PlayCard) *game.BattleState {
	s := NewBattle(nil, DefaultHandSize)
	s.Phase = phase
	s.Winner = ""
	s.Player.Hand = append([]game.PlayCard{}, player...)
	s.AI.Hand = append([]game.PlayCard{}, ai...)
	s.DrawPile = append([]game.PlayCard{}, pile...)
	s.InitialCount = s.CardCount()
	if phase == game.PhaseAITurn {
		s.Turn = game.SideAI
	}
	return s
}

func newTestEngine(seed int64) *Engine {
	return New(rand.New(rand.NewSource(seed)))
}

func mustApply(t *testing.T, e *Engine, s *game.BattleState, a Action) *game.BattleState {
	t.Helper()
	next, err := e.Apply(s, a)
	require.NoError(t, err)
	return next
}

func TestApply_DrawFillsPlayerFirst(t *testing.T) {
	cards := make([]game.PlayCard, 10)
	for i := range cards {
		cards[i] = card(fmt.Sprintf("c%d", i), 1)
	}
	s := NewBattle(cards, 3)
	next := mustApply(t, newTestEngine(1), s, Draw{})

	assert.Equal(t, game.PhasePlaying, next.Phase)
	assert.Equal(t, []string{"c0", "c1", "c2"}, ids(next.Player.Hand))
	assert.Equal(t, []string{"c3", "c4", "c5"}, ids(next.AI.Hand))
	assert.Len(t, next.DrawPile, 4)
	assert.Len(t, s.DrawPile, 10, "input state must not change")
}

func TestApply_DrawSmallPile(t *testing.T) {
	s := NewBattle([]game.PlayCard{card("a", 1), card("b", 1)}, 3)
	next := mustApply(t, newTestEngine(1), s, Draw{})

	assert.Len(t, next.Player.Hand, 2)
	assert.Empty(t, next.AI.Hand)
	assert.Equal(t, game.PhasePlaying, next.Phase)
}

func TestApply_ThreeExerciseScenario(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(2)))
	g.SpecialChance = 0
	cards := g.Generate(threeExercises())
	e := newTestEngine(2)

	s := mustApply(t, e, NewBattle(cards, 3), Draw{})
	require.Len(t, s.Player.Hand, 3)
	pileAfterDraw := len(s.DrawPile)

	best := s.Player.Hand[highest(s.Player.Hand)]
	s = mustApply(t, e, s, PlayCard{CardID: best.ID})
	assert.Equal(t, game.PhaseAITurn, s.Phase)
	assert.Len(t, s.DrawPile, pileAfterDraw, "plays never shrink the pile")

	s = mustApply(t, e, s, OpponentTurn{})
	assert.Equal(t, game.PhaseDrawing, s.Phase)
	assert.NotNil(t, s.AI.LastPlayed)
	assert.Len(t, s.DrawPile, pileAfterDraw)
}

func TestApply_StealTakesWhatIsThere(t *testing.T) {
	steal := card("s", 5)
	steal.Special = game.SpecialSteal
	s := battleAt(game.PhasePlaying, []game.PlayCard{steal}, []game.PlayCard{card("x", 1)}, []game.PlayCard{card("y", 1)})
	s.AI.Score = 2

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "s"})

	assert.Equal(t, 2, next.Player.Score)
	assert.Equal(t, 0, next.AI.Score)
	assert.Equal(t, game.PhaseAITurn, next.Phase)
}

func TestApply_StealCappedAtThree(t *testing.T) {
	steal := card("s", 5)
	steal.Special = game.SpecialSteal
	s := battleAt(game.PhasePlaying, []game.PlayCard{steal}, []game.PlayCard{card("x", 1)}, nil)
	s.AI.Score = 10

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "s"})

	assert.Equal(t, 3, next.Player.Score)
	assert.Equal(t, 7, next.AI.Score)
}

func TestApply_ShieldBlocksSteal(t *testing.T) {
	steal := card("s", 5)
	steal.Special = game.SpecialSteal
	s := battleAt(game.PhasePlaying, []game.PlayCard{steal}, []game.PlayCard{card("x", 1)}, nil)
	s.AI.Score = 6
	s.AI.Shield = true

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "s"})

	assert.Equal(t, 0, next.Player.Score)
	assert.Equal(t, 6, next.AI.Score)
	assert.False(t, next.AI.Shield, "shield is consumed")
}

func TestApply_TieReported(t *testing.T) {
	s := battleAt(game.PhasePlaying, []game.PlayCard{utility("u", game.UtilityDoubleNext)}, nil, nil)
	s.Player.Score = 4
	s.AI.Score = 4

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "u"})

	assert.Equal(t, game.PhaseGameOver, next.Phase)
	assert.Equal(t, game.WinnerTie, next.Winner)
}

func TestApply_WinnerByStrictComparison(t *testing.T) {
	s := battleAt(game.PhasePlaying, []game.PlayCard{card("a", 2)}, nil, nil)
	s.AI.Score = 1

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "a"})

	assert.Equal(t, game.WinnerPlayer, next.Winner)
	assert.Equal(t, 2, next.Player.Score)
}

func TestApply_ComboAndStreak(t *testing.T) {
	tagged := func(id string) game.PlayCard {
		c := card(id, 2)
		c.ComboTag = "cardio"
		return c
	}
	e := newTestEngine(1)
	s := battleAt(game.PhasePlaying, []game.PlayCard{tagged("a"), tagged("b"), tagged("c")}, nil, nil)

	s = mustApply(t, e, s, PlayCard{CardID: "a"})
	assert.Equal(t, 4, s.Player.Score, "two matches double the points")
	assert.Equal(t, 1, s.Player.Streak)
	assert.True(t, s.LastCombo)

	s = mustApply(t, e, s, OpponentTurn{})
	s = mustApply(t, e, s, Draw{})
	s = mustApply(t, e, s, PlayCard{CardID: "b"})
	assert.Equal(t, 4+3+2, s.Player.Score, "1.5x plus streak bonus of 2")
	assert.Equal(t, 2, s.Player.Streak)

	s = mustApply(t, e, s, OpponentTurn{})
	s = mustApply(t, e, s, Draw{})
	s = mustApply(t, e, s, PlayCard{CardID: "c"})
	assert.Equal(t, 0, s.Player.Streak, "non-combo play resets the streak")
	assert.Equal(t, 11, s.Player.Score)
	assert.Equal(t, game.PhaseGameOver, s.Phase)
}

func TestApply_RepeatedExerciseDecays(t *testing.T) {
	plank := func(id string) game.PlayCard {
		c := card(id, 10)
		c.Name = "Plank"
		return c
	}
	e := newTestEngine(1)
	s := battleAt(game.PhasePlaying, []game.PlayCard{plank("p1"), plank("p2"), plank("p3")}, nil, nil)

	for _, id := range []string{"p1", "p2", "p3"} {
		s = mustApply(t, e, s, PlayCard{CardID: id})
		if s.Phase == game.PhaseAITurn {
			s = mustApply(t, e, s, OpponentTurn{})
			s = mustApply(t, e, s, Draw{})
		}
	}
	assert.Equal(t, 10+6+3, s.Player.Score)
}

func TestApply_DoubleAndBonus(t *testing.T) {
	double := card("d", 2)
	double.Special = game.SpecialDouble
	bonus := card("b", 3)
	bonus.Special = game.SpecialBonus
	e := newTestEngine(1)
	s := battleAt(game.PhasePlaying, []game.PlayCard{double, bonus}, nil, nil)

	s = mustApply(t, e, s, PlayCard{CardID: "d"})
	assert.Equal(t, 2, s.Player.Score)
	assert.Equal(t, 2.0, s.Player.OneShot)

	s = mustApply(t, e, s, OpponentTurn{})
	s = mustApply(t, e, s, Draw{})
	s = mustApply(t, e, s, PlayCard{CardID: "b"})
	assert.Equal(t, 2+6+2, s.Player.Score)
	assert.Equal(t, 1.0, s.Player.OneShot, "one-shot multiplier is consumed")
}

func TestApply_OneShotRoundsOnce(t *testing.T) {
	tagged := func(id string, pts int) game.PlayCard {
		c := card(id, pts)
		c.ComboTag = "core"
		return c
	}
	s := battleAt(game.PhasePlaying, []game.PlayCard{tagged("a", 3), tagged("b", 1)}, []game.PlayCard{card("x", 1)}, nil)
	s.Player.OneShot = 2

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "a"})
	assert.Equal(t, 9, next.Player.Score, "round(3 x 1.5 x 2)")
	assert.Equal(t, 1.0, next.Player.OneShot)
}

func TestApply_BlockRaisesShield(t *testing.T) {
	block := card("k", 1)
	block.Special = game.SpecialBlock
	s := battleAt(game.PhasePlaying, []game.PlayCard{block}, []game.PlayCard{card("x", 1)}, nil)

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "k"})
	assert.True(t, next.Player.Shield)
}

func TestApply_InvalidMoves(t *testing.T) {
	e := newTestEngine(1)
	playing := battleAt(game.PhasePlaying, []game.PlayCard{card("a", 1)}, nil, []game.PlayCard{card("b", 1)})
	drawing := battleAt(game.PhaseDrawing, nil, nil, []game.PlayCard{card("b", 1)})
	over := battleAt(game.PhaseGameOver, nil, nil, nil)

	cases := []struct {
		name string
		s    *game.BattleState
		a    Action
	}{
		{"play while drawing", drawing, PlayCard{CardID: "b"}},
		{"play unknown card", playing, PlayCard{CardID: "zzz"}},
		{"draw while playing", playing, Draw{}},
		{"opponent while playing", playing, OpponentTurn{}},
		{"draw after game over", over, Draw{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.s.Clone()
			next, err := e.Apply(tc.s, tc.a)
			require.Error(t, err)
			assert.Nil(t, next)
			var ime *InvalidMoveError
			assert.True(t, errors.As(err, &ime))
			assert.Empty(t, cmp.Diff(before, tc.s, cmpopts.EquateEmpty()), "state changed on invalid move")
		})
	}
}

func TestApply_Timeout(t *testing.T) {
	e := newTestEngine(1)
	playing := battleAt(game.PhasePlaying, []game.PlayCard{card("a", 1)}, nil, nil)
	same, err := e.Apply(playing, Timeout{})
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlaying, same.Phase)

	aiTurn := battleAt(game.PhaseAITurn, []game.PlayCard{card("a", 1)}, []game.PlayCard{card("x", 5)}, nil)
	forced := mustApply(t, e, aiTurn, Timeout{})
	assert.Equal(t, 5, forced.AI.Score)
	assert.Equal(t, game.PhaseDrawing, forced.Phase)
}

func TestApply_UtilityRedrawHand(t *testing.T) {
	s := battleAt(game.PhasePlaying,
		[]game.PlayCard{utility("u", game.UtilityRedrawHand), card("a", 1), card("b", 1)},
		[]game.PlayCard{card("x", 1)},
		[]game.PlayCard{card("p1", 1), card("p2", 1), card("p3", 1), card("p4", 1)})

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "u"})

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(next.Player.Hand))
	assert.Equal(t, []string{"a", "b"}, ids(next.Discard))
	assert.Equal(t, 0, next.Player.Score)
	assert.Equal(t, s.InitialCount, next.CardCount())
}

func TestApply_UtilityShuffleDiscards(t *testing.T) {
	s := battleAt(game.PhasePlaying, []game.PlayCard{utility("u", game.UtilityShuffleDiscards)}, []game.PlayCard{card("x", 1)}, []game.PlayCard{card("p", 1)})
	s.Discard = []game.PlayCard{card("d1", 1), card("d2", 1)}
	s.InitialCount = s.CardCount()

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "u"})

	assert.Empty(t, next.Discard)
	assert.ElementsMatch(t, []string{"p", "d1", "d2"}, ids(next.DrawPile))
	assert.Equal(t, []string{"u"}, ids(next.Played), "the utility card itself never returns")
}

func TestApply_UtilitySkipTurnKeepsPlayerActing(t *testing.T) {
	s := battleAt(game.PhasePlaying, []game.PlayCard{utility("u", game.UtilitySkipTurn), card("a", 1)}, []game.PlayCard{card("x", 1)}, []game.PlayCard{card("p", 1)})

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "u"})

	assert.Equal(t, game.PhasePlaying, next.Phase)
	assert.Equal(t, []string{"a", "p"}, ids(next.Player.Hand))
}

func TestApply_UtilityDrawBonusExceedsCap(t *testing.T) {
	s := battleAt(game.PhasePlaying,
		[]game.PlayCard{utility("u", game.UtilityDrawBonus), card("a", 1), card("b", 1)},
		[]game.PlayCard{card("x", 1)},
		[]game.PlayCard{card("p1", 1), card("p2", 1), card("p3", 1)})

	next := mustApply(t, newTestEngine(1), s, PlayCard{CardID: "u"})

	assert.Len(t, next.Player.Hand, 4)
	assert.Len(t, next.DrawPile, 1)
}

// TestApply_RandomPlayouts drives full games and checks the invariants after
// every transition.
func TestApply_RandomPlayouts(t *testing.T) {
	exercises := append(threeExercises(),
		game.Exercise{Name: "Jog", Category: "cardio", Duration: 90},
		game.Exercise{Name: "Neck Rolls", Category: "warmup", Reps: 10},
		game.Exercise{Name: "Reset", Kind: game.CardCategoryUtility, UtilityEffect: game.UtilityRedrawHand},
		game.Exercise{Name: "Recycle", Kind: game.CardCategoryUtility, UtilityEffect: game.UtilityShuffleDiscards},
		game.Exercise{Name: "Sprint", Kind: game.CardCategoryUtility, UtilityEffect: game.UtilitySkipTurn},
		game.Exercise{Name: "Stretch Break", Kind: game.CardCategoryUtility, UtilityEffect: game.UtilityDrawBonus},
	)

	for seed := int64(1); seed <= 40; seed++ {
		r := rand.New(rand.NewSource(seed))
		g := NewGenerator(r)
		g.SpecialChance = 0.5
		e := New(r)
		s := NewBattle(g.Generate(exercises), DefaultHandSize)
		limit := 10*s.InitialCount + 10

		steps := 0
		for s.Phase != game.PhaseGameOver {
			require.Less(t, steps, limit, "seed %d did not terminate", seed)
			steps++

			var a Action
			switch s.Phase {
			case game.PhaseDrawing:
				a = Draw{}
			case game.PhasePlaying:
				a = PlayCard{CardID: s.Player.Hand[r.Intn(len(s.Player.Hand))].ID}
			case game.PhaseAITurn:
				a = OpponentTurn{}
			}
			next := mustApply(t, e, s, a)
			checkInvariants(t, s, next, a)
			s = next
		}
		assert.Equal(t, winnerOf(s), s.Winner)
	}
}

func checkInvariants(t *testing.T, prev, next *game.BattleState, a Action) {
	t.Helper()
	require.Equal(t, prev.InitialCount, next.CardCount(), "card conservation")

	seen := map[string]bool{}
	for _, pile := range [][]game.PlayCard{next.DrawPile, next.Player.Hand, next.AI.Hand, next.Discard, next.Played} {
		for _, c := range pile {
			require.False(t, seen[c.ID], "card %s in two places", c.ID)
			seen[c.ID] = true
		}
	}

	if len(next.Played) == len(prev.Played) {
		return
	}
	playedCard := next.Played[len(next.Played)-1]
	actor, opponent := game.SidePlayer, game.SideAI
	if _, ok := a.(PlayCard); !ok {
		actor, opponent = game.SideAI, game.SidePlayer
	}
	if playedCard.Special != game.SpecialSteal {
		require.GreaterOrEqual(t, next.Side(actor).Score, prev.Side(actor).Score)
		require.Equal(t, prev.Side(opponent).Score, next.Side(opponent).Score)
	}
	if playedCard.ComboTag == "" || playedCard.Category == game.CardCategoryUtility {
		require.Equal(t, 0, next.Side(actor).Streak)
	}
}

func ids(cards []game.PlayCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
