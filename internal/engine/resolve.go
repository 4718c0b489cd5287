package engine

import (
	"fmt"

	"github.com/ottersport/ottersport/internal/game"
)

// DefaultHandSize is the hand cap each side draws up to.
const DefaultHandSize = 3

// Action is a turn engine input. The set is closed: Draw, PlayCard,
// OpponentTurn and Timeout.
type Action interface {
	actionName() string
}

// Draw fills both hands from the shared pile, player first.
type Draw struct{}

// PlayCard plays a card from the player's hand.
type PlayCard struct {
	CardID string
}

// OpponentTurn lets the AI pick and play a card.
type OpponentTurn struct{}

// Timeout is the idle countdown expiring. It forces the AI to act during
// its turn and is a no-op otherwise.
type Timeout struct{}

func (Draw) actionName() string         { return "draw" }
func (PlayCard) actionName() string     { return "play_card" }
func (OpponentTurn) actionName() string { return "opponent_turn" }
func (Timeout) actionName() string      { return "timeout" }

// Engine resolves actions against battle states. The zero value is not
// usable; build one with New.
type Engine struct {
	Rand   Rand
	Policy Policy
	Scorer WarmupScorer
}

// New returns an engine with the heuristic opponent and local scoring.
func New(r Rand) *Engine {
	return &Engine{Rand: r, Policy: HeuristicPolicy{}, Scorer: LocalScorer{}}
}

// NewBattle deals nothing yet: every card starts in the draw pile and the
// first action must be a Draw.
func NewBattle(cards []game.PlayCard, handSize int) *game.BattleState {
	if handSize <= 0 {
		handSize = DefaultHandSize
	}
	s := &game.BattleState{
		Phase:        game.PhaseDrawing,
		Turn:         game.SidePlayer,
		DrawPile:     append([]game.PlayCard{}, cards...),
		Discard:      []game.PlayCard{},
		Played:       []game.PlayCard{},
		InitialCount: len(cards),
		HandSize:     handSize,
		Log:          []string{"Battle ready. Draw your cards."},
	}
	for _, side := range []*game.SideState{&s.Player, &s.AI} {
		side.Hand = []game.PlayCard{}
		side.OneShot = 1
		side.Warmup = game.NewWarmupScoringState()
		side.RecentPlays = []string{}
	}
	if len(cards) == 0 {
		s.Phase = game.PhaseGameOver
		s.Winner = game.WinnerTie
	}
	return s
}

// Apply returns the state that results from a on s. s is never modified;
// illegal actions return an *InvalidMoveError and a nil state.
func (e *Engine) Apply(s *game.BattleState, a Action) (*game.BattleState, error) {
	if s == nil {
		return nil, invalidMove("unknown", "no battle state")
	}
	if s.Phase == game.PhaseGameOver {
		return nil, invalidMove(a.actionName(), "game is over")
	}
	next := s.Clone()
	pc := newPlayContext(next)

	switch act := a.(type) {
	case Draw:
		if next.Phase != game.PhaseDrawing {
			return nil, invalidMove(a.actionName(), "phase is %s", next.Phase)
		}
		e.draw(pc)
	case PlayCard:
		if next.Phase != game.PhasePlaying {
			return nil, invalidMove(a.actionName(), "phase is %s", next.Phase)
		}
		idx := indexOf(next.Player.Hand, act.CardID)
		if idx < 0 {
			return nil, invalidMove(a.actionName(), "card %q is not in hand", act.CardID)
		}
		e.play(pc, game.SidePlayer, idx)
	case OpponentTurn:
		if next.Phase != game.PhaseAITurn {
			return nil, invalidMove(a.actionName(), "phase is %s", next.Phase)
		}
		e.opponentTurn(pc)
	case Timeout:
		if next.Phase != game.PhaseAITurn {
			return next, nil
		}
		pc.add("Time is up for the Otter AI.")
		e.opponentTurn(pc)
	default:
		return nil, invalidMove("unknown", "unsupported action %T", a)
	}

	if next.Phase != game.PhaseGameOver && exhausted(next) {
		e.gameOver(pc)
	}
	pc.finish()
	return next, nil
}

func (e *Engine) draw(pc *playContext) {
	s := pc.s
	if exhausted(s) {
		e.gameOver(pc)
		return
	}
	p := fillHand(s, &s.Player)
	a := fillHand(s, &s.AI)
	pc.add(fmt.Sprintf("Player drew %d, Otter AI drew %d. %d left in the pile.", p, a, len(s.DrawPile)))

	switch {
	case len(s.Player.Hand) > 0:
		s.Phase = game.PhasePlaying
		s.Turn = game.SidePlayer
	case len(s.AI.Hand) > 0:
		s.Phase = game.PhaseAITurn
		s.Turn = game.SideAI
	default:
		e.gameOver(pc)
	}
}

func (e *Engine) opponentTurn(pc *playContext) {
	s := pc.s
	idx := e.Policy.Choose(s.AI.Hand, s.AI.Score, s.Player.Score, e.Rand)
	if idx < 0 || idx >= len(s.AI.Hand) {
		pc.add("Otter AI has no card to play and passes.")
		s.Phase = game.PhaseDrawing
		s.Turn = game.SidePlayer
		s.TurnCount++
		return
	}
	e.play(pc, game.SideAI, idx)
}

// play resolves the card at idx of side's hand and picks the next phase.
func (e *Engine) play(pc *playContext, side game.Side, idx int) {
	s := pc.s
	actor := s.Side(side)
	card := actor.Hand[idx]
	actor.Hand = removeAt(actor.Hand, idx)

	extraTurn := false
	if card.Category == game.CardCategoryUtility {
		extraTurn = e.applyUtility(pc, side, card)
		actor.Streak = 0
		actor.Warmup = e.scorer().AdvanceWarmup(actor.Warmup, 1)
		s.LastCombo = false
	} else {
		e.scoreCard(pc, side, card)
	}

	actor.RecentPlays = pushRecent(actor.RecentPlays, card.Name)
	s.Played = append(s.Played, card)
	last := card
	actor.LastPlayed = &last
	s.TurnCount++

	if exhausted(s) {
		e.gameOver(pc)
		return
	}
	switch {
	case side == game.SidePlayer && extraTurn && len(actor.Hand) > 0:
		s.Phase = game.PhasePlaying
		s.Turn = game.SidePlayer
	case side == game.SidePlayer:
		s.Phase = game.PhaseAITurn
		s.Turn = game.SideAI
	case extraTurn && len(actor.Hand) > 0:
		s.Phase = game.PhaseAITurn
		s.Turn = game.SideAI
	default:
		s.Phase = game.PhaseDrawing
		s.Turn = game.SidePlayer
	}
}

// scoreCard applies combo, decay, one-shot, streak and special rules.
func (e *Engine) scoreCard(pc *playContext, side game.Side, card game.PlayCard) {
	s := pc.s
	actor := s.Side(side)
	opponent := s.Side(side.Opponent())

	combo := ComboMultiplier(actor.Hand, card)
	s.LastCombo = combo > 1
	if combo > 1 {
		actor.Streak++
	} else {
		actor.Streak = 0
	}

	oneShot := actor.OneShot
	if oneShot <= 0 || card.Special == game.SpecialSteal {
		oneShot = 1
	}
	warm := e.scorer().ScoreWarmup(WarmupInput{
		Name:        card.Name,
		Category:    card.Category,
		Points:      card.Points,
		Combo:       combo,
		OneShot:     oneShot,
		RecentPlays: actor.RecentPlays,
		State:       actor.Warmup,
	})
	actor.Warmup = warm.State

	if card.Special == game.SpecialSteal {
		stolen := minInt(maxSteal, opponent.Score)
		if opponent.Shield {
			opponent.Shield = false
			stolen = 0
			pc.add(fmt.Sprintf("%s's shield blocks the steal.", sideLabel(side.Opponent())))
		}
		opponent.Score -= stolen
		actor.Score += stolen
		pc.add(fmt.Sprintf("%s played %s and stole %d points.", sideLabel(side), card.Name, stolen))
		return
	}

	delta := warm.Points
	actor.OneShot = 1

	msg := fmt.Sprintf("%s played %s for %d points", sideLabel(side), card.Name, delta)
	if combo > 1 {
		msg += fmt.Sprintf(" (combo x%.1f)", combo)
	}
	if actor.Streak >= streakBonusFrom {
		delta += actor.Streak
		msg += fmt.Sprintf(", streak bonus +%d", actor.Streak)
	}

	switch card.Special {
	case game.SpecialDouble:
		actor.OneShot = 2
		msg += ", next card doubled"
	case game.SpecialBlock:
		actor.Shield = true
		msg += ", shield raised"
	case game.SpecialBonus:
		delta += bonusPoints
		msg += fmt.Sprintf(", bonus +%d", bonusPoints)
	}
	actor.Score += delta
	pc.add(msg + ".")
}

func (e *Engine) gameOver(pc *playContext) {
	s := pc.s
	s.Phase = game.PhaseGameOver
	s.Winner = winnerOf(s)
	switch s.Winner {
	case game.WinnerPlayer:
		pc.add(fmt.Sprintf("Game over: you win %d to %d!", s.Player.Score, s.AI.Score))
	case game.WinnerAI:
		pc.add(fmt.Sprintf("Game over: Otter AI wins %d to %d.", s.AI.Score, s.Player.Score))
	default:
		pc.add(fmt.Sprintf("Game over: tie at %d.", s.Player.Score))
	}
}

func (e *Engine) scorer() WarmupScorer {
	if e.Scorer == nil {
		return LocalScorer{}
	}
	return e.Scorer
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
