package service

import (
	"errors"
	"fmt"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/session"
)

// BattleService runs battles: it owns the session store, turns decks into
// play decks and feeds actions through the engine. The AI's move is
// applied by the pacer after the player's card resolves.
type BattleService struct {
	decks    *DeckProvider
	store    *session.Store
	engine   *engine.Engine
	gen      *engine.Generator
	pacer    *Pacer
	handSize int
}

func NewBattleService(decks *DeckProvider, store *session.Store, eng *engine.Engine, gen *engine.Generator, pacer *Pacer, handSize int) *BattleService {
	if pacer == nil {
		pacer = NewPacer(0, 0)
	}
	return &BattleService{decks: decks, store: store, engine: eng, gen: gen, pacer: pacer, handSize: handSize}
}

// Store exposes the session store for subscriptions.
func (s *BattleService) Store() *session.Store { return s.store }

func (s *BattleService) newState(deckID uint) (*game.BattleState, error) {
	exercises, err := s.decks.Exercises(deckID)
	if err != nil {
		return nil, err
	}
	cards := s.gen.Generate(exercises)
	return engine.NewBattle(cards, s.handSize), nil
}

// Start creates a battle from a deck. The battle waits for the first Draw.
func (s *BattleService) Start(deckID uint) (session.Battle, error) {
	st, err := s.newState(deckID)
	if err != nil {
		return session.Battle{}, err
	}
	b := s.store.Create(deckID, st)
	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldDeckID:   deckID,
		constants.LogFieldCount:    st.InitialCount,
	})
	return b, nil
}

func (s *BattleService) Get(id string) (session.Battle, error) {
	b, err := s.store.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		return session.Battle{}, ErrBattleNotFound
	}
	return b, err
}

func (s *BattleService) Draw(id string) (session.Battle, error) {
	return s.apply(id, engine.Draw{})
}

func (s *BattleService) Play(id, cardID string) (session.Battle, error) {
	return s.apply(id, engine.PlayCard{CardID: cardID})
}

// OpponentTurn applies the AI's move right away instead of waiting for
// the pacer.
func (s *BattleService) OpponentTurn(id string) (session.Battle, error) {
	s.pacer.Cancel(id)
	return s.apply(id, engine.OpponentTurn{})
}

// Timeout reports an expired countdown. It only has an effect while the AI
// is due to play.
func (s *BattleService) Timeout(id string) (session.Battle, error) {
	return s.apply(id, engine.Timeout{})
}

// Restart deals a fresh play deck from the same deck into the battle.
func (s *BattleService) Restart(id string) (session.Battle, error) {
	s.pacer.Cancel(id)
	b, err := s.store.Update(id, func(cur session.Battle) (*game.BattleState, error) {
		return s.newState(cur.DeckID)
	})
	if err != nil {
		return session.Battle{}, s.mapErr(err)
	}
	logging.Info("battle restarted", logging.Fields{constants.LogFieldBattleID: id, constants.LogFieldDeckID: b.DeckID})
	return b, nil
}

// Delete ends a battle early and closes its streams.
func (s *BattleService) Delete(id string) error {
	s.pacer.Cancel(id)
	if !s.store.Delete(id) {
		return ErrBattleNotFound
	}
	logging.Info("battle deleted", logging.Fields{constants.LogFieldBattleID: id})
	return nil
}

// Close cancels pending AI moves.
func (s *BattleService) Close() {
	s.pacer.Stop()
}

func (s *BattleService) apply(id string, a engine.Action) (session.Battle, error) {
	b, err := s.store.Update(id, func(cur session.Battle) (*game.BattleState, error) {
		return s.engine.Apply(cur.State, a)
	})
	if err != nil {
		return session.Battle{}, s.mapErr(err)
	}
	s.after(b)
	// The pacer may already have moved the AI.
	if latest, err := s.store.Get(id); err == nil {
		return latest, nil
	}
	return b, nil
}

// after logs the outcome and hands the battle to the pacer when the AI is
// due to move.
func (s *BattleService) after(b session.Battle) {
	if b.State.Phase == game.PhaseGameOver {
		logging.Info("battle finished", logging.Fields{
			constants.LogFieldBattleID: b.ID,
			constants.LogFieldWinner:   b.State.Winner,
		})
		return
	}
	s.pacer.Schedule(b.ID, b.State, s.aiMove)
}

func (s *BattleService) aiMove(id string) {
	b, err := s.store.Update(id, func(cur session.Battle) (*game.BattleState, error) {
		return s.engine.Apply(cur.State, engine.Timeout{})
	})
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logging.Error("paced opponent turn failed", err, logging.Fields{constants.LogFieldBattleID: id})
		}
		return
	}
	s.after(b)
}

func (s *BattleService) mapErr(err error) error {
	var invalid *engine.InvalidMoveError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return ErrBattleNotFound
	case errors.As(err, &invalid):
		return fmt.Errorf("%w: %w", ErrInvalidMove, err)
	default:
		return err
	}
}
