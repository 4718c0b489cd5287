package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"

	"github.com/ottersport/ottersport/internal/config"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/game"
)

// maxSteps bounds a single playout. Every play retires a card, so real
// battles finish far below it.
const maxSteps = 10000

var errStalled = errors.New("battle did not finish")

type simOptions struct {
	Games    int
	Seed     int64
	HandSize int
	Scorer   engine.WarmupScorer
}

type deckResult struct {
	Deck        string
	Games       int
	PlayerWins  int
	AIWins      int
	Ties        int
	PlayerTotal int
	AITotal     int
	Turns       int
}

// simulate plays opts.Games battles per deck. The player side always picks
// its highest-point card; the AI uses the regular heuristic.
func simulate(df *config.DeckFile, opts simOptions) ([]deckResult, error) {
	r := rand.New(rand.NewSource(opts.Seed))
	eng := engine.New(r)
	if opts.Scorer != nil {
		eng.Scorer = opts.Scorer
	}
	gen := engine.NewGenerator(r)

	results := make([]deckResult, 0, len(df.Decks))
	for _, d := range df.Decks {
		exercises := make([]game.Exercise, 0, len(d.Exercises))
		for i, e := range d.Exercises {
			ex := e.Exercise()
			ex.ID = uint(i + 1)
			exercises = append(exercises, ex)
		}
		res := deckResult{Deck: d.Name, Games: opts.Games}
		for g := 0; g < opts.Games; g++ {
			final, err := playout(eng, engine.NewBattle(gen.Generate(exercises), opts.HandSize), r)
			if err != nil {
				return nil, fmt.Errorf("deck %q game %d: %w", d.Name, g+1, err)
			}
			switch final.Winner {
			case game.WinnerPlayer:
				res.PlayerWins++
			case game.WinnerAI:
				res.AIWins++
			default:
				res.Ties++
			}
			res.PlayerTotal += final.Player.Score
			res.AITotal += final.AI.Score
			res.Turns += final.TurnCount
		}
		results = append(results, res)
	}
	return results, nil
}

// playout drives a battle to game over.
func playout(eng *engine.Engine, s *game.BattleState, r engine.Rand) (*game.BattleState, error) {
	player := engine.GreedyPolicy{}
	for step := 0; step < maxSteps; step++ {
		var a engine.Action
		switch s.Phase {
		case game.PhaseGameOver:
			return s, nil
		case game.PhaseDrawing:
			a = engine.Draw{}
		case game.PhasePlaying:
			idx := player.Choose(s.Player.Hand, s.Player.Score, s.AI.Score, r)
			a = engine.PlayCard{CardID: s.Player.Hand[idx].ID}
		case game.PhaseAITurn:
			a = engine.OpponentTurn{}
		}
		next, err := eng.Apply(s, a)
		if err != nil {
			return nil, err
		}
		s = next
	}
	return nil, errStalled
}

func printResults(w io.Writer, results []deckResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DECK\tGAMES\tPLAYER\tAI\tTIES\tAVG PLAYER\tAVG AI\tAVG TURNS")
	for _, r := range results {
		games := r.Games
		if games == 0 {
			games = 1
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f\t%.1f\t%.1f\n",
			r.Deck, r.Games, r.PlayerWins, r.AIWins, r.Ties,
			float64(r.PlayerTotal)/float64(games), float64(r.AITotal)/float64(games), float64(r.Turns)/float64(games))
	}
	return tw.Flush()
}
