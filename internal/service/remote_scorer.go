package service

import (
	"context"
	"errors"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/scoreclient"
)

var errBadRemoteResult = errors.New("remote result failed validation")

// RemoteScorer computes warmup scoring through the remote service and falls
// back to the local calculation on any failure.
type RemoteScorer struct {
	Client   *scoreclient.Client
	Fallback engine.WarmupScorer
}

func NewRemoteScorer(c *scoreclient.Client) *RemoteScorer {
	return &RemoteScorer{Client: c, Fallback: engine.LocalScorer{}}
}

// ScoreWarmup implements engine.WarmupScorer.
func (r *RemoteScorer) ScoreWarmup(in engine.WarmupInput) engine.WarmupResult {
	res, err := r.Client.Score(context.Background(), in)
	if err == nil && (res.Points < 0 || res.State.CardsPlayed != in.State.CardsPlayed+1 || res.State.Phase.Rank() < in.State.Phase.Rank()) {
		err = errBadRemoteResult
	}
	if err != nil {
		logging.Warn("remote warmup scoring failed; using local", err, logging.Fields{
			constants.LogFieldURL:  r.Client.BaseURL,
			constants.LogFieldName: in.Name,
		})
		return r.fallback().ScoreWarmup(in)
	}
	return res
}

// AdvanceWarmup implements engine.WarmupScorer through the update-state
// endpoint.
func (r *RemoteScorer) AdvanceWarmup(state game.WarmupScoringState, combo float64) game.WarmupScoringState {
	next, err := r.Client.UpdateState(context.Background(), state, combo)
	if err == nil && (next.CardsPlayed != state.CardsPlayed+1 || next.Phase.Rank() < state.Phase.Rank()) {
		err = errBadRemoteResult
	}
	if err != nil {
		logging.Warn("remote warmup update failed; using local", err, logging.Fields{
			constants.LogFieldURL: r.Client.BaseURL,
		})
		return r.fallback().AdvanceWarmup(state, combo)
	}
	return next
}

func (r *RemoteScorer) fallback() engine.WarmupScorer {
	if r.Fallback == nil {
		return engine.LocalScorer{}
	}
	return r.Fallback
}
