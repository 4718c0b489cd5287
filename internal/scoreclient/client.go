package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ottersport/ottersport/internal/constants"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/game"
)

// DefaultTimeout bounds a single scoring call.
const DefaultTimeout = 2 * time.Second

// Client calls a remote warmup scoring service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// UpdateStateRequest is the body of the update-state endpoint.
type UpdateStateRequest struct {
	State game.WarmupScoringState `json:"state"`
	Combo float64                 `json:"combo_multiplier"`
}

// Score posts in to the score endpoint.
func (c *Client) Score(ctx context.Context, in engine.WarmupInput) (engine.WarmupResult, error) {
	var out engine.WarmupResult
	err := c.post(ctx, constants.ScoringScorePath, in, &out)
	return out, err
}

// UpdateState asks the service to advance a warmup state by one play.
func (c *Client) UpdateState(ctx context.Context, state game.WarmupScoringState, combo float64) (game.WarmupScoringState, error) {
	var out game.WarmupScoringState
	err := c.post(ctx, constants.ScoringUpdateStatePath, UpdateStateRequest{State: state, Combo: combo}, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("scoring service %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode scoring response: %w", err)
	}
	return nil
}
