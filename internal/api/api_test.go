package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/session"
	"github.com/ottersport/ottersport/internal/storage"
)

type fakeRepo struct {
	decks   map[uint]*game.Deck
	pingErr error
}

func (f *fakeRepo) ListExercises() ([]game.Exercise, error) {
	var out []game.Exercise
	for _, d := range f.decks {
		out = append(out, d.Exercises...)
	}
	return out, nil
}

func (f *fakeRepo) ListDecks() ([]game.Deck, error) {
	out := make([]game.Deck, 0, len(f.decks))
	for _, d := range f.decks {
		out = append(out, game.Deck{Model: d.Model, Name: d.Name})
	}
	return out, nil
}

func (f *fakeRepo) GetDeckByID(id uint) (*game.Deck, error) {
	d, ok := f.decks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) CreateDeck(name, description string, ids []uint) (*game.Deck, error) {
	for _, id := range ids {
		if id > 3 {
			return nil, storage.ErrUnknownExercise
		}
	}
	d := &game.Deck{Name: name, Description: description}
	d.ID = 10
	return d, nil
}

func (f *fakeRepo) Ping() error { return f.pingErr }

func newTestRouter(t *testing.T) (*gin.Engine, *fakeRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	full := &game.Deck{Name: "Full", Exercises: []game.Exercise{
		{Name: "Push Ups", Category: "strength", Reps: 10},
		{Name: "Squats", Category: "strength", Reps: 10},
		{Name: "Burpees", Category: "cardio", Reps: 10},
	}}
	full.ID = 1
	empty := &game.Deck{Name: "Empty"}
	empty.ID = 2
	repo := &fakeRepo{decks: map[uint]*game.Deck{1: full, 2: empty}}

	r := rand.New(rand.NewSource(9))
	store := session.NewStore(time.Hour, 0)
	decks := service.NewDeckProvider(repo)
	battles := service.NewBattleService(decks, store, engine.New(r), engine.NewGenerator(r), service.NewPacer(0, 0), engine.DefaultHandSize)
	t.Cleanup(func() {
		battles.Close()
		store.Close()
	})

	router := gin.New()
	RegisterRoutes(router, NewHandler(decks, battles, repo))
	return router, repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBattle(t *testing.T, w *httptest.ResponseRecorder) session.Battle {
	t.Helper()
	var b session.Battle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestHealthAndVersion(t *testing.T) {
	router, repo := newTestRouter(t)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/version", "").Code)

	repo.pingErr = errors.New("db gone")
	assert.Equal(t, http.StatusServiceUnavailable, do(t, router, http.MethodGet, "/api/health", "").Code)
}

func TestDeckEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/decks/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var deck map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deck))
	assert.EqualValues(t, 1, deck["id"])
	assert.Len(t, deck["exercises"], 3)
	_, camel := deck["CreatedAt"]
	assert.False(t, camel)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/decks/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/decks/abc", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/decks", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/exercises", "").Code)

	assert.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/decks", `{"name":"Legs","exercise_ids":[1,2]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/decks", `{"name":"","exercise_ids":[1]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/decks", `{"name":"Legs","exercise_ids":[7]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/decks", `{`).Code)
}

func TestBattleFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/battles", `{"deck_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	b := decodeBattle(t, w)
	require.NotEmpty(t, b.ID)
	assert.Equal(t, game.PhaseDrawing, b.State.Phase)

	w = do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/play", `{"card_id":"x"}`)
	assert.Equal(t, http.StatusConflict, w.Code, "cannot play before drawing")

	w = do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/draw", "")
	require.Equal(t, http.StatusOK, w.Code)
	b = decodeBattle(t, w)
	require.Equal(t, game.PhasePlaying, b.State.Phase)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/play", `{}`).Code)

	w = do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/play", `{"card_id":"`+b.State.Player.Hand[0].ID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	b = decodeBattle(t, w)
	assert.Len(t, b.State.Played, 2, "the AI answers right away with zero pacing")

	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/opponent-turn", "").Code)

	w = do(t, router, http.MethodGet, "/api/battles/"+b.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/restart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBattle(t, w).State.Played)
}

func TestBattleViewHidesAIHand(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/battles", `{"deck_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBattle(t, w).ID

	w = do(t, router, http.MethodPost, "/api/battles/"+id+"/draw", "")
	require.Equal(t, http.StatusOK, w.Code)
	b := decodeBattle(t, w)
	assert.Len(t, b.State.Player.Hand, engine.DefaultHandSize)
	assert.Empty(t, b.State.AI.Hand)
	assert.Empty(t, b.State.DrawPile)

	var raw struct {
		State struct {
			AIHandCount   int `json:"ai_hand_count"`
			DrawPileCount int `json:"draw_pile_count"`
			InitialCount  int `json:"initial_count"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, engine.DefaultHandSize, raw.State.AIHandCount)
	assert.Equal(t, raw.State.InitialCount-2*engine.DefaultHandSize, raw.State.DrawPileCount)
}

func TestDeleteAndTimeout(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/battles", `{"deck_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	b := decodeBattle(t, w)

	w = do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/timeout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, game.PhaseDrawing, decodeBattle(t, w).State.Phase, "timeout outside the AI turn changes nothing")

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/battles/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/battles/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/battles/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/api/battles/"+b.ID+"/timeout", "").Code)
}

func TestBattleErrors(t *testing.T) {
	router, _ := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/battles", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/api/battles", `{"deck_id":99}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, router, http.MethodPost, "/api/battles", `{"deck_id":2}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/battles/unknown", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/api/battles/unknown/draw", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/battles/unknown/stream", "").Code)
}

func TestScoringEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/card-battle/score",
		`{"name":"Arm Circles","category":"warmup","points":4,"combo_multiplier":1,"recent_plays":["arm_circles"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res engine.WarmupResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 0.6, res.Decay)
	assert.Equal(t, 4, res.Points, "4 x 0.6 x 1.5 rounds to 4")
	assert.Equal(t, 1, res.State.CardsPlayed)

	w = do(t, router, http.MethodPost, "/api/card-battle/update-state", `{"state":{"cards_played":3},"combo_multiplier":1.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	var st game.WarmupScoringState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 4, st.CardsPlayed)
	assert.Equal(t, game.WarmupMid, st.Phase)
	assert.Equal(t, 1.5, st.Multiplier)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/card-battle/score", `{"points":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/card-battle/update-state", `nope`).Code)
}

func TestStreamBattle(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	w := do(t, router, http.MethodPost, "/api/battles", `{"deck_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	b := decodeBattle(t, w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/battles/"+b.ID+"/stream", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	read := func() session.Battle {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var snap session.Battle
		require.NoError(t, json.NewDecoder(bytes.NewReader(data)).Decode(&snap))
		return snap
	}

	first := read()
	assert.Equal(t, game.PhaseDrawing, first.State.Phase)

	resp, err := http.Post(srv.URL+"/api/battles/"+b.ID+"/draw", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	second := read()
	assert.Equal(t, game.PhasePlaying, second.State.Phase)
	assert.Greater(t, second.Version, first.Version)
	assert.Empty(t, second.State.AI.Hand)
	conn.Close(websocket.StatusNormalClosure, "")
}
