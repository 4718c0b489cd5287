package mcptools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ottersport/ottersport/internal/game"
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/session"
)

// Tools exposes battle operations as MCP tools.
type Tools struct {
	decks   *service.DeckProvider
	battles *service.BattleService
}

func New(decks *service.DeckProvider, battles *service.BattleService) *Tools {
	return &Tools{decks: decks, battles: battles}
}

// Register adds every tool to s.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(listDecksTool(), t.handleListDecks)
	s.AddTool(startBattleTool(), t.handleStartBattle)
	s.AddTool(drawTool(), t.handleDraw)
	s.AddTool(playCardTool(), t.handlePlayCard)
	s.AddTool(opponentTurnTool(), t.handleOpponentTurn)
	s.AddTool(getBattleTool(), t.handleGetBattle)
	s.AddTool(endBattleTool(), t.handleEndBattle)
}

// --- Tool definitions ---

func battleIDOption() mcp.ToolOption {
	return mcp.WithString("battle_id", mcp.Required(), mcp.Description("Battle id returned by start_battle"))
}

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List the workout decks a battle can be started from."),
	)
}

func startBattleTool() mcp.Tool {
	return mcp.NewTool("start_battle",
		mcp.WithDescription("Start a card battle against the Otter AI from a workout deck. "+
			"The battle begins in the drawing phase; call draw next."),
		mcp.WithNumber("deck_id", mcp.Required(), mcp.Description("Deck id from list_decks")),
	)
}

func drawTool() mcp.Tool {
	return mcp.NewTool("draw",
		mcp.WithDescription("Fill both hands from the draw pile. Only valid in the drawing phase."),
		battleIDOption(),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand. The Otter AI answers immediately."),
		battleIDOption(),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Id of a card in player.hand")),
	)
}

func opponentTurnTool() mcp.Tool {
	return mcp.NewTool("opponent_turn",
		mcp.WithDescription("Make the Otter AI play now. Only valid in the ai-turn phase."),
		battleIDOption(),
	)
}

func getBattleTool() mcp.Tool {
	return mcp.NewTool("get_battle",
		mcp.WithDescription("Get the current battle state without changing it. Read-only."),
		battleIDOption(),
	)
}

func endBattleTool() mcp.Tool {
	return mcp.NewTool("end_battle",
		mcp.WithDescription("End a battle early and discard it. The battle id stops working afterwards."),
		battleIDOption(),
	)
}

// --- Tool handlers ---

func (t *Tools) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decks, err := t.decks.ListDecks()
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to list decks: %v", err), nil
	}
	type deckInfo struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
	out := make([]deckInfo, 0, len(decks))
	for _, d := range decks {
		out = append(out, deckInfo{ID: d.ID, Name: d.Name, Description: d.Description})
	}
	return mcp.NewToolResultText(respondJSON(out)), nil
}

func (t *Tools) handleStartBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckID := request.GetInt("deck_id", 0)
	if deckID < 1 {
		return mcp.NewToolResultError("deck_id must be >= 1"), nil
	}
	b, err := t.battles.Start(uint(deckID))
	return result(b, err)
}

func (t *Tools) handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := battleID(request)
	if errResult != nil {
		return errResult, nil
	}
	return result(t.battles.Draw(id))
}

func (t *Tools) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := battleID(request)
	if errResult != nil {
		return errResult, nil
	}
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}
	return result(t.battles.Play(id, cardID))
}

func (t *Tools) handleOpponentTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := battleID(request)
	if errResult != nil {
		return errResult, nil
	}
	return result(t.battles.OpponentTurn(id))
}

func (t *Tools) handleGetBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := battleID(request)
	if errResult != nil {
		return errResult, nil
	}
	return result(t.battles.Get(id))
}

func (t *Tools) handleEndBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := battleID(request)
	if errResult != nil {
		return errResult, nil
	}
	if err := t.battles.Delete(id); err != nil {
		return result(session.Battle{}, err)
	}
	return mcp.NewToolResultText("Battle ended. Call start_battle to play again."), nil
}

func battleID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := request.GetString("battle_id", "")
	if id == "" {
		return "", mcp.NewToolResultError("battle_id is required")
	}
	return id, nil
}

// result turns a service outcome into a tool result. Domain errors are
// reported to the model as tool errors, not protocol errors.
func result(b session.Battle, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBattleNotFound):
			return mcp.NewToolResultError("No such battle. Use start_battle first."), nil
		case errors.Is(err, service.ErrDeckNotFound):
			return mcp.NewToolResultError("No such deck. Use list_decks to see deck ids."), nil
		case errors.Is(err, service.ErrDeckEmpty):
			return mcp.NewToolResultError("That deck has no exercises."), nil
		default:
			return mcp.NewToolResultErrorf("%v", err), nil
		}
	}
	return mcp.NewToolResultText(respondJSON(view(b))), nil
}

// --- Response shaping ---

type sideView struct {
	Score      int             `json:"score"`
	Hand       []game.PlayCard `json:"hand,omitempty"`
	HandSize   int             `json:"hand_size"`
	LastPlayed *game.PlayCard  `json:"last_played,omitempty"`
	Streak     int             `json:"streak"`
	Shield     bool            `json:"shield,omitempty"`
	OneShot    float64         `json:"one_shot"`
}

type battleView struct {
	BattleID  string     `json:"battle_id"`
	Phase     game.Phase `json:"phase"`
	Turn      game.Side  `json:"turn"`
	Player    sideView   `json:"player"`
	AI        sideView   `json:"ai"`
	DrawPile  int        `json:"draw_pile"`
	Played    int        `json:"played"`
	Winner    string     `json:"winner,omitempty"`
	Log       []string   `json:"log"`
	NextSteps string     `json:"next_steps"`
}

// view hides the AI's hand and the pile order.
func view(b session.Battle) battleView {
	s := b.State
	v := battleView{
		BattleID: b.ID,
		Phase:    s.Phase,
		Turn:     s.Turn,
		Player: sideView{
			Score: s.Player.Score, Hand: s.Player.Hand, HandSize: len(s.Player.Hand),
			LastPlayed: s.Player.LastPlayed, Streak: s.Player.Streak, Shield: s.Player.Shield, OneShot: s.Player.OneShot,
		},
		AI: sideView{
			Score: s.AI.Score, HandSize: len(s.AI.Hand),
			LastPlayed: s.AI.LastPlayed, Streak: s.AI.Streak, Shield: s.AI.Shield, OneShot: s.AI.OneShot,
		},
		DrawPile: len(s.DrawPile),
		Played:   len(s.Played),
		Winner:   string(s.Winner),
		Log:      s.Log,
	}
	switch s.Phase {
	case game.PhaseDrawing:
		v.NextSteps = "Call draw."
	case game.PhasePlaying:
		v.NextSteps = "Call play_card with the id of a card in player.hand."
	case game.PhaseAITurn:
		v.NextSteps = "Call opponent_turn."
	case game.PhaseGameOver:
		v.NextSteps = "The battle is over. Call start_battle to play again."
	}
	return v
}

func respondJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error":"failed to encode response"}`
	}
	return string(b)
}
