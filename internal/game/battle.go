package game

// Exercise categories with a dedicated point base. Anything else scores
// with the default base.
const (
	CategoryCardio      = "cardio"
	CategoryStrength    = "strength"
	CategoryFlexibility = "flexibility"
	CategoryBalance     = "balance"
	CategoryEndurance   = "endurance"
	CategoryMixed       = "mixed"
	CategoryWarmup      = "warmup"
)

// CardType is the display type tag derived from the exercise category.
type CardType string

const (
	CardTypeCardio      CardType = "cardio"
	CardTypeStrength    CardType = "strength"
	CardTypeFlexibility CardType = "flexibility"
	CardTypeMixed       CardType = "mixed"
	CardTypeWarmup      CardType = "warmup"
	CardTypeUtility     CardType = "utility"
)

// CardCategory controls how many copies a card gets and how it resolves.
type CardCategory string

const (
	CardCategoryExercise CardCategory = "exercise"
	CardCategoryWarmup   CardCategory = "warmup"
	CardCategoryUtility  CardCategory = "utility"
	CardCategoryPower    CardCategory = "power"
)

// Special is a one-off ability attached to a minority of cards.
type Special string

const (
	SpecialNone   Special = ""
	SpecialDouble Special = "double"
	SpecialBlock  Special = "block"
	SpecialSteal  Special = "steal"
	SpecialBonus  Special = "bonus"
)

// Specials lists the abilities a card can be dealt, in draw order.
var Specials = []Special{SpecialDouble, SpecialBlock, SpecialSteal, SpecialBonus}

// UtilityEffect names the state mutation a utility card performs.
type UtilityEffect string

const (
	UtilityNone            UtilityEffect = ""
	UtilityRedrawHand      UtilityEffect = "redraw_hand"
	UtilityShuffleDiscards UtilityEffect = "shuffle_discards"
	UtilityDrawBonus       UtilityEffect = "draw_bonus"
	UtilityDoubleNext      UtilityEffect = "double_next"
	UtilitySkipTurn        UtilityEffect = "skip_turn"
)

// Valid reports whether u is a known utility effect.
func (u UtilityEffect) Valid() bool {
	switch u {
	case UtilityRedrawHand, UtilityShuffleDiscards, UtilityDrawBonus, UtilityDoubleNext, UtilitySkipTurn:
		return true
	}
	return false
}

// PlayCard is a drawable unit derived from an exercise (or a synthetic power card).
type PlayCard struct {
	ID            string        `json:"id"`
	ExerciseID    uint          `json:"exercise_id,omitempty"`
	Name          string        `json:"name"`
	Points        int           `json:"points"`
	Difficulty    int           `json:"difficulty"`
	Type          CardType      `json:"type"`
	ComboTag      string        `json:"combo_tag,omitempty"`
	Special       Special       `json:"special,omitempty"`
	Category      CardCategory  `json:"category"`
	UtilityEffect UtilityEffect `json:"utility_effect,omitempty"`
}

// Side identifies who acts.
type Side string

const (
	SidePlayer Side = "player"
	SideAI     Side = "ai"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideAI
	}
	return SidePlayer
}

// Phase is the turn engine state.
type Phase string

const (
	PhaseDrawing  Phase = "drawing"
	PhasePlaying  Phase = "playing"
	PhaseAITurn   Phase = "ai-turn"
	PhaseGameOver Phase = "game-over"
)

// Winner values reported once the game is over.
const (
	WinnerPlayer = "player"
	WinnerAI     = "ai"
	WinnerTie    = "tie"
)

// WarmupPhase classifies how far into the game a side is.
type WarmupPhase string

const (
	WarmupEarly WarmupPhase = "early"
	WarmupMid   WarmupPhase = "mid"
	WarmupLate  WarmupPhase = "late"
)

// Rank orders phases so the classification can only move forward.
func (p WarmupPhase) Rank() int {
	switch p {
	case WarmupMid:
		return 1
	case WarmupLate:
		return 2
	}
	return 0
}

// WarmupScoringState is the per-side scoring sub-state.
type WarmupScoringState struct {
	CardsPlayed int         `json:"cards_played"`
	Phase       WarmupPhase `json:"phase"`
	Multiplier  float64     `json:"multiplier"`
}

// NewWarmupScoringState returns the state of a side that has not played yet.
func NewWarmupScoringState() WarmupScoringState {
	return WarmupScoringState{Phase: WarmupEarly, Multiplier: 1}
}

// SideState is everything the engine tracks for one participant.
type SideState struct {
	Score      int                `json:"score"`
	Hand       []PlayCard         `json:"hand"`
	LastPlayed *PlayCard          `json:"last_played,omitempty"`
	Streak     int                `json:"combo_streak"`
	OneShot    float64            `json:"one_shot_multiplier"`
	Shield     bool               `json:"shield"`
	Warmup     WarmupScoringState `json:"warmup"`
	// RecentPlays holds normalized exercise keys of the last plays,
	// oldest first, capped at the decay window.
	RecentPlays []string `json:"recent_plays"`
}

// BattleState is the single aggregate mutated by the turn engine.
type BattleState struct {
	Phase        Phase      `json:"phase"`
	Turn         Side       `json:"turn"`
	TurnCount    int        `json:"turn_count"`
	Player       SideState  `json:"player"`
	AI           SideState  `json:"ai"`
	DrawPile     []PlayCard `json:"draw_pile"`
	Discard      []PlayCard `json:"discard"`
	Played       []PlayCard `json:"played"`
	InitialCount int        `json:"initial_count"`
	HandSize     int        `json:"hand_size"`
	Winner       string     `json:"winner,omitempty"`
	// LastCombo is true when the most recent resolution scored a combo.
	// The pacer uses it to pick the longer AI delay.
	LastCombo bool     `json:"last_combo"`
	Log       []string `json:"log"`
}

// Side returns a pointer to the state of s.
func (b *BattleState) Side(s Side) *SideState {
	if s == SideAI {
		return &b.AI
	}
	return &b.Player
}

// CardCount returns the number of cards across every pile and hand.
func (b *BattleState) CardCount() int {
	return len(b.DrawPile) + len(b.Player.Hand) + len(b.AI.Hand) + len(b.Discard) + len(b.Played)
}

// Clone returns a deep copy so reducers never mutate their input.
func (b *BattleState) Clone() *BattleState {
	if b == nil {
		return nil
	}
	out := *b
	out.Player = b.Player.clone()
	out.AI = b.AI.clone()
	out.DrawPile = cloneCards(b.DrawPile)
	out.Discard = cloneCards(b.Discard)
	out.Played = cloneCards(b.Played)
	out.Log = append([]string(nil), b.Log...)
	return &out
}

func (s SideState) clone() SideState {
	out := s
	out.Hand = cloneCards(s.Hand)
	out.RecentPlays = append([]string(nil), s.RecentPlays...)
	if s.LastPlayed != nil {
		c := *s.LastPlayed
		out.LastPlayed = &c
	}
	return out
}

func cloneCards(in []PlayCard) []PlayCard {
	if in == nil {
		return []PlayCard{}
	}
	out := make([]PlayCard, len(in))
	copy(out, in)
	return out
}
