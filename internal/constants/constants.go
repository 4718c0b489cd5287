package constants

// Centralized constants for headers, env keys, routes and log fields.
const (
	// Environment variable keys
	EnvConfigPath = "OTTERSPORT_CONFIG"
	EnvDBPath     = "OTTERSPORT_DB"
	EnvHealthURL  = "OTTERSPORT_HEALTH_URL"

	DefaultConfigPath = "./ottersport_config.json"
	DefaultDBPath     = "./data/ottersport.db"
	DefaultHealthURL  = "http://localhost:8080/api/health"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Warmup scoring service paths, relative to scoring_url
	ScoringScorePath       = "/api/card-battle/score"
	ScoringUpdateStatePath = "/api/card-battle/update-state"
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteHealth             = "/health"
	RouteVersion            = "/version"
	RouteExercises          = "/exercises"
	RouteDecks              = "/decks"
	RouteDeckByID           = "/decks/:id"
	RouteBattles            = "/battles"
	RouteBattleByID         = "/battles/:battleID"
	RouteBattleDraw         = "/battles/:battleID/draw"
	RouteBattlePlay         = "/battles/:battleID/play"
	RouteBattleOpponentTurn = "/battles/:battleID/opponent-turn"
	RouteBattleRestart      = "/battles/:battleID/restart"
	RouteBattleTimeout      = "/battles/:battleID/timeout"
	RouteBattleStream       = "/battles/:battleID/stream"
	RouteScore              = "/card-battle/score"
	RouteUpdateState        = "/card-battle/update-state"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidDeckID      = "Invalid deck ID"
	ErrDeckNotFound       = "Deck not found"
	ErrDeckEmpty          = "Deck has no exercises"
	ErrFailedFetchDecks   = "Failed to fetch decks"
	ErrFailedFetchDeck    = "Failed to fetch deck"
	ErrFailedCreateDeck   = "Failed to create deck"
	ErrFailedFetchExers   = "Failed to fetch exercises"
	ErrDeckNameRequired   = "Deck name is required"
	ErrDeckNameExceeds    = "Deck name exceeds 64 characters"
	ErrDescriptionExceeds = "Description exceeds 256 characters"
	ErrDeckNeedsExercises = "Deck needs at least one exercise"
	ErrUnknownExerciseFmt = "Unknown exercise: %s"

	ErrBattleNotFound     = "Battle not found"
	ErrCardIDRequired     = "card_id is required"
	ErrFailedStartBattle  = "Failed to start battle"
	ErrFailedUpdateBattle = "Failed to update battle"
	ErrFailedStream       = "Failed to open battle stream"

	ErrDatabaseUnavailable = "Database unavailable"
)

// Field limits
const (
	MaxDeckNameLength        = 64
	MaxDeckDescriptionLength = 256
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldDeckID   = "deck_id"
	LogFieldCardID   = "card_id"
	LogFieldPhase    = "phase"
	LogFieldWinner   = "winner"
	LogFieldSource   = "source"
	LogFieldName     = "name"
	LogFieldKey      = "key"
	LogFieldAddr     = "addr"
	LogFieldPath     = "path"
	LogFieldURL      = "url"
	LogFieldCount    = "count"
)
