package service

import "errors"

var (
	ErrDeckNotFound    = errors.New("deck not found")
	ErrDeckEmpty       = errors.New("deck has no exercises")
	ErrBattleNotFound  = errors.New("battle not found")
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidDeck     = errors.New("invalid deck")
	ErrUnknownExercise = errors.New("unknown exercise")
)
