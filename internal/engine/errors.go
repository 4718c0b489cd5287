package engine

import "fmt"

// InvalidMoveError reports an action that is not legal in the current state.
// The state passed to Apply is left untouched.
type InvalidMoveError struct {
	Action string
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %s: %s", e.Action, e.Reason)
}

func invalidMove(action, format string, args ...interface{}) error {
	return &InvalidMoveError{Action: action, Reason: fmt.Sprintf(format, args...)}
}
