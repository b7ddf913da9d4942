package services

import "errors"

// ErrSaveInFlight reports a submit dropped because another save currently
// holds the saving guard. Callers surface it as a conflict rather than a
// success.
var ErrSaveInFlight = errors.New("a save is already in flight")

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errNoSession          = errors.New("no active session")
)
