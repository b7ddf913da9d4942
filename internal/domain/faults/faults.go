// Package faults defines the error taxonomy shared by the application layer.
//
// ValidationError and PersistenceError surface to the operator and never
// crash a view. FetchError on the public read path degrades to an empty
// snapshot; on the admin path it is always surfaced. AuthError never fails
// open: a session that cannot be retrieved is treated as absent.
package faults

import "fmt"

// ValidationError is a client-side rejection raised before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a store rejection of a write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FetchError wraps a failed store read.
type FetchError struct {
	Table string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Table, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AuthError wraps a session retrieval or sign-out failure.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failure during %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
