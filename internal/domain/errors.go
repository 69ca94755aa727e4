package domain

import "errors"

// Sentinel errors for the chatbot domain - match with errors.Is().
//
// Ownership failures are reported as ErrNotFound on purpose: a caller that
// does not own a chatbot must not be able to tell "does not exist" apart
// from "not yours".
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
