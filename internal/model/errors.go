package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData matches any *InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidInput matches any *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
)

// InsufficientDataError is returned when a price series is too short to analyze.
type InsufficientDataError struct {
	Symbol string
	Have   int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: have %d bars, need at least %d", e.Symbol, e.Have, e.Need)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// InvalidInputError is returned for a malformed bar. Index is -1 when the
// problem is not tied to a single bar.
type InvalidInputError struct {
	Symbol string
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: invalid input: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("%s: invalid input at bar %d: %s", e.Symbol, e.Index, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// DegradedInputWarning marks an optional input that was absent. It is never
// returned as a failure; the engine logs it and lists it on the Signal.
type DegradedInputWarning struct {
	Symbol string
	Input  string
}

func (w DegradedInputWarning) Error() string {
	return fmt.Sprintf("%s: %s input missing, contributing zero", w.Symbol, w.Input)
}
