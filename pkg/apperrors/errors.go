package apperrors

import "errors"

var (
	// ErrNoTables means no table could be read at all; the run cannot proceed.
	ErrNoTables = errors.New("no tables available for analysis")
	// ErrDuplicateRelationshipKey indicates a reconciliation invariant
	// violation. This is a logic defect, not bad input, and aborts the run.
	ErrDuplicateRelationshipKey = errors.New("duplicate relationship key after reconciliation")
	// ErrInsufficientSample marks a candidate with too few observations to score.
	ErrInsufficientSample = errors.New("insufficient sample size")
	// ErrTableNotFound means a requested table id is unknown to the store.
	ErrTableNotFound = errors.New("table not found")
)
