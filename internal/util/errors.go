package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")

	// ErrNotFound covers any referenced parent row that is absent.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is a unique-constraint violation the upsert path could not
	// absorb. It indicates a logic bug upstream, not a retryable condition.
	ErrConflict = errors.New("conflicting record already exists")

	// ErrConcurrentUpdate is returned when the bounded optimistic retry on a
	// per-user counter is exhausted.
	ErrConcurrentUpdate = errors.New("concurrent update retries exhausted")

	// ErrInvariantViolation means the caller supplied a value outside a
	// stated bound (confidence or quality score outside [0,1], negative
	// click position, negative advance amount).
	ErrInvariantViolation = errors.New("invariant violation")

	ErrGoalExpired       = errors.New("goal is outside its active window")
	ErrAlreadyAnonymized = errors.New("query already anonymized")
	ErrReviewExists      = errors.New("review already generated for this period")
)
