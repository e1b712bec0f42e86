package review

import "errors"

var (
	// Structural validation errors.
	ErrDateOrder         = errors.New("end date before start date")
	ErrPhaseOutsideCycle = errors.New("phase window falls outside the cycle window")
	ErrCycleOverlap      = errors.New("cycle overlaps an existing cycle for the organisation")

	// Lifecycle errors.
	ErrCycleNotActive   = errors.New("no active review cycle")
	ErrWindowNotStarted = errors.New("review window has not started")
	ErrDeadlinePassed   = errors.New("review deadline has passed")
	ErrAlreadyPublished = errors.New("review already published")

	// Conflict errors, translated from storage uniqueness violations.
	ErrDuplicateManagerMapping = errors.New("review already exists for reviewer, reviewee and type")
)
