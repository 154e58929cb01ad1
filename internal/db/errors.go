package db

import "errors"

// Domain-level database error sentinels.
var (
	// Dentist errors
	ErrDentistNotFound = errors.New("dentist not found")
	ErrDuplicateSlug   = errors.New("slug already exists")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrAlreadyResolved is returned when a terminal-state transition is
	// attempted on a submission that is no longer pending.
	ErrAlreadyResolved = errors.New("submission already resolved")

	// Lead errors
	ErrLeadNotFound = errors.New("lead not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
