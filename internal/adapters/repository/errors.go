package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrBatchNotFound     = errors.New("batch not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)
