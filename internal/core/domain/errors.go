package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates the dedup gate rejected a re-acquisition
	// of an already-known event.
	ErrDuplicate = errors.New("duplicate source")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates an ingestion status change that the
	// lifecycle does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoProjectMatch indicates the matcher could not resolve an
	// owning project. Not an error condition for the caller; the item
	// is dropped with a log entry.
	ErrNoProjectMatch = errors.New("no project match")

	// Authentication errors.

	// ErrAuthRequired indicates a polled provider requires credentials
	// but none are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrTokenRefreshFailed indicates token refresh failed. The current
	// poll cycle aborts; the next scheduled tick retries.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Remote call errors.

	// ErrRateLimited indicates a provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrRetryExhausted indicates the backoff ceiling was reached
	// without a successful call.
	ErrRetryExhausted = errors.New("retry budget exhausted")

	// ErrLLMUnavailable indicates the completion service is not
	// configured. Extraction cannot run without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding model is not
	// reachable. Items persist with a nil vector.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
