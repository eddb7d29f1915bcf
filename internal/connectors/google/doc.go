// Package google provides shared plumbing for the Google API acquisition
// channels: service construction, token-source adaptation, per-service
// rate limiting, error classification, and the quota-aware call wrapper
// that every Gmail and Drive request goes through.
package google
