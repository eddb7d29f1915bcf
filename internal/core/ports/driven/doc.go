// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - SourceStore: ingestion queue persistence and dedup lookups
//   - ItemStore: extracted item persistence
//   - ProjectStore: project reads and poll watermark updates
//   - ParticipantStore: project roster reads
//   - CompletionService: LLM text completion for extraction and summaries
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - EmbeddingService: vector enrichment; items persist with nil vectors without it
//   - Mailbox / CloudFolder: acquisition channels; their pollers are simply not scheduled
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
