// Package domain defines the core business entities for decisiond.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: An acquired external item awaiting or having undergone extraction
//   - ProjectItem: One structured unit (decision, action item, topic, idea,
//     information) extracted from a Source
//   - Project / Participant: The owning project and its roster
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
