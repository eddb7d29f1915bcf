// Package services contains the core pipeline logic: project matching,
// ingestion and approval, extraction processing, the two pollers and
// the scheduler that drives them. Services depend only on ports, never
// on adapters.
package services
