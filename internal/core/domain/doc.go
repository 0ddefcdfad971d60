// Package domain defines the core business entities for vendorscout.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Vendor: A discovered vendor with place metadata and its embedding
//   - PlaceSummary / PlaceDetail: Results from the place-search service
//   - EmbeddingRecord: An (id, vector) pair read back from the store
//   - EventPlan / RunReport: Outputs of the planner and collector pipelines
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
