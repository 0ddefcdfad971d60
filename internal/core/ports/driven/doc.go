// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the three external services the
// pipelines call and the vendor store they persist to.
//
// Implementations live in internal/adapters/driven.
package driven
