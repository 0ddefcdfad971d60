// Package dispatch provides the rate-limited batch execution layer:
// a token-bucket Limiter per external service, a bounded worker pool
// with fail-soft batch semantics, and a Dispatcher combining the two.
//
// Each external service class (query generation, embedding, place
// search, place details) owns one Dispatcher instance. Dispatchers are
// fully independent: a stalled or over-quota service never blocks
// another service's pool.
package dispatch
