// Package services implements the driving port interfaces.
// Services own pipeline sequencing and failure aggregation; all
// rate limiting and concurrency lives in the dispatch layer they
// submit work through.
package services
