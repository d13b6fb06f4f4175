// Package batch evaluates independent items, such as the products of a
// contract, in fixed-size batches with bounded concurrency.
//
// Results are always returned in input order, so callers that reduce them
// (for example summing emissions) get the same floating-point result
// regardless of scheduling.
package batch
