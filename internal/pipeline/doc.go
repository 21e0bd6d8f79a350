// Package pipeline runs site analyses as a sequence of steps.
//
// The standard pipeline normalizes the user input, looks the site up in the
// catalog (or asks the remote backend), classifies its risk and optionally
// persists the result. Each stage is a Step that receives the current
// *model.Analysis and fills in its part.
//
// BatchProcessor runs many analyses concurrently with errgroup, bounded by
// a concurrency limit, and returns results in input order.
package pipeline
