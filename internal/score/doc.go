// Package score classifies sites by privacy and security risk and finds
// the best and worst site of a catalog.
//
// The analyzer is pure: every function returns a new value computed from
// its arguments, never mutates its input and never fails. It is safe for
// concurrent use from the batch pipeline.
//
// Scores are expected on the rank scale (0-1000). Callers holding
// percentage values convert them with model.Scale.ToRank first.
package score
