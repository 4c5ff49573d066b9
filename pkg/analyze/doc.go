// Package analyze performs static analysis over a story graph: reachability,
// state-dependency extraction, and conflict detection (unreachable scenes,
// dead ends, contradictory conditions).
//
// Analysis is pure: it takes an immutable graph snapshot and returns fresh
// result values with no retained references into caller state. It never
// fails on malformed input; conflicts are data for the caller to triage.
package analyze
