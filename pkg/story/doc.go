// Package story defines the rule model for branching narratives: scenes
// (nodes), links (edges), world-state variables, conditions, effects, and
// pools, plus the topology-driven scene classifier.
//
// The package is the typed vocabulary shared by the evaluator, analyzer, and
// simulator. It carries no behavior beyond lookups and invariant checks; all
// entities are value objects the engine never mutates in place.
package story
