/*
Package dsl provides a Go DSL for programmatically constructing story graphs.

It allows developers to define branching narratives using a type-safe, fluent
builder pattern instead of relying on external YAML or JSON documents. This is
particularly useful for dynamic graph generation, unit testing, and leveraging
IDE autocompletion.

Example usage:

	b := dsl.New()
	b.Number("trust", 0)

	b.Scene("intro").
		Label("The Village").
		Content("You arrive at dusk.").
		Go("gate")

	b.Scene("gate").
		Require("trust", story.OpGreaterEqual, story.Number(5)).
		Go("keep")

	b.Scene("keep").
		Add("trust", 1)

	// The resulting graph can be wrapped in a loader and passed to loom.New.
	loader := b.Loader()
*/
package dsl
