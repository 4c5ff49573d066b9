package dsl

import "github.com/lorekeep/loom/pkg/story"

// SceneBuilder provides a fluent API for configuring a scene.
type SceneBuilder struct {
	node    story.Node
	builder *Builder
}

// Label sets the display name of the scene.
func (s *SceneBuilder) Label(label string) *SceneBuilder {
	s.node.Label = label
	return s
}

// Content sets the narrative text shown when the scene is entered.
func (s *SceneBuilder) Content(content string) *SceneBuilder {
	s.node.Content = content
	return s
}

// Location sets the scene's location tag.
func (s *SceneBuilder) Location(location string) *SceneBuilder {
	s.node.Location = location
	return s
}

// Tags appends free-form tags.
func (s *SceneBuilder) Tags(tags ...string) *SceneBuilder {
	s.node.Tags = append(s.node.Tags, tags...)
	return s
}

// Require adds a precondition gating entry into this scene.
func (s *SceneBuilder) Require(variableID string, op story.Operator, value story.Value) *SceneBuilder {
	s.node.Preconditions = append(s.node.Preconditions, story.Condition{
		VariableID: variableID,
		Operator:   op,
		Value:      value,
	})
	return s
}

// Set adds an effect assigning the variable on entry.
func (s *SceneBuilder) Set(variableID string, value story.Value) *SceneBuilder {
	return s.effect(variableID, story.EffectSet, value)
}

// Add adds an effect incrementing the variable on entry.
func (s *SceneBuilder) Add(variableID string, delta float64) *SceneBuilder {
	return s.effect(variableID, story.EffectAdd, story.Number(delta))
}

// Subtract adds an effect decrementing the variable on entry.
func (s *SceneBuilder) Subtract(variableID string, delta float64) *SceneBuilder {
	return s.effect(variableID, story.EffectSubtract, story.Number(delta))
}

// Toggle adds an effect flipping the variable's truthiness on entry.
func (s *SceneBuilder) Toggle(variableID string) *SceneBuilder {
	return s.effect(variableID, story.EffectToggle, story.Value{})
}

func (s *SceneBuilder) effect(variableID string, op story.EffectOp, value story.Value) *SceneBuilder {
	s.node.Effects = append(s.node.Effects, story.Effect{
		VariableID: variableID,
		Operation:  op,
		Value:      value,
	})
	return s
}

// Go adds a flow link to the target scene.
func (s *SceneBuilder) Go(target string) *SceneBuilder {
	s.builder.addEdge(story.Edge{
		Source: s.node.ID,
		Target: target,
		Kind:   story.EdgeFlow,
	})
	return s
}

// Option adds a labeled option link to the target scene and marks this scene
// as offering a choice.
func (s *SceneBuilder) Option(label, target string) *SceneBuilder {
	s.node.HasChoice = true
	s.builder.addEdge(story.Edge{
		Source: s.node.ID,
		Target: target,
		Kind:   story.EdgeOption,
		Label:  label,
	})
	return s
}

// GoWeighted adds a flow link carrying an explicit pool-roll weight.
func (s *SceneBuilder) GoWeighted(target string, weight float64) *SceneBuilder {
	s.builder.addEdge(story.Edge{
		Source: s.node.ID,
		Target: target,
		Kind:   story.EdgeFlow,
		Weight: &weight,
	})
	return s
}

// Branch marks the scene as an explicit branch point, overriding its
// topology-derived category.
func (s *SceneBuilder) Branch() *SceneBuilder {
	s.node.IsBranch = true
	return s
}

// Build returns the underlying story.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (s *SceneBuilder) Build() story.Node {
	return s.node
}
