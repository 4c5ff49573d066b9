// Package sim implements the interactive simulation state machine: a
// stateful walker that starts at an entry scene, offers legal transitions,
// and mutates a variable snapshot as it moves.
//
// A Simulation owns its snapshot outright; nothing is shared with concurrent
// callers and nothing external is held, so abandoning one (or calling Reset)
// cancels any in-flight run with no cleanup obligations.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/lorekeep/loom/internal/logging"
	"github.com/lorekeep/loom/pkg/eval"
	"github.com/lorekeep/loom/pkg/story"
)

// defaultEdgeWeight backs edges that declare no weight during pool rolls.
const defaultEdgeWeight = 10.0

// Snapshot is the externally visible simulation state: where the walker is,
// the current variable values, and the human-readable trace of the run.
// An empty CurrentNodeID means the simulation is idle.
type Snapshot struct {
	CurrentNodeID string           `json:"currentNodeId"`
	Variables     []story.Variable `json:"variables"`
	Trace         []string         `json:"trace"`
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		CurrentNodeID: s.CurrentNodeID,
		Variables:     story.CloneVariables(s.Variables),
		Trace:         append([]string(nil), s.Trace...),
	}
}

// Simulation walks a story graph. It is not safe for concurrent use; each
// run owns its own instance.
type Simulation struct {
	graph  *story.Graph
	rng    *rand.Rand
	logger *slog.Logger
	state  Snapshot
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithRand injects the random source used by PoolRoll. Tests pass a seeded
// source for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

// WithLogger attaches a logger for step-level events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) { s.logger = logger }
}

// New creates a Simulation over the given graph, initially reset.
func New(g *story.Graph, opts ...Option) *Simulation {
	s := &Simulation{
		graph:  g,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset re-derives the entry scene (the first scene classified as a start)
// and reinitializes every variable from its default value, not its
// design-time current value. With no start scene the simulation stays idle.
func (s *Simulation) Reset() {
	s.state = Snapshot{
		Variables: s.graph.DefaultVariables(),
		Trace:     []string{},
	}
	for _, n := range s.graph.Nodes {
		if story.Classify(n.ID, s.graph) == story.CategoryStart {
			s.state.CurrentNodeID = n.ID
			s.state.Trace = append(s.state.Trace, fmt.Sprintf("started at %q", displayName(n)))
			break
		}
	}
	s.logger.Debug("simulation reset", "entry", s.state.CurrentNodeID)
}

// Snapshot returns a deep copy of the current state.
func (s *Simulation) Snapshot() Snapshot {
	return s.state.Clone()
}

// Restore replaces the state with a previously captured snapshot, letting a
// session resume a persisted run.
func (s *Simulation) Restore(snap Snapshot) {
	s.state = snap.Clone()
}

// CurrentNodeID returns the scene the walker is at, or "" when idle.
func (s *Simulation) CurrentNodeID() string {
	return s.state.CurrentNodeID
}

// Idle reports whether the simulation has no current scene.
func (s *Simulation) Idle() bool {
	return s.state.CurrentNodeID == ""
}

// Available returns the legal transitions out of the current scene: every
// outgoing edge whose target scene's own preconditions hold against the
// current variable snapshot. The edge's own conditions are not consulted;
// flow is gated by the scene being entered. Edges to missing scenes are
// treated as absent.
func (s *Simulation) Available() []story.Edge {
	if s.Idle() {
		return nil
	}
	var out []story.Edge
	for _, e := range s.graph.Outgoing(s.state.CurrentNodeID) {
		target, ok := s.graph.NodeByID(e.Target)
		if !ok {
			continue
		}
		if eval.Conditions(target.Preconditions, s.state.Variables) {
			out = append(out, e)
		}
	}
	return out
}

// Terminal reports whether the walker sits on a scene with zero legal
// transitions. Terminality is structural; there is no explicit end state.
func (s *Simulation) Terminal() bool {
	return !s.Idle() && len(s.Available()) == 0
}

// Step follows the identified edge if it is a legal transition from the
// current scene. On success the walker moves to the target, applies the
// target scene's own effects (not the edge's) to the snapshot, appends a
// trace entry, and returns true.
//
// Selecting an edge that is unknown, not outgoing from the current scene,
// gated off, or pointing at a missing scene is a silent no-op returning
// false. Tolerating dangling selections keeps the simulator usable while the
// graph is being edited.
func (s *Simulation) Step(edgeID string) bool {
	for _, e := range s.Available() {
		if e.ID != edgeID {
			continue
		}
		target, ok := s.graph.NodeByID(e.Target)
		if !ok {
			return false
		}

		from := s.state.CurrentNodeID
		s.state.CurrentNodeID = target.ID
		s.state.Variables = eval.ApplyEffects(target.Effects, s.state.Variables)
		s.state.Trace = append(s.state.Trace, fmt.Sprintf("entered %q", displayName(target)))

		s.logger.Debug("simulation step", "from", from, "to", target.ID, "edge", e.ID)
		return true
	}
	s.logger.Debug("simulation step ignored", "edge", edgeID, "at", s.state.CurrentNodeID)
	return false
}

// PoolRoll picks one outgoing edge of the given scene by roulette-wheel
// selection: each edge weighs its declared weight (10 when absent), a draw is
// made in [0, total), and edges are scanned in order subtracting weights
// until the draw lands inside one. First match wins on boundary ties.
//
// The roll only selects; it does not advance the walker. Callers routing
// through pool-style content follow up with Step.
func (s *Simulation) PoolRoll(sourceID string) (story.Edge, bool) {
	edges := s.graph.Outgoing(sourceID)
	if len(edges) == 0 {
		return story.Edge{}, false
	}

	total := 0.0
	for _, e := range edges {
		total += edgeWeight(e)
	}
	draw := s.rng.Float64() * total
	for _, e := range edges {
		w := edgeWeight(e)
		if draw < w {
			return e, true
		}
		draw -= w
	}
	// Floating point leftovers land on the last edge.
	return edges[len(edges)-1], true
}

func edgeWeight(e story.Edge) float64 {
	if e.Weight != nil {
		return *e.Weight
	}
	return defaultEdgeWeight
}

func displayName(n story.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
