package analyze

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/lorekeep/loom/internal/logging"
	"github.com/lorekeep/loom/pkg/story"
)

// Options tune conflict detection. The zero value reproduces the behavior
// editors have historically relied on.
type Options struct {
	// SkipEndings switches the dead-end check to a corrected rule: only
	// scenes that declare choices but have no outgoing edge are flagged,
	// instead of every terminal scene. The historical rule flags exactly the
	// end category, conflating legitimate endings with unfinished branches,
	// so the literal behavior stays the default.
	SkipEndings bool

	// ExhaustiveContradictions generalizes the contradiction check to
	// interval reasoning over all six operators. The historical check covers
	// four specific operator pairs; turning this on finds strictly more
	// conflicts.
	ExhaustiveContradictions bool
}

// Analyzer enumerates structural and logical conflicts over a whole graph.
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithOptions sets the detection options.
func WithOptions(opts Options) Option {
	return func(a *Analyzer) { a.opts = opts }
}

// WithLogger attaches a logger for analysis summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DetectConflicts runs the four independent checks in order: unreachable,
// dead-end, contradictory node preconditions, contradictory edge conditions.
//
// It never fails: a malformed graph (dangling endpoints, duplicate ids)
// degrades to fewer or partial conflicts so detection stays usable on an
// in-progress graph being edited live.
func (a *Analyzer) DetectConflicts(g *story.Graph) []Conflict {
	conflicts := []Conflict{}
	conflicts = append(conflicts, a.unreachable(g)...)
	conflicts = append(conflicts, a.deadEnds(g)...)
	conflicts = append(conflicts, a.nodeContradictions(g)...)
	conflicts = append(conflicts, a.edgeContradictions(g)...)

	a.logger.Debug("conflict detection finished",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"conflicts", len(conflicts),
	)
	return conflicts
}

func (a *Analyzer) unreachable(g *story.Graph) []Conflict {
	visited := reachableSet(g)
	var out []Conflict
	for _, n := range g.Nodes {
		if visited[n.ID] {
			continue
		}
		out = append(out, Conflict{
			ID:         uuid.NewString(),
			Kind:       KindUnreachable,
			Severity:   SeverityWarning,
			NodeIDs:    []string{n.ID},
			Message:    fmt.Sprintf("scene %q cannot be reached from any starting scene", label(n)),
			Suggestion: "connect it to the story flow or remove it",
		})
	}
	return out
}

// deadEnds flags scenes with an incoming edge and no outgoing edge that are
// not pool members. Note this is exactly the end category: legitimate endings
// are flagged too. That is the historical rule and callers depend on it; the
// SkipEndings option narrows it to scenes that declare choices.
func (a *Analyzer) deadEnds(g *story.Graph) []Conflict {
	var out []Conflict
	for _, n := range g.Nodes {
		if g.HasOutgoing(n.ID) || n.IsPoolMember || !g.HasIncoming(n.ID) {
			continue
		}
		if a.opts.SkipEndings && !n.HasChoice {
			continue
		}
		out = append(out, Conflict{
			ID:         uuid.NewString(),
			Kind:       KindDeadEnd,
			Severity:   SeverityWarning,
			NodeIDs:    []string{n.ID},
			Message:    fmt.Sprintf("scene %q has no way forward", label(n)),
			Suggestion: "add an outgoing link, or mark it as an ending on purpose",
		})
	}
	return out
}

func (a *Analyzer) nodeContradictions(g *story.Graph) []Conflict {
	var out []Conflict
	for _, n := range g.Nodes {
		for _, pair := range a.contradictoryPairs(n.Preconditions) {
			out = append(out, Conflict{
				ID:       uuid.NewString(),
				Kind:     KindNodeContradiction,
				Severity: SeverityError,
				NodeIDs:  []string{n.ID},
				Message: fmt.Sprintf("scene %q has contradictory preconditions on variable %q: %s vs %s",
					label(n), pair.a.VariableID, describe(pair.a), describe(pair.b)),
				Suggestion: "no state can satisfy both; remove or relax one of them",
			})
		}
	}
	return out
}

func (a *Analyzer) edgeContradictions(g *story.Graph) []Conflict {
	var out []Conflict
	for _, e := range g.Edges {
		if len(e.Conditions) == 0 {
			continue
		}
		for _, pair := range a.contradictoryPairs(e.Conditions) {
			out = append(out, Conflict{
				ID:       uuid.NewString(),
				Kind:     KindEdgeContradiction,
				Severity: SeverityError,
				NodeIDs:  []string{e.Source, e.Target},
				EdgeIDs:  []string{e.ID},
				Message: fmt.Sprintf("link %q has contradictory conditions on variable %q: %s vs %s",
					e.ID, pair.a.VariableID, describe(pair.a), describe(pair.b)),
				Suggestion: "the link can never fire; remove or relax one condition",
			})
		}
	}
	return out
}

type conditionPair struct {
	a, b story.Condition
}

// contradictoryPairs groups conditions by variable and reports each
// conflicting pair once.
func (a *Analyzer) contradictoryPairs(conds []story.Condition) []conditionPair {
	byVar := make(map[string][]story.Condition)
	var order []string
	for _, c := range conds {
		if _, ok := byVar[c.VariableID]; !ok {
			order = append(order, c.VariableID)
		}
		byVar[c.VariableID] = append(byVar[c.VariableID], c)
	}

	var out []conditionPair
	for _, id := range order {
		group := byVar[id]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if a.contradicts(group[i], group[j]) {
					out = append(out, conditionPair{a: group[i], b: group[j]})
				}
			}
		}
	}
	return out
}

func (a *Analyzer) contradicts(x, y story.Condition) bool {
	if a.opts.ExhaustiveContradictions {
		return emptyIntersection(x, y)
	}

	// Historical check, pattern (a): same literal with == against !=.
	if x.Value.Equal(y.Value) {
		if (x.Operator == story.OpEqual && y.Operator == story.OpNotEqual) ||
			(x.Operator == story.OpNotEqual && y.Operator == story.OpEqual) {
			return true
		}
	}

	// Pattern (b): four specific ordering pairs with an empty intersection.
	// This is deliberately not the full set of mutually exclusive operator
	// combinations.
	xv, yv := x.Value.AsNumber(), y.Value.AsNumber()
	if math.IsNaN(xv) || math.IsNaN(yv) {
		return false
	}
	switch {
	case x.Operator == story.OpGreater && y.Operator == story.OpLess:
		return yv <= xv
	case x.Operator == story.OpLess && y.Operator == story.OpGreater:
		return xv <= yv
	case x.Operator == story.OpGreaterEqual && y.Operator == story.OpLess:
		return yv <= xv
	case x.Operator == story.OpLess && y.Operator == story.OpGreaterEqual:
		return xv <= yv
	}
	return false
}

// emptyIntersection decides contradiction by interval reasoning over all six
// operators. Non-numeric operands fall back to the equality clash only.
func emptyIntersection(x, y story.Condition) bool {
	// Equality against inequality on the same literal.
	if x.Value.Equal(y.Value) {
		if (x.Operator == story.OpEqual && y.Operator == story.OpNotEqual) ||
			(x.Operator == story.OpNotEqual && y.Operator == story.OpEqual) {
			return true
		}
	}

	xv, yv := x.Value.AsNumber(), y.Value.AsNumber()
	numeric := !math.IsNaN(xv) && !math.IsNaN(yv)

	// Two pinned values that differ.
	if x.Operator == story.OpEqual && y.Operator == story.OpEqual {
		return !x.Value.LooseEqual(y.Value)
	}

	if !numeric {
		return false
	}

	// A pinned value against an ordering bound.
	if x.Operator == story.OpEqual && y.Operator.Ordering() {
		return !satisfies(xv, y.Operator, yv)
	}
	if y.Operator == story.OpEqual && x.Operator.Ordering() {
		return !satisfies(yv, x.Operator, xv)
	}

	// Two ordering bounds: empty iff the lower bound exceeds the upper, or
	// they meet at a point excluded by strictness. Same-direction bounds
	// always intersect.
	lo, loInc, hasLo := lowerBound(x.Operator, xv)
	hi, hiInc, hasHi := upperBound(y.Operator, yv)
	if !hasLo || !hasHi {
		lo, loInc, hasLo = lowerBound(y.Operator, yv)
		hi, hiInc, hasHi = upperBound(x.Operator, xv)
	}
	if hasLo && hasHi {
		if lo > hi {
			return true
		}
		if lo == hi && (!loInc || !hiInc) {
			return true
		}
	}
	return false
}

func satisfies(v float64, op story.Operator, bound float64) bool {
	switch op {
	case story.OpGreater:
		return v > bound
	case story.OpLess:
		return v < bound
	case story.OpGreaterEqual:
		return v >= bound
	case story.OpLessEqual:
		return v <= bound
	}
	return true
}

func lowerBound(op story.Operator, v float64) (float64, bool, bool) {
	switch op {
	case story.OpGreater:
		return v, false, true
	case story.OpGreaterEqual:
		return v, true, true
	}
	return 0, false, false
}

func upperBound(op story.Operator, v float64) (float64, bool, bool) {
	switch op {
	case story.OpLess:
		return v, false, true
	case story.OpLessEqual:
		return v, true, true
	}
	return 0, false, false
}

func describe(c story.Condition) string {
	return fmt.Sprintf("%s %s", c.Operator, c.Value.AsString())
}

func label(n story.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
