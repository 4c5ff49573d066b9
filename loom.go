package loom

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/lorekeep/loom/internal/logging"
	"github.com/lorekeep/loom/pkg/adapters/file"
	"github.com/lorekeep/loom/pkg/analyze"
	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

// Version is the library version, reported by the CLI and the MCP server.
const Version = "0.4.0"

// Engine is the high-level entry point for the Loom library.
// It wraps the analysis and simulation packages and provides a simplified
// API for consumers.
type Engine struct {
	loader       ports.GraphLoader
	analyzer     *analyze.Analyzer
	analyzerOpts analyze.Options
	rng          *rand.Rand
	logger       *slog.Logger
	Name         string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom GraphLoader, bypassing the default file loader.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAnalyzerOptions tunes the conflict detector.
func WithAnalyzerOptions(opts analyze.Options) Option {
	return func(e *Engine) {
		e.analyzerOpts = opts
	}
}

// WithRand sets the random source used by pool rolls in simulations created
// through the engine. Useful for reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// New initializes a new Loom Engine.
// By default, it loads the graph from a YAML or JSON document at the given
// path. If the WithLoader option is provided, path can be empty and the file
// adapter is skipped.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)
		eng.loader = file.NewLoader(absPath, file.WithLogger(eng.logger))
	} else if path != "" {
		eng.Name = filepath.Base(path)
	}

	if eng.Name != "" {
		eng.logger = eng.logger.With("story", eng.Name)
	}

	eng.analyzer = analyze.New(
		analyze.WithOptions(eng.analyzerOpts),
		analyze.WithLogger(eng.logger),
	)

	return eng, nil
}

// Graph returns the full story graph for visualization or introspection
// tools.
func (e *Engine) Graph(ctx context.Context) (*story.Graph, error) {
	return e.loader.Load(ctx)
}

// Classify derives the category of a scene from graph topology.
func (e *Engine) Classify(ctx context.Context, nodeID string) (story.Category, error) {
	g, err := e.loader.Load(ctx)
	if err != nil {
		return "", err
	}
	return story.Classify(nodeID, g), nil
}

// Conflicts runs the full static analysis pass over the graph.
func (e *Engine) Conflicts(ctx context.Context) ([]analyze.Conflict, error) {
	g, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return e.analyzer.DetectConflicts(g), nil
}

// Dependencies reports which variables each scene reads and modifies.
func (e *Engine) Dependencies(ctx context.Context) ([]analyze.StateDependency, error) {
	g, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return analyze.ExtractDependencies(g), nil
}

// Reachable reports whether a scene can be reached from the story's entry
// scenes, ignoring conditions.
func (e *Engine) Reachable(ctx context.Context, nodeID string) (bool, error) {
	g, err := e.loader.Load(ctx)
	if err != nil {
		return false, err
	}
	return analyze.Reachable(nodeID, g), nil
}

// NewSimulation creates a fresh simulation positioned at the story's entry
// scene with default variable values.
func (e *Engine) NewSimulation(ctx context.Context) (*sim.Simulation, error) {
	g, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	opts := []sim.Option{sim.WithLogger(e.logger)}
	if e.rng != nil {
		opts = append(opts, sim.WithRand(e.rng))
	}
	return sim.New(g, opts...), nil
}

// Loader returns the underlying GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}
