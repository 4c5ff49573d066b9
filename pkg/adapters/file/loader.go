// Package file loads story graphs from YAML or JSON documents on disk, the
// externally durable shape owned by the authoring frontend.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/lorekeep/loom/internal/logging"
	"github.com/lorekeep/loom/pkg/story"
)

// Loader implements ports.GraphLoader over a graph document. The file is
// re-read on every Load, so edits between calls are picked up without any
// watch machinery.
type Loader struct {
	path   string
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger attaches a logger for load-time diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader for the given graph document path.
func NewLoader(path string, opts ...Option) *Loader {
	l := &Loader{path: path, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the graph document. Structural invariant violations
// are logged, not fatal: an in-progress graph must still load.
func (l *Loader) Load(ctx context.Context) (*story.Graph, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph document: %w", err)
	}

	var g story.Graph
	switch filepath.Ext(l.path) {
	case ".json":
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
		}
	default:
		if err := decodeYAML(data, &g); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
		}
	}

	if err := g.Validate(); err != nil {
		l.logger.Warn("graph document has structural issues", "path", l.path, "err", err)
	}
	return &g, nil
}

// decodeYAML goes through a generic map and mapstructure rather than
// unmarshaling directly, so hand-authored documents with loose key casing
// ("variableId", "variableID") still decode.
func decodeYAML(data []byte, g *story.Graph) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     g,
		TagName:    "json",
		DecodeHook: valueHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// valueHook converts raw scalars into the tagged Value union.
func valueHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(story.Value{}) {
		return data, nil
	}
	switch data.(type) {
	case nil, bool, int, int64, float64, float32, string:
		return story.FromAny(data), nil
	default:
		return nil, fmt.Errorf("value must be a boolean, number, or string, got %T", data)
	}
}
