// Package mcp exposes the engine to AI assistants over the Model Context
// Protocol: graph introspection, static analysis, and stateless simulation
// steps where the caller carries the run state between calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lorekeep/loom"
	"github.com/lorekeep/loom/pkg/analyze"
	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

// SimulateResponse is the unified simulation view returned by the simulate
// tools.
type SimulateResponse struct {
	State     *sim.Snapshot `json:"state" jsonschema_description:"The simulation state after the call"`
	Available []story.Edge  `json:"available" jsonschema_description:"Legal transitions out of the current scene"`
	Terminal  bool          `json:"terminal" jsonschema_description:"True when no legal transition remains"`
	Stepped   bool          `json:"stepped" jsonschema_description:"True when the requested transition was taken"`
}

// ClassifyResponse carries a scene's derived category.
type ClassifyResponse struct {
	NodeID   string         `json:"nodeId"`
	Category story.Category `json:"category"`
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	loader    ports.GraphLoader
	analyzer  *analyze.Analyzer
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server over the given graph source.
func NewServer(loader ports.GraphLoader) *Server {
	s := &Server{
		loader:    loader,
		analyzer:  analyze.New(),
		mcpServer: server.NewMCPServer("loom-mcp", loom.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full story graph for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g, err := s.loader.Load(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		data, _ := json.Marshal(g)
		return mcp.NewToolResultText(string(data)), nil
	})

	classifyTool := mcp.NewTool("classify_scene",
		mcp.WithDescription("Classify a scene by graph topology: start, end, standard, free, or branch."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("The scene id to classify")),
		mcp.WithOutputSchema[ClassifyResponse](),
	)
	s.mcpServer.AddTool(classifyTool, mcp.NewStructuredToolHandler(s.handleClassify))

	s.mcpServer.AddTool(mcp.NewTool("detect_conflicts",
		mcp.WithDescription("Run static analysis: unreachable scenes, dead ends, contradictory conditions."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g, err := s.loader.Load(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		data, _ := json.Marshal(s.analyzer.DetectConflicts(g))
		return mcp.NewToolResultText(string(data)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("extract_dependencies",
		mcp.WithDescription("List which variables each scene reads and modifies."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g, err := s.loader.Load(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		data, _ := json.Marshal(analyze.ExtractDependencies(g))
		return mcp.NewToolResultText(string(data)), nil
	})

	resetTool := mcp.NewTool("simulate_reset",
		mcp.WithDescription("Start a fresh simulation at the story's entry scene with default variables."),
		mcp.WithOutputSchema[SimulateResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	stepTool := mcp.NewTool("simulate_step",
		mcp.WithDescription("Take a transition. Pass the state returned by the previous call; an illegal edge leaves the state unchanged."),
		mcp.WithString("state", mcp.Required(), mcp.Description("JSON simulation state from a previous call")),
		mcp.WithString("edge_id", mcp.Required(), mcp.Description("The edge to follow")),
		mcp.WithOutputSchema[SimulateResponse](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ClassifyResponse, error) {
	nodeID, _ := args["node_id"].(string)
	g, err := s.loader.Load(ctx)
	if err != nil {
		return ClassifyResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return ClassifyResponse{NodeID: nodeID, Category: story.Classify(nodeID, g)}, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SimulateResponse, error) {
	g, err := s.loader.Load(ctx)
	if err != nil {
		return SimulateResponse{}, fmt.Errorf("load failed: %w", err)
	}
	return view(sim.New(g), false), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SimulateResponse, error) {
	stateJSON, _ := args["state"].(string)
	edgeID, _ := args["edge_id"].(string)

	var snap sim.Snapshot
	if err := json.Unmarshal([]byte(stateJSON), &snap); err != nil {
		return SimulateResponse{}, fmt.Errorf("invalid state: %w", err)
	}

	g, err := s.loader.Load(ctx)
	if err != nil {
		return SimulateResponse{}, fmt.Errorf("load failed: %w", err)
	}

	run := sim.New(g)
	run.Restore(snap)
	stepped := run.Step(edgeID)
	return view(run, stepped), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("loom://graph", "Current Story Graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		g, err := s.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		data, _ := json.Marshal(g)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "loom://graph",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func view(run *sim.Simulation, stepped bool) SimulateResponse {
	snap := run.Snapshot()
	available := run.Available()
	if available == nil {
		available = []story.Edge{}
	}
	return SimulateResponse{
		State:     &snap,
		Available: available,
		Terminal:  run.Terminal(),
		Stepped:   stepped,
	}
}
