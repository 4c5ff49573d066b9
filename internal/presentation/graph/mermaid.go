package graph

import (
	"fmt"
	"strings"

	"github.com/lorekeep/loom/pkg/analyze"
	"github.com/lorekeep/loom/pkg/story"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	VisitedNodes  []string
	CurrentNode   string
	ConflictNodes []string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a story
// graph. It applies semantic styling by scene category:
// - Start: ((Circle))
// - End: [[Subroutine]]
// - Branch: {Rhombus}
// - Standard/Free: [Rectangle]
// It also applies overlay styles (Visited/Current/Conflict) if provided.
func GenerateMermaid(g *story.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch story.Classify(node.ID, g) {
		case story.CategoryStart:
			opener, closer = "((", "))"
		case story.CategoryEnd:
			opener, closer = "[[", "]]"
		case story.CategoryBranch:
			opener, closer = "{", "}"
		}

		title := node.Label
		if title == "" {
			title = node.ID
		}
		if len(node.Preconditions) > 0 {
			// Annotate gated scenes with a lock icon.
			title = fmt.Sprintf("%s <br/> 🔒 %d", title, len(node.Preconditions))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(title), closer))
	}

	for _, edge := range g.Edges {
		safeFrom := sanitizeMermaidID(edge.Source)
		safeTo := sanitizeMermaidID(edge.Target)

		// Non-flow edges render dotted to stand apart from the main spine.
		arrow := "-->"
		if edge.Kind != story.EdgeFlow && edge.Kind != "" {
			arrow = "-.->"
		}

		label := edge.Label
		if label == "" && len(edge.Conditions) > 0 {
			label = describeConditions(edge.Conditions)
		}
		if label != "" {
			if arrow == "-->" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(label))
			} else {
				arrow = fmt.Sprintf("-. \"%s\" .->", escapeLabel(label))
			}
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, safeTo))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef conflict fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		for _, id := range overlay.ConflictNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen["c:"+safeID] {
				seen["c:"+safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s conflict;\n", safeID))
			}
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

// ConflictOverlay builds an overlay that highlights every scene named by the
// given conflicts.
func ConflictOverlay(conflicts []analyze.Conflict) *Overlay {
	o := &Overlay{}
	for _, c := range conflicts {
		o.ConflictNodes = append(o.ConflictNodes, c.NodeIDs...)
	}
	return o
}

func describeConditions(conds []story.Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, fmt.Sprintf("%s %s %s", c.VariableID, c.Operator, c.Value.AsString()))
	}
	return strings.Join(parts, " && ")
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
