package transform

import (
	"bytes"
	"fmt"
	"strings"
)

// ToDOT converts a transformed scene to Graphviz DOT format, useful for
// debugging layouts and for piping into external tooling. Positions are
// emitted as pos attributes; bundled edges render with a count label and a
// bold pen.
func ToDOT(res *Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph architecture {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range res.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", n.Label),
			fmt.Sprintf("fillcolor=%q", n.Color),
			fmt.Sprintf("pos=\"%.1f,%.1f\"", n.X+n.Width/2, n.Y+n.Height/2),
		}
		if n.Opacity < FullOpacity {
			attrs = append(attrs, "fontcolor=grey", "color=grey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		if e.IsBundle() {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"×%d\", penwidth=2];\n", e.SourceID, e.TargetID, e.Bundle.Count())
			continue
		}
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.SourceID, e.TargetID, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.SourceID, e.TargetID)
	}

	buf.WriteString("}\n")
	return buf.String()
}
