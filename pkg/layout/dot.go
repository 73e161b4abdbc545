package layout

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT describes the zone -> cluster -> corridor hierarchy as a Graphviz
// digraph. MAIN corridors hang off their zone; other corridors hang off the
// clusters they serve. Inactive clusters are drawn dashed.
func ToDOT(r Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, z := range r.Zones {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightyellow];\n",
			zoneNode(z.ID), fmt.Sprintf("zone %d\n%.1f x %.1f m", z.ID, z.Width, z.Height))
	}
	for _, c := range r.Clusters {
		style := ""
		if !c.Active() {
			style = ", style=\"rounded,dashed\""
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", c.ID, fmt.Sprintf("%s\n%d units", c.ID, c.Units), style)
	}
	for _, c := range r.Corridors {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=%s];\n",
			c.ID, fmt.Sprintf("%s\n%s", c.ID, c.Type), corridorColor(c.Type))
	}

	buf.WriteString("\n")
	for _, c := range r.Clusters {
		fmt.Fprintf(&buf, "  %q -> %q;\n", zoneNode(c.Zone), c.ID)
	}
	for _, c := range r.Corridors {
		if len(c.ClusterIDs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", zoneNode(c.Zone), c.ID)
			continue
		}
		for _, id := range c.ClusterIDs {
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, c.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func zoneNode(id int) string { return fmt.Sprintf("zone-%d", id) }

func corridorColor(t string) string {
	switch t {
	case "MAIN":
		return "lightblue"
	case "CROSS":
		return "lightpink"
	}
	return "palegreen"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
