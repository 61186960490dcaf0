// Package render produces a standalone SVG document from a diagram and
// its routed connectors.
package render

import (
	"fmt"
	"strings"

	"erd/core"
	"erd/routing"
)

// Style controls the visual appearance of the rendered SVG.
type Style struct {
	BoxFill       string
	BoxStroke     string
	ConnectorLine string
	LabelColor    string
	FontFamily    string
	FontSize      int
}

// DefaultStyle returns the standard rendering style.
func DefaultStyle() Style {
	return Style{
		BoxFill:       "#f8fafc",
		BoxStroke:     "#334155",
		ConnectorLine: "#64748b",
		LabelColor:    "#475569",
		FontFamily:    "monospace",
		FontSize:      13,
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// SVG renders the diagram boxes and routed connectors as a complete
// SVG document. Connectors are drawn first so that boxes cover the
// connector ends that touch their edges.
func SVG(d core.Diagram, connectors []routing.Connector, style Style) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		d.Width, d.Height, d.Width, d.Height)

	for _, conn := range connectors {
		if conn.SVGPath == "" {
			continue
		}
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			conn.SVGPath, style.ConnectorLine)

		if conn.Label != "" && len(conn.Labels) > 0 {
			anchor := conn.Labels[0]
			fmt.Fprintf(&b, `  <text x="%g" y="%g" text-anchor="middle" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
				anchor.X, anchor.Y-4, style.FontFamily, style.FontSize-2, style.LabelColor, textEscaper.Replace(conn.Label))
		}
	}

	for _, box := range d.Boxes {
		fmt.Fprintf(&b, `  <rect x="%g" y="%g" width="%g" height="%g" fill="%s" stroke="%s" rx="3"/>`+"\n",
			box.X, box.Y, box.Width, box.Height, style.BoxFill, style.BoxStroke)
		center := box.Center()
		fmt.Fprintf(&b, `  <text x="%g" y="%g" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
			center.X, center.Y, style.FontFamily, style.FontSize, style.BoxStroke, textEscaper.Replace(box.Name))
	}

	b.WriteString("</svg>\n")
	return b.String()
}
