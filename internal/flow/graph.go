package flow

import (
	"fmt"
	"io"
	"strings"

	"github.com/emicklei/dot"
)

// GraphFormat selects the state diagram output format.
type GraphFormat string

const (
	// GraphDOT outputs Graphviz DOT.
	GraphDOT GraphFormat = "dot"
	// GraphMermaid outputs Mermaid for markdown rendering.
	GraphMermaid GraphFormat = "mermaid"
)

// ParseGraphFormat validates a format name. Empty means DOT.
func ParseGraphFormat(s string) (GraphFormat, error) {
	switch strings.ToLower(s) {
	case "", "dot":
		return GraphDOT, nil
	case "mermaid":
		return GraphMermaid, nil
	}
	return "", fmt.Errorf("unknown graph format %q (valid: dot, mermaid)", s)
}

// WriteGraph renders the transition table as a state diagram.
func WriteGraph(w io.Writer, format GraphFormat) error {
	g := buildGraph()

	var output string
	if format == GraphMermaid {
		output = dot.MermaidGraph(g, dot.MermaidTopToBottom)
	} else {
		output = g.String()
	}
	_, err := io.WriteString(w, output)
	return err
}

func buildGraph() *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")

	g.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("style", "rounded")
		n.Attr("fontname", "Arial")
	})
	g.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	nodes := make(map[State]dot.Node)
	for _, s := range States() {
		n := g.Node(string(s))
		if s == StateAnalyzing {
			n.Attr("style", "rounded,dashed")
		}
		nodes[s] = n
	}

	for _, t := range Transitions() {
		label := string(t.Event)
		if t.Guard != "" {
			label += " [" + t.Guard + "]"
		}
		e := g.Edge(nodes[t.From], nodes[t.To]).Label(label)
		if t.From == t.To {
			e.Attr("color", "gray")
		}
	}
	return g
}
