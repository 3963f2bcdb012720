package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/render"
)

var (
	brand   = color.New(color.FgHiGreen, color.Bold)
	subtle  = color.New(color.FgHiBlack)
	warn    = color.New(color.FgYellow)
	palette = map[string]*color.Color{
		render.ColorBerlaku:      color.New(color.FgGreen),
		render.ColorTidakBerlaku: color.New(color.FgRed),
		render.ColorBentuk:       color.New(color.FgMagenta),
		render.ColorTahun:        color.New(color.FgBlue),
		render.ColorDefault:      color.New(color.FgHiYellow),
	}
)

// TerminalCanvas prints renderer output as text.
type TerminalCanvas struct {
	out  io.Writer
	last *render.View
}

// NewTerminalCanvas writes to out.
func NewTerminalCanvas(out io.Writer) *TerminalCanvas {
	return &TerminalCanvas{out: out}
}

func (c *TerminalCanvas) Draw(view *render.View) error {
	c.last = view
	nodes, edges := view.Counts()
	brand.Fprintf(c.out, "%d nodes, %d edges\n", nodes, edges)
	for _, n := range view.Nodes {
		col, ok := palette[n.Color]
		if !ok {
			col = palette[render.ColorDefault]
		}
		fmt.Fprintf(c.out, "  %s %s %s\n", col.Sprint("●"), n.Label, subtle.Sprintf("[%s %s]", n.Group, n.ID))
	}
	for _, e := range view.Edges {
		fmt.Fprintf(c.out, "  %s -%s-> %s\n", e.From, e.Label, e.To)
	}
	return nil
}

func (c *TerminalCanvas) UpdateLabel(nodeID, label string) error {
	fmt.Fprintf(c.out, "%s %s\n", subtle.Sprint(nodeID), label)
	return nil
}

// Stabilize prints each node with its neighbours, sorted, which is the
// closest a terminal gets to a settled layout.
func (c *TerminalCanvas) Stabilize() error {
	if c.last == nil {
		return nil
	}
	labels := make(map[string]string, len(c.last.Nodes))
	for _, n := range c.last.Nodes {
		labels[n.ID] = n.Label
	}
	adj := make(map[string][]string)
	for _, e := range c.last.Edges {
		adj[e.From] = append(adj[e.From], e.Label+" "+labels[e.To])
	}
	ids := make([]string, 0, len(adj))
	for id := range adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sort.Strings(adj[id])
		fmt.Fprintf(c.out, "%s\n    %s\n", labels[id], strings.Join(adj[id], "\n    "))
	}
	return nil
}

func (c *TerminalCanvas) Alert(message string) error {
	warn.Fprintln(c.out, message)
	return nil
}

// Notef prints an informational line.
func (c *TerminalCanvas) Notef(format string, args ...any) {
	subtle.Fprintf(c.out, format+"\n", args...)
}
