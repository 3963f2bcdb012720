package render

import (
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
)

// NodeView is a node as handed to the visualization.
type NodeView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// FullLabel is set when Label was truncated.
	FullLabel  string                 `json:"fullLabel,omitempty"`
	Group      string                 `json:"group"`
	Title      string                 `json:"title"`
	Color      string                 `json:"color"`
	Labels     []string               `json:"labels"`
	Properties map[string]interface{} `json:"properties"`
}

// EdgeView is a relationship as handed to the visualization.
type EdgeView struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// View is one rendered graph.
type View struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// Counts returns the number of nodes and edges in the view.
func (v *View) Counts() (nodes, edges int) {
	return len(v.Nodes), len(v.Edges)
}

// Decorate assigns captions, colors and tooltips to every node of g. Captions
// of truncating styles that exceed LabelThreshold are shortened and their
// full text is stored in cache under the node ID. A nil cache skips recording.
func Decorate(g *models.GraphResult, cache *LabelCache) *View {
	view := &View{
		Nodes: make([]NodeView, 0),
		Edges: make([]EdgeView, 0),
	}
	if g == nil {
		return view
	}

	for _, n := range g.Nodes {
		group := Group(n)
		full := Caption(n)
		nv := NodeView{
			ID:         n.ID,
			Label:      full,
			Group:      group,
			Title:      FormatTooltip(n.Properties),
			Color:      Color(n),
			Labels:     n.Labels,
			Properties: n.Properties,
		}
		if Styles[group].Truncate {
			if short, truncated := TruncateLabel(full); truncated {
				nv.Label = short
				nv.FullLabel = full
				if cache != nil {
					cache.Put(n.ID, full)
				}
			}
		}
		view.Nodes = append(view.Nodes, nv)
	}

	for _, e := range g.Edges {
		view.Edges = append(view.Edges, EdgeView{
			ID:    e.ID,
			From:  e.Source,
			To:    e.Target,
			Label: e.Type,
		})
	}
	return view
}
