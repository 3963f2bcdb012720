// Package models contains the graph data transfer objects and the domain
// entities of the regulation graph. The graph structs are serialized as-is to
// the browser, which hands them to the visualization library.
package models

// GraphNode represents a generic node from a Neo4j graph.
// It captures the essential components of any node: its unique internal ID,
// its labels, and its properties.
type GraphNode struct {
	// ID is the unique internal identifier assigned by Neo4j to the node (ElementId).
	ID string `json:"id"`

	// Labels contains all the labels attached to the node (e.g., ["Peraturan", "Berlaku"]).
	Labels []string `json:"labels"`

	// Properties is a map containing the key-value properties of the node.
	Properties map[string]interface{} `json:"properties"`
}

// HasLabel reports whether the node carries the given label.
func (n *GraphNode) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Edge represents a generic relationship between two nodes in a Neo4j graph.
type Edge struct {
	// ID is the unique internal identifier assigned by Neo4j to the relationship (ElementId).
	ID string `json:"id"`

	// Source is the ElementId of the node where the relationship starts.
	Source string `json:"source"`

	// Target is the ElementId of the node where the relationship ends.
	Target string `json:"target"`

	// Type is the relationship's type (e.g., "MEMILIKI_TOPIK", "DITERBITKAN_2020").
	Type string `json:"type"`

	// Properties is a map containing the key-value properties of the relationship.
	Properties map[string]interface{} `json:"properties"`
}

// GraphResult is a top-level container for a graph query result.
// An empty result (no nodes, no edges) is a valid outcome, not an error.
type GraphResult struct {
	// Nodes contains all the unique nodes retrieved by the query.
	Nodes []*GraphNode `json:"nodes"`

	// Edges contains all the unique relationships retrieved by the query.
	Edges []*Edge `json:"edges"`
}

// NewGraphResult returns an empty, non-nil graph that serializes as two empty arrays.
func NewGraphResult() *GraphResult {
	return &GraphResult{
		Nodes: make([]*GraphNode, 0),
		Edges: make([]*Edge, 0),
	}
}

// Counts returns the number of nodes and edges in the result.
func (g *GraphResult) Counts() (nodes, edges int) {
	if g == nil {
		return 0, 0
	}
	return len(g.Nodes), len(g.Edges)
}

// IsEmpty reports whether the result holds neither nodes nor edges.
func (g *GraphResult) IsEmpty() bool {
	nodes, edges := g.Counts()
	return nodes == 0 && edges == 0
}
