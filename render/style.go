package render

import (
	"fmt"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
)

// Node colors.
const (
	ColorDefault      = "#FFC07A"
	ColorBorder       = "#E76F51"
	ColorBerlaku      = "#5DBB63"
	ColorTidakBerlaku = "#FF5733"
	ColorBentuk       = "#8B4513"
	ColorTahun        = "#4682B4"
)

// Style describes how nodes of one label are drawn.
type Style struct {
	// Caption is the property shown as the node's text.
	Caption string
	// Truncate shortens long captions and records them in the LabelCache.
	Truncate bool
	// Color returns the node background color.
	Color func(n *models.GraphNode) string
}

// Styles is the per-label styling of the regulation graph.
var Styles = map[string]Style{
	models.LabelPeraturan: {
		Caption: "nomorPeraturan",
		Color: func(n *models.GraphNode) string {
			if n.HasLabel(models.LabelBerlaku) {
				return ColorBerlaku
			}
			return ColorTidakBerlaku
		},
	},
	models.LabelTopik: {
		Caption:  "namaTopik",
		Truncate: true,
	},
	models.LabelBentuk: {
		Caption: "name",
		Color:   func(*models.GraphNode) string { return ColorBentuk },
	},
	models.LabelTahun: {
		Caption: "tahun",
		Color:   func(*models.GraphNode) string { return ColorTahun },
	},
}

// groupOrder decides the primary label of nodes carrying several.
var groupOrder = []string{models.LabelPeraturan, models.LabelTopik, models.LabelBentuk, models.LabelTahun}

// Group returns the label that selects the node's Style.
func Group(n *models.GraphNode) string {
	for _, g := range groupOrder {
		if n.HasLabel(g) {
			return g
		}
	}
	if len(n.Labels) > 0 {
		return n.Labels[0]
	}
	return ""
}

// Caption returns the untruncated text of a node. Unstyled nodes fall back
// to their "name" property, then to their group.
func Caption(n *models.GraphNode) string {
	group := Group(n)
	prop := "name"
	if st, ok := Styles[group]; ok {
		prop = st.Caption
	}
	if v, ok := n.Properties[prop]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return group
}

// Color returns the background color of a node.
func Color(n *models.GraphNode) string {
	if st, ok := Styles[Group(n)]; ok && st.Color != nil {
		return st.Color(n)
	}
	return ColorDefault
}
