package peraturan

import (
	"errors"
	"strings"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
)

const (
	// DefaultLimit caps the number of nodes returned when no filter is set.
	DefaultLimit = 100

	// MinRawQueryLength is the length a free-text query must exceed to be sent verbatim.
	MinRawQueryLength = 3
)

// ErrRawQueryDisabled is returned by BuildStatement for a free-text query when
// the builder does not accept them.
var ErrRawQueryDisabled = errors.New("raw cypher queries are disabled")

// Parameter names bound by the statements below.
const (
	ParamLimit          = "limit"
	ParamNomorPeraturan = "nomorPeraturan"
	ParamTopik          = "topik"
	ParamTahunRelasi    = "tahunRelasi"
	ParamBentuk         = "bentuk"
	ParamStatus         = "status"
)

// Statement is a Cypher query together with the parameters it binds.
// User supplied values only ever appear in Params.
type Statement struct {
	Cypher string
	Params map[string]interface{}
}

// Criteria holds the search form fields. Empty fields are unset.
type Criteria struct {
	RegulationNumber string `json:"nomorPeraturan" form:"nomorPeraturan"`
	Topic            string `json:"topik" form:"topik"`
	Year             string `json:"tahun" form:"tahun"`
	Form             string `json:"bentuk" form:"bentuk"`
	Status           string `json:"status" form:"status"`
	RawQuery         string `json:"cypher" form:"cypher"`
}

func (c Criteria) normalized() Criteria {
	return Criteria{
		RegulationNumber: strings.TrimSpace(c.RegulationNumber),
		Topic:            strings.TrimSpace(c.Topic),
		Year:             strings.TrimSpace(c.Year),
		Form:             strings.TrimSpace(c.Form),
		Status:           strings.TrimSpace(c.Status),
		RawQuery:         strings.TrimSpace(c.RawQuery),
	}
}

// HasFilters reports whether any of the multi-criteria fields is set.
func (c Criteria) HasFilters() bool {
	n := c.normalized()
	return n.Topic != "" || n.Year != "" || n.Form != "" || n.Status != ""
}

// QueryBuilder turns Criteria into Statements.
type QueryBuilder struct {
	// Limit caps the default query. Zero means DefaultLimit.
	Limit int
	// AllowRawQueries enables the free-text override.
	AllowRawQueries bool
}

// NewQueryBuilder returns a builder with the default limit and raw queries enabled.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{Limit: DefaultLimit, AllowRawQueries: true}
}

// BuildStatement builds a statement with the default builder.
func BuildStatement(c Criteria) (Statement, error) {
	return NewQueryBuilder().Build(c)
}

// Build picks the statement for the criteria. A raw query longer than
// MinRawQueryLength wins, then a regulation number lookup, then the
// multi-criteria filter; with nothing set the capped default query is used.
func (b *QueryBuilder) Build(c Criteria) (Statement, error) {
	c = c.normalized()
	switch {
	case len(c.RawQuery) > MinRawQueryLength:
		if !b.AllowRawQueries {
			return Statement{}, ErrRawQueryDisabled
		}
		return Statement{Cypher: c.RawQuery, Params: map[string]interface{}{}}, nil
	case c.RegulationNumber != "":
		return RegulationStatement(c.RegulationNumber), nil
	case c.HasFilters():
		return filterStatement(c), nil
	default:
		limit := b.Limit
		if limit <= 0 {
			limit = DefaultLimit
		}
		return DefaultStatement(limit), nil
	}
}

// DefaultStatement returns at most limit nodes together with the
// relationships between them. The limit applies before collecting.
func DefaultStatement(limit int) Statement {
	return Statement{
		Cypher: `MATCH (n)
WITH n LIMIT $limit
WITH collect(n) AS ns
UNWIND ns AS n
OPTIONAL MATCH (n)-[r]-(m)
WHERE m IN ns
RETURN n, r, m`,
		Params: map[string]interface{}{ParamLimit: limit},
	}
}

// RegulationStatement matches one regulation by its number, its direct
// neighbours, the regulations sharing a topic with it and their neighbours.
// Each hop is collected before the next, so the result is a single row of
// lists instead of the product of the hops.
func RegulationStatement(number string) Statement {
	return Statement{
		Cypher: `MATCH (p:` + models.LabelPeraturan + ` {nomorPeraturan: $` + ParamNomorPeraturan + `})
OPTIONAL MATCH (p)-[r]-(n)
WITH p, collect(DISTINCT r) AS rels, collect(DISTINCT n) AS neighbours
OPTIONAL MATCH (p)-[:` + models.RelMemilikiTopik + `]->(t:` + models.LabelTopik + `)<-[rs:` + models.RelMemilikiTopik + `]-(s:` + models.LabelPeraturan + `)
WHERE s <> p
WITH p, rels, neighbours, collect(DISTINCT rs) AS siblingRels, collect(DISTINCT s) AS siblings
CALL {
  WITH siblings
  UNWIND siblings AS s
  MATCH (s)-[rn]-(sn)
  RETURN collect(DISTINCT rn) AS siblingNeighbourRels, collect(DISTINCT sn) AS siblingNeighbours
}
RETURN p, rels, neighbours, siblingRels, siblings, siblingNeighbourRels, siblingNeighbours`,
		Params: map[string]interface{}{ParamNomorPeraturan: number},
	}
}

// filterStatement adds one predicate per set criterion. The predicates are
// joined with AND in a single WHERE, which is omitted when c has no filters.
func filterStatement(c Criteria) Statement {
	var preds []string
	params := make(map[string]interface{})

	if c.Topic != "" {
		preds = append(preds, `(p)-[:`+models.RelMemilikiTopik+`]->(:`+models.LabelTopik+` {namaTopik: $`+ParamTopik+`})`)
		params[ParamTopik] = c.Topic
	}
	if c.Year != "" {
		// Relationship types cannot be parameters; compare type() instead.
		preds = append(preds, `size([(p)-[y]->(:`+models.LabelTahun+`) WHERE type(y) = $`+ParamTahunRelasi+` | y]) > 0`)
		params[ParamTahunRelasi] = YearRelationship(c.Year)
	}
	if c.Form != "" {
		preds = append(preds, `(p)-[:`+models.RelBerbentuk+`]->(:`+models.LabelBentuk+` {name: $`+ParamBentuk+`})`)
		params[ParamBentuk] = c.Form
	}
	if c.Status != "" {
		preds = append(preds, `$`+ParamStatus+` IN labels(p)`)
		params[ParamStatus] = StatusLabel(c.Status)
	}

	match := "MATCH (p:" + models.LabelPeraturan + ")"
	if len(preds) > 0 {
		match += "\nWHERE " + strings.Join(preds, "\n  AND ")
	}

	cypher := match + `
OPTIONAL MATCH (p)-[r]-(n)
RETURN p AS source, r AS rel, n AS target
UNION
` + match + `
MATCH (p)-[:` + models.RelMemilikiTopik + `]->(t:` + models.LabelTopik + `)<-[r:` + models.RelMemilikiTopik + `]-(s:` + models.LabelPeraturan + `)
WHERE s <> p
RETURN t AS source, r AS rel, s AS target`

	return Statement{Cypher: cypher, Params: params}
}

// YearRelationship returns the relationship type linking a regulation to its
// publication year.
func YearRelationship(year string) string {
	return models.RelDiterbitkanPrefix + strings.TrimSpace(year)
}

// StatusLabel maps a human readable status to the node label used for it.
// Unknown values are returned unchanged, which matches no node.
func StatusLabel(status string) string {
	switch strings.ToLower(strings.Join(strings.Fields(status), "")) {
	case "berlaku":
		return models.LabelBerlaku
	case "tidakberlaku":
		return models.LabelTidakBerlaku
	case "tidakdiketahui":
		return models.LabelTidakDiketahui
	default:
		return status
	}
}
