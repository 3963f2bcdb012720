package peraturan

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peraturanNode(id, number string) neo4j.Node {
	return neo4j.Node{
		ElementId: id,
		Labels:    []string{models.LabelPeraturan, models.LabelBerlaku},
		Props:     map[string]any{"nomorPeraturan": number},
	}
}

func topikNode(id, name string) neo4j.Node {
	return neo4j.Node{ElementId: id, Labels: []string{models.LabelTopik}, Props: map[string]any{"namaTopik": name}}
}

func hasTopik(id, from, to string) neo4j.Relationship {
	return neo4j.Relationship{ElementId: id, StartElementId: from, EndElementId: to, Type: models.RelMemilikiTopik}
}

func TestFindGraph_DeduplicatesNodesAndEdges(t *testing.T) {
	p1 := peraturanNode("p1", "UU No. 8 Tahun 1999")
	p2 := peraturanNode("p2", "PP No. 58 Tahun 2001")
	t1 := topikNode("t1", "Perlindungan Konsumen")

	runner := &fakeRunner{result: records(
		[]any{p1, hasTopik("r1", "p1", "t1"), t1},
		[]any{p2, hasTopik("r2", "p2", "t1"), t1},
		[]any{p1, hasTopik("r1", "p1", "t1"), t1},
		[]any{p1, nil, nil},
	)}
	gm := NewGraphManager(runner, nil)

	graph, err := gm.FindGraph(context.Background(), Statement{Cypher: "MATCH ...", Params: map[string]interface{}{}})
	require.NoError(t, err)

	nodes, edges := graph.Counts()
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 2, edges)
	assert.Equal(t, "p1", graph.Nodes[0].ID)
	assert.Equal(t, "t1", graph.Nodes[1].ID)
	assert.Equal(t, &models.Edge{ID: "r2", Source: "p2", Target: "t1", Type: models.RelMemilikiTopik}, graph.Edges[1])

	require.Len(t, runner.calls, 1)
	assert.True(t, runner.calls[0].read, "graph queries run in read mode")
}

func TestFindGraph_PathsAndLists(t *testing.T) {
	p1 := peraturanNode("p1", "UU No. 1 Tahun 2020")
	t1 := topikNode("t1", "Cipta Kerja")
	path := neo4j.Path{Nodes: []neo4j.Node{p1, t1}, Relationships: []neo4j.Relationship{hasTopik("r1", "p1", "t1")}}

	runner := &fakeRunner{result: records([]any{path, []any{t1, topikNode("t2", "Investasi")}})}
	graph, err := NewGraphManager(runner, nil).FindGraph(context.Background(), Statement{Cypher: "MATCH p=()-->() RETURN p"})
	require.NoError(t, err)

	nodes, edges := graph.Counts()
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 1, edges)
}

func TestFindGraph_EmptyResultIsNotAnError(t *testing.T) {
	gm := NewGraphManager(&fakeRunner{}, nil)

	graph, err := gm.Search(context.Background(), Criteria{RegulationNumber: "UU No. 0 Tahun 0000"})
	require.NoError(t, err)
	require.NotNil(t, graph)
	assert.True(t, graph.IsEmpty())
	assert.NotNil(t, graph.Nodes)
	assert.NotNil(t, graph.Edges)
}

func TestFindGraph_PropagatesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	gm := NewGraphManager(&fakeRunner{err: boom}, nil)

	_, err := gm.FindGraph(context.Background(), DefaultStatement(DefaultLimit))
	assert.ErrorIs(t, err, boom)
}

func TestSearch_UsesBuilderStatement(t *testing.T) {
	runner := &fakeRunner{}
	gm := NewGraphManager(runner, &QueryBuilder{Limit: 7})

	_, err := gm.Search(context.Background(), Criteria{})
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, 7, runner.calls[0].params[ParamLimit])

	_, err = gm.Search(context.Background(), Criteria{Topic: "Pajak", Status: "Berlaku"})
	require.NoError(t, err)
	require.Len(t, runner.calls, 2)
	assert.Equal(t, "Pajak", runner.calls[1].params[ParamTopik])
	assert.Equal(t, "Berlaku", runner.calls[1].params[ParamStatus])
}

func TestSearch_RawQueryDisabled(t *testing.T) {
	runner := &fakeRunner{}
	gm := NewGraphManager(runner, &QueryBuilder{})

	_, err := gm.Search(context.Background(), Criteria{RawQuery: "MATCH (n) DETACH DELETE n"})
	assert.ErrorIs(t, err, ErrRawQueryDisabled)
	assert.Empty(t, runner.calls)
}

func TestCreateRelation_RequiresPointers(t *testing.T) {
	gm := NewGraphManager(&fakeRunner{}, nil)
	err := gm.CreateRelation(context.Background(), models.Topik{}, &models.Topik{}, models.RelMemilikiTopik, nil)
	assert.Error(t, err)
}

func TestCreateRelation_BindsPrimaryKeys(t *testing.T) {
	runner := &fakeRunner{}
	gm := NewGraphManager(runner, nil)

	p := &models.Peraturan{NomorPeraturan: "UU No. 8 Tahun 1999"}
	topic := &models.Topik{NamaTopik: "Perlindungan Konsumen"}
	require.NoError(t, gm.CreateRelation(context.Background(), p, topic, models.RelMemilikiTopik, nil))

	require.Len(t, runner.calls, 1)
	c := runner.calls[0]
	assert.False(t, c.read)
	assert.Contains(t, c.query, models.RelMemilikiTopik)
	assert.Contains(t, paramValues(c.params), "UU No. 8 Tahun 1999")
	assert.Contains(t, paramValues(c.params), "Perlindungan Konsumen")
}

func paramValues(params map[string]interface{}) []interface{} {
	values := make([]interface{}, 0, len(params))
	for _, v := range params {
		values = append(values, v)
	}
	return values
}

func TestFindGraph_RegulationLookupRow(t *testing.T) {
	p1 := peraturanNode("p1", "UU No. 8 Tahun 1999")
	p2 := peraturanNode("p2", "PP No. 58 Tahun 2001")
	t1 := topikNode("t1", "Perlindungan Konsumen")

	// p, rels, neighbours, siblingRels, siblings, siblingNeighbourRels, siblingNeighbours
	runner := &fakeRunner{result: records([]any{
		p1,
		[]any{hasTopik("r1", "p1", "t1")},
		[]any{t1},
		[]any{hasTopik("r2", "p2", "t1")},
		[]any{p2},
		[]any{hasTopik("r2", "p2", "t1")},
		[]any{t1},
	})}
	gm := NewGraphManager(runner, nil)

	graph, err := gm.FindGraph(context.Background(), RegulationStatement("UU No. 8 Tahun 1999"))
	require.NoError(t, err)

	nodes, edges := graph.Counts()
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 2, edges)
}

func TestFindGraph_RegulationWithoutSiblings(t *testing.T) {
	p1 := peraturanNode("p1", "UU No. 8 Tahun 1999")
	runner := &fakeRunner{result: records([]any{p1, []any{}, []any{}, []any{}, []any{}, []any{}, []any{}})}

	graph, err := NewGraphManager(runner, nil).FindGraph(context.Background(), RegulationStatement("UU No. 8 Tahun 1999"))
	require.NoError(t, err)

	nodes, edges := graph.Counts()
	assert.Equal(t, 1, nodes)
	assert.Zero(t, edges)
}
