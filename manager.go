package peraturan

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// GraphManager is the central orchestrator for graph access.
// It owns the query runner and provides searches, repositories and
// cross-entity operations like creating relationships.
type GraphManager struct {
	runner  DBRunner
	builder *QueryBuilder
	// metaCache stores parsed entityMetadata to avoid costly reflection on every call.
	metaCache sync.Map
}

// NewGraphManager creates a new GraphManager. A nil builder selects NewQueryBuilder().
func NewGraphManager(runner DBRunner, builder *QueryBuilder) *GraphManager {
	if builder == nil {
		builder = NewQueryBuilder()
	}
	return &GraphManager{runner: runner, builder: builder}
}

// Builder returns the query builder used by Search.
func (gm *GraphManager) Builder() *QueryBuilder {
	return gm.builder
}

// RepositoryFor creates a repository for a specific struct type T, sharing
// the manager's runner.
func RepositoryFor[T any](gm *GraphManager) (*Repository[T], error) {
	return NewRepository[T](gm.runner)
}

// CreateRelation creates a directed relationship between two existing entities.
// It uses reflection to find the entities' primary keys and labels to build the query.
// relType is embedded in the query text and must come from trusted code.
func (gm *GraphManager) CreateRelation(ctx context.Context, fromEntity any, toEntity any, relType string, relProps map[string]interface{}) error {
	return gm.createRelation(ctx, gm.runner, fromEntity, toEntity, relType, relProps)
}

func (gm *GraphManager) createRelation(ctx context.Context, runner DBRunner, fromEntity any, toEntity any, relType string, relProps map[string]interface{}) error {
	fromMeta, fromPKVal, err := gm.getEntityMetaAndPK(fromEntity)
	if err != nil {
		return err
	}
	toMeta, toPKVal, err := gm.getEntityMetaAndPK(toEntity)
	if err != nil {
		return err
	}

	qb := gocypher.NewQueryBuilder().
		Match(gocypher.N("a", fromMeta.Label).WithProperties(map[string]interface{}{fromMeta.PKProp: fromPKVal})).
		Match(gocypher.N("b", toMeta.Label).WithProperties(map[string]interface{}{toMeta.PKProp: toPKVal})).
		Create(
			gocypher.N("a", ""), // Reference the 'a' alias without its label
			gocypher.R("r", relType).To().WithProperties(relProps),
			gocypher.N("b", ""),
		)

	query, params, err := qb.Build()
	if err != nil {
		return err
	}

	_, err = runner.Run(ctx, query, params)
	return err
}

// getEntityMetaAndPK retrieves an entity's metadata and primary key value,
// using the cache to avoid repeated reflection.
func (gm *GraphManager) getEntityMetaAndPK(entity any) (*entityMetadata, any, error) {
	val := reflect.ValueOf(entity)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return nil, nil, fmt.Errorf("entity must be a non-nil pointer")
	}

	typ := val.Elem().Type()

	if cached, ok := gm.metaCache.Load(typ); ok {
		meta := cached.(*entityMetadata)
		return meta, val.Elem().FieldByName(meta.PKField).Interface(), nil
	}

	meta, err := parseTagsFromType(typ)
	if err != nil {
		return nil, nil, err
	}
	gm.metaCache.Store(typ, meta)

	return meta, val.Elem().FieldByName(meta.PKField).Interface(), nil
}

// Search builds the statement for the criteria and returns the resulting graph.
func (gm *GraphManager) Search(ctx context.Context, c Criteria) (*models.GraphResult, error) {
	stmt, err := gm.builder.Build(c)
	if err != nil {
		return nil, err
	}
	return gm.FindGraph(ctx, stmt)
}

// FindGraph executes a read statement and maps the result into a generic
// graph composed of nodes and edges.
//
// This method is domain-agnostic; it translates the raw graph elements returned by
// a Cypher query into a serializable format for the browser. Nodes and
// relationships are collected from every column, including lists and paths, and
// de-duplicated by ElementId. Null columns produced by OPTIONAL MATCH are skipped.
//
// A query that matches nothing yields an empty, non-nil GraphResult.
func (gm *GraphManager) FindGraph(ctx context.Context, stmt Statement) (*models.GraphResult, error) {
	eagerResult, err := gm.runner.Read(ctx, stmt.Cypher, stmt.Params)
	if err != nil {
		return nil, err
	}

	c := newGraphCollector()
	for _, record := range eagerResult.Records {
		for _, value := range record.Values {
			c.add(value)
		}
	}
	return c.graph, nil
}

type graphCollector struct {
	graph       *models.GraphResult
	seenNodeIDs map[string]bool
	seenEdgeIDs map[string]bool
}

func newGraphCollector() *graphCollector {
	return &graphCollector{
		graph:       models.NewGraphResult(),
		seenNodeIDs: make(map[string]bool),
		seenEdgeIDs: make(map[string]bool),
	}
}

func (c *graphCollector) add(value any) {
	switch v := value.(type) {
	case neo4j.Node:
		if !c.seenNodeIDs[v.ElementId] {
			c.graph.Nodes = append(c.graph.Nodes, &models.GraphNode{
				ID:         v.ElementId,
				Labels:     v.Labels,
				Properties: v.Props,
			})
			c.seenNodeIDs[v.ElementId] = true
		}

	case neo4j.Relationship:
		if !c.seenEdgeIDs[v.ElementId] {
			c.graph.Edges = append(c.graph.Edges, &models.Edge{
				ID:         v.ElementId,
				Source:     v.StartElementId,
				Target:     v.EndElementId,
				Type:       v.Type,
				Properties: v.Props,
			})
			c.seenEdgeIDs[v.ElementId] = true
		}

	case neo4j.Path:
		for _, n := range v.Nodes {
			c.add(n)
		}
		for _, r := range v.Relationships {
			c.add(r)
		}

	case []any:
		for _, item := range v {
			c.add(item)
		}
	}
}
