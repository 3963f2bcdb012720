package peraturan

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// ErrNotFound is a sentinel error returned by Find operations when no record
// matching the criteria is found in the database.
var ErrNotFound = errors.New("record not found")

// Repository provides access to the nodes of one entity type T. It relies on
// struct tags to map struct fields to node properties.
type Repository[T any] struct {
	runner DBRunner
	meta   *entityMetadata
}

// NewRepository creates a new generic repository for the type T.
// It parses the struct tags of T to understand its mapping to a Neo4j node.
func NewRepository[T any](runner DBRunner) (*Repository[T], error) {
	meta, err := parseTags[T]()
	if err != nil {
		return nil, err
	}
	return &Repository[T]{
		runner: runner,
		meta:   meta,
	}, nil
}

// Label returns the node label managed by the repository.
func (r *Repository[T]) Label() string {
	return r.meta.Label
}

// Save creates a new node or updates an existing one.
// It uses a MERGE query based on the struct's primary key (`pk` tag).
// All other tagged fields are set on the node.
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	val := reflect.ValueOf(entity).Elem()
	pkValue := val.FieldByName(r.meta.PKField).Interface()
	mergeProps := map[string]interface{}{r.meta.PKProp: pkValue}

	setProps := make(map[string]interface{})
	for fieldName, propName := range r.meta.Mappings {
		if fieldName != r.meta.PKField {
			// The property is prefixed with 'n.' for the SET clause.
			setProps["n."+propName] = val.FieldByName(fieldName).Interface()
		}
	}

	qb := gocypher.NewQueryBuilder().
		Merge(gocypher.N("n", r.meta.Label).WithProperties(mergeProps))
	// Key-only entities (Topik, Bentuk, Tahun) have nothing to SET.
	if len(setProps) > 0 {
		qb = qb.Set(setProps)
	}
	qb = qb.Return("n")

	query, params, err := qb.Build()
	if err != nil {
		return err
	}
	_, err = r.runner.Run(ctx, query, params)
	return err
}

// FindByID retrieves a single entity from the database by its primary key.
//
// Returns:
//
//	A pointer to the found entity, ErrNotFound if no record is found, or another
//	error if the query or mapping fails.
func (r *Repository[T]) FindByID(ctx context.Context, id interface{}) (*T, error) {
	props := map[string]interface{}{r.meta.PKProp: id}
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label).WithProperties(props)).
		Return("n").
		Build()
	if err != nil {
		return nil, err
	}

	eagerResult, err := r.runner.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}

	if len(eagerResult.Records) == 0 {
		return nil, ErrNotFound
	}
	if len(eagerResult.Records) > 1 {
		// A primary key lookup should be unique.
		return nil, fmt.Errorf("expected 1 record but found %d", len(eagerResult.Records))
	}

	nodeValue, ok := eagerResult.Records[0].Get("n")
	if !ok {
		return nil, fmt.Errorf("could not find return value 'n' in query result")
	}

	node, ok := nodeValue.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("return value 'n' is not a node")
	}

	entity := new(T)
	if err := mapNodeToStruct(node, entity, r.meta); err != nil {
		return nil, err
	}

	return entity, nil
}

// Count returns the number of nodes carrying the repository's label.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label)).
		Return("count(n)").
		Build()
	if err != nil {
		return 0, err
	}

	eagerResult, err := r.runner.Read(ctx, query, params)
	if err != nil {
		return 0, err
	}
	if len(eagerResult.Records) == 0 || len(eagerResult.Records[0].Values) == 0 {
		return 0, nil
	}
	count, ok := eagerResult.Records[0].Values[0].(int64)
	if !ok {
		return 0, fmt.Errorf("count returned %T, want int64", eagerResult.Records[0].Values[0])
	}
	return count, nil
}

// Values returns the distinct values of one property across all nodes of the
// repository's label, sorted ascending. field may be the struct field name or
// the database property name. Nodes missing the property are skipped;
// non-string values are formatted with fmt.
func (r *Repository[T]) Values(ctx context.Context, field string) ([]string, error) {
	prop, err := r.meta.property(field)
	if err != nil {
		return nil, err
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label)).
		Return("n." + prop).
		Build()
	if err != nil {
		return nil, err
	}

	eagerResult, err := r.runner.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(eagerResult.Records))
	for _, record := range eagerResult.Records {
		if len(record.Values) == 0 || record.Values[0] == nil {
			continue
		}
		switch v := record.Values[0].(type) {
		case string:
			values = append(values, v)
		default:
			values = append(values, fmt.Sprint(v))
		}
	}

	slices.Sort(values)
	return slices.Compact(values), nil
}

// mapNodeToStruct populates a struct's fields from a neo4j.Node's properties,
// based on the parsed metadata. Integer years stored by older ingestions are
// converted to the field's type when possible.
func mapNodeToStruct(node neo4j.Node, entity any, meta *entityMetadata) error {
	val := reflect.ValueOf(entity).Elem()

	for fieldName, propName := range meta.Mappings {
		field := val.FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}

		propValue, ok := node.Props[propName]
		if !ok || propValue == nil {
			continue
		}

		pv := reflect.ValueOf(propValue)
		switch {
		case pv.Type().AssignableTo(field.Type()):
			field.Set(pv)
		case field.Kind() == reflect.String:
			field.SetString(fmt.Sprint(propValue))
		case pv.Type().ConvertibleTo(field.Type()):
			field.Set(pv.Convert(field.Type()))
		default:
			return fmt.Errorf("cannot map property %s (%T) to field %s", propName, propValue, fieldName)
		}
	}
	return nil
}
