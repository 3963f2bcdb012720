// Package peraturan provides read and write access to the regulation
// ("Peraturan") graph stored in Neo4j: parameterized search statements,
// lookups of distinct property values, graph extraction for the browser
// visualization and ingestion of regulation documents.
package peraturan

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DBRunner defines the interface for a generic query executor.
// It abstracts the execution of a Cypher query, allowing for different implementations
// or mocking in tests.
type DBRunner interface {
	// Run executes a given Cypher query with parameters and returns a fully-buffered result.
	Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error)

	// Read executes a query in read access mode. Statements that try to write are
	// rejected by the server.
	Read(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error)

	// Write runs work inside one write transaction. Statements issued through tx
	// are committed together when work returns nil and rolled back otherwise.
	Write(ctx context.Context, work func(tx DBRunner) error) error
}

//---

// ExecutorOptions tunes the connection pool of a Neo4jExecutor.
// Zero values keep the driver defaults.
type ExecutorOptions struct {
	MaxConnectionPoolSize        int
	ConnectionAcquisitionTimeout time.Duration
}

// Neo4jExecutor is a concrete implementation of the DBRunner interface that uses the
// official Neo4j Go driver. It manages the driver instance and the target database name.
//
// Every call acquires its own session from the driver pool and releases it when
// the result is buffered, so a single executor is safe for concurrent requests.
type Neo4jExecutor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jExecutor creates and initializes a new Neo4jExecutor.
// It establishes a connection driver with the provided credentials. The values are
// not validated here; a bad URI is reported by the driver.
//
// Parameters:
//   - uri: The connection URI for the Neo4j instance (e.g., "bolt://localhost:7687").
//   - username: The username for authentication.
//   - password: The password for authentication.
//   - dbName: The name of the database to connect to (e.g., "neo4j").
//   - opts: Connection pool tuning.
//
// Returns:
//
//	A pointer to the newly created Neo4jExecutor or an error if the driver creation fails.
func NewNeo4jExecutor(uri, username, password, dbName string, opts ExecutorOptions) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""), func(config *neo4j.Config) {
		if opts.MaxConnectionPoolSize > 0 {
			config.MaxConnectionPoolSize = opts.MaxConnectionPoolSize
		}
		if opts.ConnectionAcquisitionTimeout > 0 {
			config.ConnectionAcquisitionTimeout = opts.ConnectionAcquisitionTimeout
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Neo4jExecutor{Driver: driver, DBName: dbName}, nil
}

// Verify checks the connectivity to the Neo4j database.
func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

// Close releases the driver and all pooled connections.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

// Run executes a Cypher query using ExecuteQuery, which handles session and
// transaction management automatically. Suitable for both read and write operations.
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	return e.execute(ctx, query, params)
}

// Read executes a Cypher query routed to readers in read access mode.
func (e *Neo4jExecutor) Read(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	return e.execute(ctx, query, params, neo4j.ExecuteQueryWithReadersRouting())
}

func (e *Neo4jExecutor) execute(ctx context.Context, query string, params map[string]interface{}, extra ...neo4j.ExecuteQueryConfigurationOption) (*neo4j.EagerResult, error) {
	configurers := append([]neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithDatabase(e.DBName)}, extra...)
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.Driver,
		query,
		params,
		neo4j.EagerResultTransformer, // Buffers all results in memory before returning.
		configurers...,
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}

	return result, nil
}

// Write opens a write session and runs work in a managed transaction. The
// driver retries work on transient failures, so work must be safe to repeat.
func (e *Neo4jExecutor) Write(ctx context.Context, work func(tx DBRunner) error) error {
	session := e.Driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: e.DBName,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(&txRunner{tx: tx})
	})
	if err != nil {
		return fmt.Errorf("error executing neo4j transaction: %w", err)
	}
	return nil
}

// txRunner runs statements inside an open managed transaction.
type txRunner struct {
	tx neo4j.ManagedTransaction
}

func (t *txRunner) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	result, err := t.tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	keys, err := result.Keys()
	if err != nil {
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return nil, err
	}
	return &neo4j.EagerResult{Keys: keys, Records: records, Summary: summary}, nil
}

func (t *txRunner) Read(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	return t.Run(ctx, query, params)
}

// Write joins the enclosing transaction.
func (t *txRunner) Write(_ context.Context, work func(tx DBRunner) error) error {
	return work(t)
}

// UnavailableRunner is a DBRunner that fails every call with Err.
// It stands in for the executor when the driver could not be created, so
// callers keep running and report the connection problem per request.
type UnavailableRunner struct {
	Err error
}

func (u UnavailableRunner) Run(context.Context, string, map[string]interface{}) (*neo4j.EagerResult, error) {
	return nil, u.Err
}

func (u UnavailableRunner) Read(context.Context, string, map[string]interface{}) (*neo4j.EagerResult, error) {
	return nil, u.Err
}

func (u UnavailableRunner) Write(context.Context, func(tx DBRunner) error) error {
	return u.Err
}
