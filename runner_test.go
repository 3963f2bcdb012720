package peraturan

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type call struct {
	query  string
	params map[string]interface{}
	read   bool
}

// fakeRunner records statements and answers them from a fixed result.
// Statements issued inside Write are only added to calls on commit.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	result *neo4j.EagerResult
	err    error

	// failAt makes the n-th statement (1-based) fail with err.
	failAt    int
	attempts  int
	commits   int
	rollbacks int
}

func (f *fakeRunner) Run(_ context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	c := call{query: query, params: params}
	res, err := f.answer()
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return res, err
}

func (f *fakeRunner) Read(_ context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	c := call{query: query, params: params, read: true}
	res, err := f.answer()
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return res, err
}

func (f *fakeRunner) Write(_ context.Context, work func(tx DBRunner) error) error {
	tx := &fakeTx{runner: f}
	if err := work(tx); err != nil {
		f.mu.Lock()
		f.rollbacks++
		f.mu.Unlock()
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, tx.calls...)
	f.commits++
	f.mu.Unlock()
	return nil
}

func (f *fakeRunner) answer() (*neo4j.EagerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.err != nil && (f.failAt == 0 || f.attempts == f.failAt) {
		return nil, f.err
	}
	if f.result == nil {
		return &neo4j.EagerResult{}, nil
	}
	return f.result, nil
}

// fakeTx buffers the statements of one transaction.
type fakeTx struct {
	runner *fakeRunner
	calls  []call
}

func (t *fakeTx) Run(_ context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	t.calls = append(t.calls, call{query: query, params: params})
	return t.runner.answer()
}

func (t *fakeTx) Read(_ context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	t.calls = append(t.calls, call{query: query, params: params, read: true})
	return t.runner.answer()
}

func (t *fakeTx) Write(_ context.Context, work func(tx DBRunner) error) error {
	return work(t)
}

func records(rows ...[]any) *neo4j.EagerResult {
	res := &neo4j.EagerResult{}
	for _, row := range rows {
		res.Records = append(res.Records, &neo4j.Record{Values: row})
	}
	return res
}
