package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/saulfrancisco-ruizacevedo/go-peraturan"
	"github.com/saulfrancisco-ruizacevedo/go-peraturan/models"
)

// NoResultsMessage is the notice shown when a render matched nothing.
const NoResultsMessage = "Tidak ada hasil yang ditemukan."

var (
	// ErrNotInitialized is returned by operations that need a graph source before Init succeeded.
	ErrNotInitialized = errors.New("renderer is not initialized")
	// ErrSuperseded is returned by a Render whose result was replaced by a newer Render.
	ErrSuperseded = errors.New("render superseded by a newer query")
)

// Source runs statements against the graph.
type Source interface {
	FindGraph(ctx context.Context, stmt peraturan.Statement) (*models.GraphResult, error)
}

// Connector produces the Source once connection settings are available.
type Connector func(ctx context.Context) (Source, error)

// Canvas draws views. Implementations are called from one goroutine at a time.
type Canvas interface {
	Draw(view *View) error
	UpdateLabel(nodeID, label string) error
	Stabilize() error
	Alert(message string) error
}

// State is the rendering lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateInitialized
	StateQuerying
	StateRendered
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateInitialized:
		return "initialized"
	case StateQuerying:
		return "querying"
	case StateRendered:
		return "rendered"
	case StateEmpty:
		return "empty"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventKind identifies a renderer event.
type EventKind int

const (
	EventRendered EventKind = iota
	EventEmpty
	EventClick
	EventError
)

// Event is delivered to subscribers.
type Event struct {
	Kind  EventKind
	Nodes int
	Edges int
	// NodeID and Restored are set for EventClick.
	NodeID   string
	Restored bool
	// ClearForm asks the owner of the search form to reset it (EventEmpty).
	ClearForm bool
	Err       error
}

// Options configures a Renderer.
type Options struct {
	// DefaultStatement is issued by Init and by Reload before any other render.
	DefaultStatement peraturan.Statement
	// ClearFormOnEmpty is copied into EventEmpty.
	ClearFormOnEmpty bool
	Logger           *slog.Logger
}

// Renderer owns one visualization: its graph source, its label cache and
// its lifecycle. A new Render cancels the one in flight; only the latest
// render reaches the canvas.
type Renderer struct {
	canvas Canvas
	opts   Options
	labels *LabelCache
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	source    Source
	last      peraturan.Statement
	seq       uint64
	cancel    context.CancelFunc
	listeners map[int]func(Event)
	nextID    int

	drawMu sync.Mutex
}

// NewRenderer returns an idle renderer drawing on canvas.
func NewRenderer(canvas Canvas, opts Options) *Renderer {
	if opts.DefaultStatement.Cypher == "" {
		opts.DefaultStatement = peraturan.DefaultStatement(peraturan.DefaultLimit)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		canvas:    canvas,
		opts:      opts,
		labels:    NewLabelCache(),
		logger:    logger,
		listeners: make(map[int]func(Event)),
	}
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Labels returns the renderer's label cache.
func (r *Renderer) Labels() *LabelCache {
	return r.labels
}

// Subscribe registers fn for renderer events and returns the function that
// removes it.
func (r *Renderer) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

func (r *Renderer) emit(ev Event) {
	r.mu.Lock()
	fns := make([]func(Event), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Init connects the renderer and issues the default statement. A connection
// failure returns the renderer to idle and is returned to the caller.
func (r *Renderer) Init(ctx context.Context, connect Connector) (*View, error) {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return nil, fmt.Errorf("init in state %s", r.state)
	}
	r.state = StateLoading
	r.mu.Unlock()

	source, err := connect(ctx)
	if err != nil {
		r.setState(StateIdle)
		r.logger.Error("Failed to initialize visualization", "error", err)
		return nil, fmt.Errorf("connect: %w", err)
	}

	r.mu.Lock()
	r.source = source
	r.state = StateInitialized
	r.last = r.opts.DefaultStatement
	r.mu.Unlock()

	return r.Render(ctx, r.opts.DefaultStatement)
}

func (r *Renderer) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Render runs stmt and draws the result. An empty result alerts the canvas
// once and emits EventEmpty; otherwise EventRendered is emitted.
func (r *Renderer) Render(ctx context.Context, stmt peraturan.Statement) (*View, error) {
	r.mu.Lock()
	if r.source == nil {
		r.mu.Unlock()
		return nil, ErrNotInitialized
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.seq++
	seq := r.seq
	r.cancel = cancel
	r.last = stmt
	r.state = StateQuerying
	source := r.source
	r.mu.Unlock()
	defer cancel()

	graph, err := source.FindGraph(ctx, stmt)

	r.drawMu.Lock()
	defer r.drawMu.Unlock()

	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return nil, ErrSuperseded
	}
	r.cancel = nil
	if err != nil {
		r.state = StateInitialized
		r.mu.Unlock()
		r.logger.Error("Query failed", "error", err)
		r.emit(Event{Kind: EventError, Err: err})
		return nil, err
	}
	view := Decorate(graph, r.labels)
	r.mu.Unlock()
	nodes, edges := view.Counts()
	empty := nodes == 0 && edges == 0

	if err := r.canvas.Draw(view); err != nil {
		err = fmt.Errorf("draw: %w", err)
		r.settle(seq, StateInitialized)
		r.logger.Error("Failed to draw graph", "error", err)
		r.emit(Event{Kind: EventError, Err: err})
		return nil, err
	}
	if empty {
		r.settle(seq, StateEmpty)
		if err := r.canvas.Alert(NoResultsMessage); err != nil {
			r.logger.Warn("Failed to show notice", "error", err)
		}
		r.emit(Event{Kind: EventEmpty, ClearForm: r.opts.ClearFormOnEmpty})
		return view, nil
	}

	r.settle(seq, StateRendered)
	r.logger.Debug("Rendered graph", "nodes", nodes, "edges", edges)
	r.emit(Event{Kind: EventRendered, Nodes: nodes, Edges: edges})
	return view, nil
}

// settle moves to s unless a newer render has started since seq.
func (r *Renderer) settle(seq uint64, s State) {
	r.mu.Lock()
	if seq == r.seq {
		r.state = s
	}
	r.mu.Unlock()
}

// Search builds the statement for c with builder and renders it.
func (r *Renderer) Search(ctx context.Context, builder *peraturan.QueryBuilder, c peraturan.Criteria) (*View, error) {
	stmt, err := builder.Build(c)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, stmt)
}

// Reload renders the last statement again.
func (r *Renderer) Reload(ctx context.Context) (*View, error) {
	r.mu.Lock()
	stmt := r.last
	r.mu.Unlock()
	if stmt.Cypher == "" {
		stmt = r.opts.DefaultStatement
	}
	return r.Render(ctx, stmt)
}

// Stabilize settles the layout of the current drawing.
func (r *Renderer) Stabilize() error {
	r.drawMu.Lock()
	defer r.drawMu.Unlock()
	return r.canvas.Stabilize()
}

// ClickNode restores the full label of a truncated node. It reports whether
// a label update was issued; nodes that were never truncated are left alone.
func (r *Renderer) ClickNode(nodeID string) (bool, error) {
	full, ok := r.labels.Get(nodeID)
	if !ok {
		r.logger.Debug("Full label not found for node", "node", nodeID)
		r.emit(Event{Kind: EventClick, NodeID: nodeID})
		return false, nil
	}

	r.drawMu.Lock()
	err := r.canvas.UpdateLabel(nodeID, full)
	r.drawMu.Unlock()
	if err != nil {
		return false, fmt.Errorf("update label of %s: %w", nodeID, err)
	}

	r.logger.Debug("Updating node label", "node", nodeID, "label", full)
	r.emit(Event{Kind: EventClick, NodeID: nodeID, Restored: true})
	return true, nil
}
