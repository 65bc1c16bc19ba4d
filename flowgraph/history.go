package flowgraph

import (
	"sync"
)

// HistoryLimit bounds the undo stack; the oldest snapshot is dropped on
// overflow.
const HistoryLimit = 50

// Editor owns the current graph of an editing session and its undo/redo
// history. Every mutation applied through it pushes a deep snapshot; undo and
// redo swap the live graph for a deep copy of a history entry.
type Editor struct {
	mu      sync.Mutex
	graph   *Graph
	history []*Graph
	cursor  int
}

func NewEditor(g *Graph) *Editor {
	if g == nil {
		g = New(DefaultLayout())
	}
	return &Editor{
		graph:   g,
		history: []*Graph{g.Clone()},
		cursor:  0,
	}
}

// Apply runs a mutating operation against the live graph. When the operation
// succeeds a snapshot is pushed and any redo entries are discarded; on error
// the history is left untouched.
func (e *Editor) Apply(op func(*Graph) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := op(e.graph); err != nil {
		return err
	}

	// a new mutation after an undo invalidates the redo path
	e.history = e.history[:e.cursor+1]
	e.history = append(e.history, e.graph.Clone())
	if len(e.history) > HistoryLimit+1 {
		e.history = e.history[1:]
	}
	e.cursor = len(e.history) - 1
	return nil
}

func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor == 0 {
		return false
	}
	e.cursor--
	e.graph = e.history[e.cursor].Clone()
	return true
}

func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor >= len(e.history)-1 {
		return false
	}
	e.cursor++
	e.graph = e.history[e.cursor].Clone()
	return true
}

func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor > 0
}

func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor < len(e.history)-1
}

// Snapshot returns a deep copy of the current graph, safe to hand out across
// goroutines.
func (e *Editor) Snapshot() *Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Clone()
}

// Replace swaps in a different graph (e.g. one loaded from disk) and resets
// the history.
func (e *Editor) Replace(g *Graph) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph = g
	e.history = []*Graph{g.Clone()}
	e.cursor = 0
}
