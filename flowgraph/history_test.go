package flowgraph

import (
	"fmt"
	"testing"
)

func addLabeledKeyframe(t *testing.T, e *Editor, ts int64, label string) {
	t.Helper()
	err := e.Apply(func(g *Graph) error {
		k := NewKeyframe(ts, SourceManual)
		k.Label = label
		return g.AddKeyframe(k)
	})
	if err != nil {
		t.Fatal(err)
	}
}

func labels(g *Graph) []string {
	out := make([]string, len(g.Keyframes))
	for i, k := range g.Keyframes {
		out[i] = k.Label
	}
	return out
}

func TestUndoRestoresPreviousState(t *testing.T) {
	e := NewEditor(nil)
	addLabeledKeyframe(t, e, 100, "a")
	addLabeledKeyframe(t, e, 200, "b")
	addLabeledKeyframe(t, e, 300, "c")

	if !e.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	got := labels(e.Snapshot())
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("after undo labels = %v, want [a b]", got)
	}

	if !e.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	got = labels(e.Snapshot())
	if len(got) != 3 || got[2] != "c" {
		t.Errorf("after redo labels = %v, want [a b c]", got)
	}
}

func TestUndoAtHistoryStart(t *testing.T) {
	e := NewEditor(nil)
	if e.Undo() {
		t.Error("Undo() on fresh editor should report false")
	}
	if e.Redo() {
		t.Error("Redo() on fresh editor should report false")
	}
}

func TestMutationAfterUndoInvalidatesRedo(t *testing.T) {
	e := NewEditor(nil)
	addLabeledKeyframe(t, e, 100, "a")
	addLabeledKeyframe(t, e, 200, "b")

	if !e.Undo() {
		t.Fatal("Undo() failed")
	}
	if !e.CanRedo() {
		t.Fatal("redo should be available after undo")
	}

	addLabeledKeyframe(t, e, 300, "c")
	if e.CanRedo() {
		t.Error("redo must be invalidated by a new mutation")
	}
	if e.Redo() {
		t.Error("Redo() must fail after invalidation")
	}

	got := labels(e.Snapshot())
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("labels = %v, want [a c]", got)
	}
}

func TestFailedOperationDoesNotPushHistory(t *testing.T) {
	e := NewEditor(nil)
	addLabeledKeyframe(t, e, 100, "a")

	err := e.Apply(func(g *Graph) error {
		return g.RemoveKeyframe("missing")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	// one undo returns to the empty graph, then history is exhausted
	if !e.Undo() {
		t.Fatal("Undo() failed")
	}
	if e.Undo() {
		t.Error("failed op must not have added a history entry")
	}
}

func TestHistoryBounded(t *testing.T) {
	e := NewEditor(nil)
	for i := 0; i < HistoryLimit+20; i++ {
		addLabeledKeyframe(t, e, int64(i), fmt.Sprintf("k%d", i))
	}

	undos := 0
	for e.Undo() {
		undos++
	}
	if undos != HistoryLimit {
		t.Errorf("undo depth = %d, want %d", undos, HistoryLimit)
	}

	// oldest reachable state is the one 50 mutations back
	got := labels(e.Snapshot())
	if len(got) != 20 {
		t.Errorf("oldest reachable state has %d keyframes, want 20", len(got))
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	e := NewEditor(nil)
	addLabeledKeyframe(t, e, 100, "a")

	snap := e.Snapshot()
	snap.Keyframes[0].Label = "mutated"

	if labels(e.Snapshot())[0] != "a" {
		t.Error("snapshot mutation leaked into the editor")
	}
}

func TestUndoAfterEveryMutatingOpKind(t *testing.T) {
	e := NewEditor(nil)
	addLabeledKeyframe(t, e, 100, "a")
	addLabeledKeyframe(t, e, 200, "b")

	g := e.Snapshot()
	k0, k1 := g.Keyframes[0].ID, g.Keyframes[1].ID

	if err := e.Apply(func(g *Graph) error {
		return g.AddConnection(Connection{From: k0, To: k1})
	}); err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(func(g *Graph) error {
		return g.RemoveKeyframe(k0)
	}); err != nil {
		t.Fatal(err)
	}

	// undo the removal: keyframe and its connection both return
	if !e.Undo() {
		t.Fatal("Undo() failed")
	}
	g = e.Snapshot()
	if len(g.Keyframes) != 2 || len(g.Connections) != 1 {
		t.Errorf("after undo: %d keyframes / %d connections, want 2 / 1",
			len(g.Keyframes), len(g.Connections))
	}
}
