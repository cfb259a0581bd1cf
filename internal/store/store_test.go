package store

import (
	"path/filepath"
	"testing"
)

func TestAppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if err := st.Append("answer", "42", "2026-01-01T00:00:00Z"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := st.Append("double", "(lambda (x) (* x 2))", "2026-01-01T00:00:01Z"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	defs, err := st.Replay()
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d definitions, want 2", len(defs))
	}
	if defs[0].Name != "answer" || defs[0].ExprSource != "42" {
		t.Errorf("got %+v, want answer/42 first (insertion order)", defs[0])
	}
	if defs[1].Name != "double" {
		t.Errorf("got %+v, want double second", defs[1])
	}
}

func TestReplayEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	defs, err := st.Replay()
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("got %d definitions, want 0", len(defs))
	}
}
