package wire

import (
	"bytes"
	"fmt"
	"testing"
)

func TestWriteMsgThenReadMsgRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	msg := map[string]any{"id": "1", "op": "eval", "expr": "(+ 1 2)"}

	if err := WriteMsg(&buf, msg); err != nil {
		t.Fatalf("WriteMsg: %v", err)
	}

	got, err := ReadMsg(&buf)
	if err != nil {
		t.Fatalf("ReadMsg: %v", err)
	}
	if got["id"] != "1" || got["op"] != "eval" || got["expr"] != "(+ 1 2)" {
		t.Fatalf("got %+v, want round-tripped message", got)
	}
}

func TestNextIDIsUniqueAndMonotonic(t *testing.T) {
	a := NextID()
	b := NextID()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	var na, nb int64
	if _, err := fmt.Sscanf(a, "req-%d", &na); err != nil {
		t.Fatalf("parse id %q: %v", a, err)
	}
	if _, err := fmt.Sscanf(b, "req-%d", &nb); err != nil {
		t.Fatalf("parse id %q: %v", b, err)
	}
	if nb <= na {
		t.Fatalf("expected increasing ids, got %q then %q", a, b)
	}
}
