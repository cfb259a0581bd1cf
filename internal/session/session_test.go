package session

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	sess, err := New(sockPath, os.Stdout)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(sess.Shutdown)
	return sess
}

func TestHandleEvalOp(t *testing.T) {
	sess := newTestSession(t)
	resp := sess.handleRequest(map[string]any{"id": "1", "op": "eval", "expr": "(+ 1 2)"})
	if ok, _ := resp["ok"].(bool); !ok {
		t.Fatalf("expected ok response, got %+v", resp)
	}
	if resp["value"] != "3" {
		t.Fatalf("expected value 3, got %+v", resp["value"])
	}
}

func TestHandleEvalOpError(t *testing.T) {
	sess := newTestSession(t)
	resp := sess.handleRequest(map[string]any{"id": "1", "op": "eval", "expr": "(car 5)"})
	if ok, _ := resp["ok"].(bool); ok {
		t.Fatalf("expected error response, got %+v", resp)
	}
}

func TestHandleDefineThenEvalSeesIt(t *testing.T) {
	sess := newTestSession(t)
	defResp := sess.handleRequest(map[string]any{"id": "1", "op": "define", "name": "x", "expr": "41"})
	if ok, _ := defResp["ok"].(bool); !ok {
		t.Fatalf("expected ok response, got %+v", defResp)
	}

	evalResp := sess.handleRequest(map[string]any{"id": "2", "op": "eval", "expr": "(+ x 1)"})
	if ok, _ := evalResp["ok"].(bool); !ok {
		t.Fatalf("expected ok response, got %+v", evalResp)
	}
	if evalResp["value"] != "42" {
		t.Fatalf("expected 42, got %+v", evalResp["value"])
	}
}

func TestHandleUnknownOp(t *testing.T) {
	sess := newTestSession(t)
	resp := sess.handleRequest(map[string]any{"id": "1", "op": "bogus"})
	if ok, _ := resp["ok"].(bool); ok {
		t.Fatalf("expected error response for unknown op, got %+v", resp)
	}
}

func TestHandleTracesRecordsEvals(t *testing.T) {
	sess := newTestSession(t)
	sess.handleRequest(map[string]any{"id": "1", "op": "eval", "expr": "1"})
	sess.handleRequest(map[string]any{"id": "2", "op": "eval", "expr": "2"})

	resp := sess.handleRequest(map[string]any{"id": "3", "op": "traces"})
	if ok, _ := resp["ok"].(bool); !ok {
		t.Fatalf("expected ok response, got %+v", resp)
	}
	traces, ok := resp["value"].([]any)
	if !ok || len(traces) != 2 {
		t.Fatalf("expected 2 traces, got %+v", resp["value"])
	}
}
