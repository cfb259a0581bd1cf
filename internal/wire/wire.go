// Package wire implements the length-prefixed JSON message framing
// shared by the scheme-session actor and its satellite processes,
// grounded on the teacher's mod-http-server/wire.go and mcp-logos/
// wire.go (both use the identical uint32 BigEndian length prefix).
package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
)

// ReadMsg reads one length-prefixed JSON message from r into a
// generic map, mirroring the teacher's ReadMsg(conn) (map[string]any, error)
// signature used throughout core.go's connection handlers.
func ReadMsg(r io.Reader) (map[string]any, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(buf, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return msg, nil
}

// WriteMsg marshals v to JSON and writes it length-prefixed.
func WriteMsg(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(data))); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

var idCounter int64

// NextID returns a process-unique request id. The retrieved corpus
// calls this at every request site (core.go, mcp-logos/main.go) but
// its definition wasn't part of the retrieved core package; a
// monotonic counter gives the same "the caller doesn't have to think
// about ids" property without pulling in a UUID dependency nothing
// else in the corpus uses.
func NextID() string {
	n := atomic.AddInt64(&idCounter, 1)
	return fmt.Sprintf("req-%d", n)
}
