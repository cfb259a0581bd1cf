// Package session implements the long-running evaluation actor
// exposed by cmd/scheme-session, grounded on the teacher's core.go:
// one goroutine owns all mutable state (the top-level environment and
// the trace log) and every request is serialized through a channel,
// so concurrent client connections never race on an Assoc chain or
// Interpreter.
package session

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"scheme"
	"scheme/internal/store"
	"scheme/internal/wire"
)

// Session is the central actor: it owns the top-level environment and
// the trace log, and processes one request at a time off a channel —
// the same single-actor-goroutine shape as the teacher's Core.
type Session struct {
	interp   *scheme.Interpreter
	env      *scheme.Assoc
	tracer   *scheme.Tracer
	store    *store.Store // nil until SetStore attaches one
	requests chan request
	listener net.Listener
}

// SetStore attaches definition persistence: every successful "define"
// op is logged so a future session can Replay it (a define form sent
// through the "eval" op is not logged). Pass nil to disable (the
// default).
func (s *Session) SetStore(st *store.Store) {
	s.store = st
}

// Replay re-evaluates every definition previously logged to the
// attached store, in the order it was defined, against the session's
// environment — used at startup to restore a prior session's state.
func (s *Session) Replay() error {
	if s.store == nil {
		return nil
	}
	defs, err := s.store.Replay()
	if err != nil {
		return err
	}
	for _, d := range defs {
		source := fmt.Sprintf("(define %s %s)", d.Name, d.ExprSource)
		syn, err := scheme.ReadOne(source)
		if err != nil {
			return fmt.Errorf("replay %s: %w", d.Name, err)
		}
		expr, err := scheme.Parse(syn, nil)
		if err != nil {
			return fmt.Errorf("replay %s: %w", d.Name, err)
		}
		if _, err := s.interp.Eval(expr, &s.env); err != nil {
			return fmt.Errorf("replay %s: %w", d.Name, err)
		}
	}
	return nil
}

type request struct {
	msg      map[string]any
	response chan map[string]any
}

// New creates a Session listening on sockPath. Stale sockets left
// behind by a prior unclean shutdown are removed first, matching the
// teacher's NewCore.
func New(sockPath string, out io.Writer) (*Session, error) {
	os.Remove(sockPath)

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	return &Session{
		interp:   &scheme.Interpreter{Out: out},
		env:      scheme.EmptyAssoc,
		tracer:   scheme.NewTracer(),
		requests: make(chan request, 64),
		listener: listener,
	}, nil
}

// Run starts the actor goroutine and accepts connections. Blocks until
// the listener is closed.
func (s *Session) Run() {
	go s.actorLoop()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConnection(conn)
	}
}

// Shutdown stops accepting connections and drains the actor loop.
func (s *Session) Shutdown() {
	s.listener.Close()
	close(s.requests)
}

func (s *Session) actorLoop() {
	for req := range s.requests {
		req.response <- s.handleRequest(req.msg)
	}
}

func (s *Session) sendToActor(msg map[string]any) map[string]any {
	resp := make(chan map[string]any, 1)
	s.requests <- request{msg: msg, response: resp}
	return <-resp
}

func (s *Session) handleConnection(conn net.Conn) {
	defer conn.Close()
	for {
		msg, err := wire.ReadMsg(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("read client message: %v", err)
			}
			return
		}
		resp := s.sendToActor(msg)
		if err := wire.WriteMsg(conn, resp); err != nil {
			log.Printf("write client response: %v", err)
			return
		}
	}
}

func (s *Session) handleRequest(msg map[string]any) map[string]any {
	id, _ := msg["id"].(string)
	op, _ := msg["op"].(string)
	switch op {
	case "eval":
		return s.handleEval(id, msg)
	case "define":
		return s.handleDefine(id, msg)
	case "traces":
		return s.handleTraces(id, msg)
	default:
		return errorResponse(id, fmt.Sprintf("unknown op: %q", op))
	}
}

func (s *Session) handleEval(id string, msg map[string]any) map[string]any {
	source, ok := msg["expr"].(string)
	if !ok {
		return errorResponse(id, "eval: missing 'expr' string")
	}

	val, err := s.evalSource(source)
	if err != nil {
		return errorResponse(id, err.Error())
	}
	return map[string]any{"id": id, "ok": true, "value": val.String()}
}

func (s *Session) handleDefine(id string, msg map[string]any) map[string]any {
	name, ok := msg["name"].(string)
	if !ok {
		return errorResponse(id, "define: missing 'name' string")
	}
	exprSrc, ok := msg["expr"].(string)
	if !ok {
		return errorResponse(id, "define: missing 'expr' string")
	}

	source := fmt.Sprintf("(define %s %s)", name, exprSrc)
	if _, err := s.evalSource(source); err != nil {
		return errorResponse(id, err.Error())
	}
	if s.store != nil {
		if err := s.store.Append(name, exprSrc, now()); err != nil {
			return errorResponse(id, fmt.Sprintf("define succeeded but logging failed: %v", err))
		}
	}
	return map[string]any{"id": id, "ok": true, "value": name}
}

func (s *Session) handleTraces(id string, msg map[string]any) map[string]any {
	all := s.tracer.All()
	n := len(all)
	if limit, ok := msg["limit"].(float64); ok && int(limit) < n {
		n = int(limit)
	}
	start := len(all) - n
	out := make([]any, n)
	for i, tr := range all[start:] {
		entry := map[string]any{
			"entry":     tr.Entry,
			"timestamp": tr.Timestamp,
		}
		if tr.Error != "" {
			entry["error"] = tr.Error
		} else {
			entry["result"] = tr.Result.String()
		}
		out[i] = entry
	}
	return map[string]any{"id": id, "ok": true, "value": out}
}

// evalSource parses and evaluates one top-level form against the
// session's persistent environment, recording a trace of the attempt
// regardless of outcome.
func (s *Session) evalSource(source string) (scheme.Value, error) {
	syn, err := scheme.ReadOne(source)
	if err != nil {
		s.tracer.Record(source, scheme.Value{}, err, now())
		return scheme.Value{}, err
	}
	expr, err := scheme.Parse(syn, nil)
	if err != nil {
		s.tracer.Record(source, scheme.Value{}, err, now())
		return scheme.Value{}, err
	}
	val, err := s.interp.Eval(expr, &s.env)
	s.tracer.Record(source, val, err, now())
	return val, err
}

func errorResponse(id, errMsg string) map[string]any {
	return map[string]any{"id": id, "ok": false, "error": errMsg}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
