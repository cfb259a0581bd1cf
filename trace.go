package scheme

// Trace captures one top-level evaluation: the source text evaluated,
// its result or error, and when it ran. Narrowed from the teacher's
// Trace (entry node id + module-send log) since this core has no
// module-send builtin — Entry here is the form's source text instead
// of a graph node id, and Sends is dropped entirely.
type Trace struct {
	Entry     string // source text of the top-level form
	Result    Value  // final result value, zero Value on error
	Error     string // non-empty on error
	Timestamp string // RFC3339
}

// Tracer accumulates Traces across a session, grounded on the
// teacher's core.go pattern of a process owning an append-only trace
// log alongside its evaluation environment.
type Tracer struct {
	traces []Trace
}

func NewTracer() *Tracer {
	return &Tracer{}
}

// Record appends a completed evaluation's trace. timestamp is supplied
// by the caller (the core package itself never calls time.Now, keeping
// Eval and its callers deterministic and test-friendly).
func (t *Tracer) Record(source string, result Value, evalErr error, timestamp string) {
	tr := Trace{Entry: source, Timestamp: timestamp}
	if evalErr != nil {
		tr.Error = evalErr.Error()
	} else {
		tr.Result = result
	}
	t.traces = append(t.traces, tr)
}

// All returns every trace recorded so far, oldest first.
func (t *Tracer) All() []Trace {
	return t.traces
}
