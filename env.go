package scheme

// Cell is a mutable binding: its identity is what a Procedure's
// closure shares when `modify` writes through it (§4.3).
type Cell struct {
	Name  string
	Value Value
}

// Assoc is a lexically scoped environment: a singly linked chain of
// frames. Each frame holds its bindings in a slice addressed through a
// shared pointer, so a binding appended to a frame becomes visible
// through every Assoc node that already points at that same frame —
// this is what lets growFrame (below) grow the exact frame a
// self-referential closure just captured, instead of layering a new
// frame on top that the closure's own Env can never reach. This is the
// frame-chain shape spec.md §9 calls for — extend allocates a new head
// aliasing the existing tail (non-destructive, so a closure's captured
// env is unaffected by further extends through another alias), while
// modify mutates a shared Cell in place (destructive, visible through
// every alias) — grounded on the pack's bshepherdson-mal Env (singly
// linked frame chain over a shared map).
type Assoc struct {
	cells *[]*Cell
	next  *Assoc
}

// EmptyAssoc is the initial environment: no frames at all. Primitives
// are resolved via the primitive table, not through Assoc (§4.3).
var EmptyAssoc *Assoc

// Find returns the innermost cell bound to name, or nil if absent.
func Find(name string, env *Assoc) *Cell {
	for e := env; e != nil; e = e.next {
		cells := *e.cells
		for i := len(cells) - 1; i >= 0; i-- {
			if cells[i].Name == name {
				return cells[i]
			}
		}
	}
	return nil
}

// Extend returns a new environment with a new innermost frame holding
// one binding, without mutating env — callers rely on the old
// environment staying intact after a closure has captured it.
func Extend(name string, value Value, env *Assoc) *Assoc {
	cells := []*Cell{{Name: name, Value: value}}
	return &Assoc{cells: &cells, next: env}
}

// Modify mutates the innermost cell named name in place. Behavior is
// undefined if name is absent; callers must check with Find first.
func Modify(name string, value Value, env *Assoc) {
	cell := Find(name, env)
	if cell != nil {
		cell.Value = value
	}
}

// growFrame appends a fresh, as-yet-unassigned binding to env's own
// frame — rather than a new frame on top of it — and returns the cell,
// so every alias of this exact Assoc node (including a closure that
// captured env moments earlier, before the binding existed) observes
// the binding as soon as the caller fills the cell in. Used only by
// Define (§4.4), at top level or in a body, to let a (mutually) recursive definition's
// own closure see its own — or a sibling top-level define's — binding.
func growFrame(env *Assoc, name string) *Cell {
	cell := &Cell{Name: name}
	*env.cells = append(*env.cells, cell)
	return cell
}

// newFrame allocates a single empty, growable frame with no parent —
// used to seed the top-level environment the first time Define needs
// somewhere to grow a binding into.
func newFrame() *Assoc {
	return &Assoc{cells: &[]*Cell{}}
}
