package scheme

import "fmt"

// display writes v to the interpreter's configured writer using the
// raw, unquoted rendering for String values and the canonical
// Value.String() form for everything else — the one place the
// "display" primitive's contract (§6) differs from the printer every
// other caller uses (quote'd output, error messages, a REPL's result
// line).
func (it *Interpreter) display(v Value) {
	if v.Kind == VString {
		fmt.Fprint(it.Out, v.Str)
		return
	}
	fmt.Fprint(it.Out, v.String())
}
