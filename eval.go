package scheme

import (
	"io"
	"os"
)

// Interpreter threads the one external collaborator the evaluator
// needs at runtime: where `display` writes (§6). Everything else is
// pure recursion over Expr/Assoc.
type Interpreter struct {
	Out io.Writer
}

// NewInterpreter returns an Interpreter that writes display output to
// stdout, matching the teacher's default wiring (os.Stdout via log's
// default writer in core.go/cmd drivers).
func NewInterpreter() *Interpreter {
	return &Interpreter{Out: os.Stdout}
}

// Eval evaluates expr in env (§4.4). env is a pointer to the caller's
// environment variable so that top-level Define can rebind it in
// place — mirroring the original's `Assoc &env` reference parameter —
// while nested scopes (Let, Letrec, Lambda calls) always pass the
// address of a fresh local variable, so an inner extend never leaks
// to an outer scope.
func (it *Interpreter) Eval(expr *Expr, env **Assoc) (Value, error) {
	switch expr.Kind {
	case EFixnum:
		return IntegerV(expr.Int), nil
	case ERationalNum:
		return RationalV(expr.Num, expr.Den), nil
	case EStringLit:
		return StringV(expr.Str), nil
	case ETrue:
		return BooleanV(true), nil
	case EFalse:
		return BooleanV(false), nil
	case EVoidLit:
		return VoidV, nil
	case EExitLit:
		return TerminateV, nil
	case EVar:
		return it.evalVar(expr.Str, *env)

	case EPlus2:
		return it.evalBinaryNumeric(expr, env, AddValues)
	case EMinus2:
		return it.evalBinaryNumeric(expr, env, SubValues)
	case EMult2:
		return it.evalBinaryNumeric(expr, env, MulValues)
	case EDiv2:
		return it.evalBinaryNumeric(expr, env, DivValues)
	case EModulo:
		return it.evalBinaryNumeric(expr, env, ModuloValues)
	case EExpt:
		return it.evalBinaryNumeric(expr, env, ExptValues)

	case EPlusVar:
		return it.evalVariadicArith(expr, env, 0, AddValues, nil, nil)
	case EMinusVar:
		return it.evalVariadicArith(expr, env, 0, SubValues, NegateValue, "-")
	case EMultVar:
		return it.evalVariadicArith(expr, env, 1, MulValues, nil, nil)
	case EDivVar:
		return it.evalVariadicArith(expr, env, 1, DivValues, ReciprocalValue, "/")

	case ELess2:
		return it.evalCompareBinary(expr, env, func(c int) bool { return c < 0 })
	case ELessEq2:
		return it.evalCompareBinary(expr, env, func(c int) bool { return c <= 0 })
	case EEqual2:
		return it.evalCompareBinary(expr, env, func(c int) bool { return c == 0 })
	case EGreaterEq2:
		return it.evalCompareBinary(expr, env, func(c int) bool { return c >= 0 })
	case EGreater2:
		return it.evalCompareBinary(expr, env, func(c int) bool { return c > 0 })

	case ELessVar:
		return it.evalCompareVariadic(expr, env, func(c int) bool { return c < 0 })
	case ELessEqVar:
		return it.evalCompareVariadic(expr, env, func(c int) bool { return c <= 0 })
	case EEqualVar:
		return it.evalCompareVariadic(expr, env, func(c int) bool { return c == 0 })
	case EGreaterEqVar:
		return it.evalCompareVariadic(expr, env, func(c int) bool { return c >= 0 })
	case EGreaterVar:
		return it.evalCompareVariadic(expr, env, func(c int) bool { return c > 0 })

	case ECons:
		a, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		b, err := it.Eval(expr.B, env)
		if err != nil {
			return Value{}, err
		}
		return PairV(a, b), nil

	case ECar:
		v, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != VPair {
			return Value{}, errf("car: argument must be a pair")
		}
		return v.Pair.Car, nil

	case ECdr:
		v, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != VPair {
			return Value{}, errf("car/cdr: argument must be a pair")
		}
		return v.Pair.Cdr, nil

	case ESetCar:
		p, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		if p.Kind != VPair {
			return Value{}, errf("set-car!/set-cdr!: first argument must be a pair")
		}
		v, err := it.Eval(expr.B, env)
		if err != nil {
			return Value{}, err
		}
		p.Pair.Car = v
		return VoidV, nil

	case ESetCdr:
		p, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		if p.Kind != VPair {
			return Value{}, errf("set-car!/set-cdr!: first argument must be a pair")
		}
		v, err := it.Eval(expr.B, env)
		if err != nil {
			return Value{}, err
		}
		p.Pair.Cdr = v
		return VoidV, nil

	case EListFunc:
		vs, err := it.evalArgs(expr.Args, env)
		if err != nil {
			return Value{}, err
		}
		return ListFromValues(vs), nil

	case EIsList:
		v, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		return BooleanV(v.Kind == VNull || (v.Kind == VPair && IsProperList(v))), nil

	case EIsPair:
		v, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		return BooleanV(v.Kind == VPair), nil

	case EIsNull:
		v, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		return BooleanV(v.Kind == VNull), nil

	case EIsEq:
		a, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		b, err := it.Eval(expr.B, env)
		if err != nil {
			return Value{}, err
		}
		return BooleanV(Eq(a, b)), nil

	case EIsBoolean:
		return it.evalPredicate(expr, env, func(v Value) bool { return v.Kind == VBoolean })
	case EIsNumber:
		return it.evalPredicate(expr, env, isNumeric)
	case EIsProcedure:
		return it.evalPredicate(expr, env, func(v Value) bool { return v.Kind == VProcedure })
	case EIsSymbol:
		return it.evalPredicate(expr, env, func(v Value) bool { return v.Kind == VSymbol })
	case EIsString:
		return it.evalPredicate(expr, env, func(v Value) bool { return v.Kind == VString })

	case ENot:
		v, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		return BooleanV(!v.Truthy()), nil

	case EAndVar:
		result := BooleanV(true)
		for _, e := range expr.Args {
			v, err := it.Eval(e, env)
			if err != nil {
				return Value{}, err
			}
			result = v
			if !v.Truthy() {
				return BooleanV(false), nil
			}
		}
		return result, nil

	case EOrVar:
		for _, e := range expr.Args {
			v, err := it.Eval(e, env)
			if err != nil {
				return Value{}, err
			}
			if v.Truthy() {
				return v, nil
			}
		}
		return BooleanV(false), nil

	case EIf:
		cond, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		if cond.Truthy() {
			return it.Eval(expr.B, env)
		}
		return it.Eval(expr.C, env)

	case ECond:
		return it.evalCond(expr, env)

	case EBegin:
		result := VoidV
		for _, e := range expr.Args {
			v, err := it.Eval(e, env)
			if err != nil {
				return Value{}, err
			}
			result = v
		}
		return result, nil

	case EQuote:
		return SyntaxToValue(expr.Syntax), nil

	case EDisplay:
		v, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		it.display(v)
		return VoidV, nil

	case ELambda:
		return ProcedureV(expr.Params, expr.Body, *env), nil

	case EApply:
		return it.evalApply(expr, env)

	case EDefine:
		return it.evalDefine(expr, env)

	case ELet:
		return it.evalLet(expr, env)

	case ELetrec:
		return it.evalLetrec(expr, env)

	case ESet:
		return it.evalSet(expr, env)

	default:
		return Value{}, errf("unknown expression kind")
	}
}

func (it *Interpreter) evalArgs(exprs []*Expr, env **Assoc) ([]Value, error) {
	vs := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := it.Eval(e, env)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func (it *Interpreter) evalPredicate(expr *Expr, env **Assoc, pred func(Value) bool) (Value, error) {
	v, err := it.Eval(expr.A, env)
	if err != nil {
		return Value{}, err
	}
	return BooleanV(pred(v)), nil
}

func (it *Interpreter) evalBinaryNumeric(expr *Expr, env **Assoc, op func(a, b Value) (Value, error)) (Value, error) {
	a, err := it.Eval(expr.A, env)
	if err != nil {
		return Value{}, err
	}
	b, err := it.Eval(expr.B, env)
	if err != nil {
		return Value{}, err
	}
	return op(a, b)
}

// evalVariadicArith implements §4.2's variadic arithmetic: empty-arg
// identity, one-arg special case (for - and /), and left-fold
// otherwise.
func (it *Interpreter) evalVariadicArith(expr *Expr, env **Assoc, identity int64, fold func(a, b Value) (Value, error), unary func(Value) (Value, error), name any) (Value, error) {
	vs, err := it.evalArgs(expr.Args, env)
	if err != nil {
		return Value{}, err
	}
	if len(vs) == 0 {
		if unary != nil {
			return Value{}, errf("Wrong number of arguments for %v", name)
		}
		return IntegerV(identity), nil
	}
	if len(vs) == 1 && unary != nil {
		return unary(vs[0])
	}
	result := vs[0]
	for _, v := range vs[1:] {
		result, err = fold(result, v)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

func (it *Interpreter) evalCompareBinary(expr *Expr, env **Assoc, pred func(int) bool) (Value, error) {
	a, err := it.Eval(expr.A, env)
	if err != nil {
		return Value{}, err
	}
	b, err := it.Eval(expr.B, env)
	if err != nil {
		return Value{}, err
	}
	c, err := CompareValues(a, b)
	if err != nil {
		return Value{}, err
	}
	return BooleanV(pred(c)), nil
}

// evalCompareVariadic implements §4.2: true for fewer than 2 args,
// otherwise the relation must hold between every adjacent pair.
func (it *Interpreter) evalCompareVariadic(expr *Expr, env **Assoc, pred func(int) bool) (Value, error) {
	vs, err := it.evalArgs(expr.Args, env)
	if err != nil {
		return Value{}, err
	}
	if len(vs) < 2 {
		return BooleanV(true), nil
	}
	for i := 0; i+1 < len(vs); i++ {
		c, err := CompareValues(vs[i], vs[i+1])
		if err != nil {
			return Value{}, err
		}
		if !pred(c) {
			return BooleanV(false), nil
		}
	}
	return BooleanV(true), nil
}

// evalVar implements §4.4's Var semantics, including the
// primitive-reification bridge: an unbound name that matches a
// primitive becomes a synthetic zero-parameter Procedure whose body is
// Var(name), so it can be passed around as a first-class value and
// re-dispatched by evalApply.
func (it *Interpreter) evalVar(name string, env *Assoc) (Value, error) {
	if cell := Find(name, env); cell != nil {
		return cell.Value, nil
	}
	if _, ok := Primitives[name]; ok {
		return ProcedureV(nil, &Expr{Kind: EVar, Str: name}, env), nil
	}
	return Value{}, errf("Undefined variable: %s", name)
}

func (it *Interpreter) evalCond(expr *Expr, env **Assoc) (Value, error) {
	for _, clause := range expr.Clauses {
		if clause.Test.Kind == EVar && clause.Test.Str == "else" {
			return it.evalClauseBody(clause.Test, clause.Body, env, true)
		}
		test, err := it.Eval(clause.Test, env)
		if err != nil {
			return Value{}, err
		}
		if test.Truthy() {
			if len(clause.Body) == 0 {
				return test, nil
			}
			return it.evalExprSeq(clause.Body, env)
		}
	}
	return VoidV, nil
}

func (it *Interpreter) evalClauseBody(test *Expr, body []*Expr, env **Assoc, isElse bool) (Value, error) {
	if len(body) == 0 {
		return VoidV, nil
	}
	return it.evalExprSeq(body, env)
}

func (it *Interpreter) evalExprSeq(exprs []*Expr, env **Assoc) (Value, error) {
	result := VoidV
	for _, e := range exprs {
		v, err := it.Eval(e, env)
		if err != nil {
			return Value{}, err
		}
		result = v
	}
	return result, nil
}

// evalApply implements §4.4's Apply, including the primitive-bridge
// re-dispatch: a reified primitive Procedure (empty Params, body
// Var(primitiveName)) is dispatched straight to the primitive table
// with the evaluated args, bypassing the usual arity-against-params
// check (the bridge by which primitives used as first-class values,
// e.g. passed into a user-defined higher-order function, still work).
func (it *Interpreter) evalApply(expr *Expr, env **Assoc) (Value, error) {
	fn, err := it.Eval(expr.Fn, env)
	if err != nil {
		return Value{}, err
	}
	if fn.Kind != VProcedure {
		return Value{}, errf("Attempt to apply a non-procedure")
	}
	args, err := it.evalArgs(expr.Args, env)
	if err != nil {
		return Value{}, err
	}
	return it.applyProcedure(fn.Proc, args)
}

func (it *Interpreter) applyProcedure(proc *Procedure, args []Value) (Value, error) {
	if len(proc.Params) == 0 && proc.Body.Kind == EVar {
		if kind, ok := Primitives[proc.Body.Str]; ok {
			return it.applyPrimitive(proc.Body.Str, kind, args)
		}
	}
	if len(args) != len(proc.Params) {
		return Value{}, errf("Wrong number of arguments")
	}
	// Always layer a fresh frame for the call, even with zero params:
	// otherwise a zero-parameter procedure's callEnv would alias
	// proc.Env directly, and growFrame (used by a Define in the body)
	// would grow the captured closure environment itself instead of a
	// frame scoped to this call.
	callEnv := &Assoc{cells: &[]*Cell{}, next: proc.Env}
	for i, p := range proc.Params {
		callEnv = Extend(p, args[i], callEnv)
	}
	return it.Eval(proc.Body, &callEnv)
}

func (it *Interpreter) applyPrimitive(name string, kind PrimitiveKind, args []Value) (Value, error) {
	ar := primitiveArity[kind]
	if len(args) < ar.min || (ar.max >= 0 && len(args) > ar.max) {
		return Value{}, errf("Wrong number of arguments for %s", name)
	}
	switch kind {
	case PPlus:
		return foldPrimitive(args, 0, AddValues, nil)
	case PMinus:
		return foldPrimitive(args, 0, SubValues, NegateValue)
	case PMult:
		return foldPrimitive(args, 1, MulValues, nil)
	case PDiv:
		return foldDiv(args)
	case PModulo:
		return ModuloValues(args[0], args[1])
	case PExpt:
		return ExptValues(args[0], args[1])
	case PLess:
		return comparePrimitive(args, func(c int) bool { return c < 0 })
	case PLessEq:
		return comparePrimitive(args, func(c int) bool { return c <= 0 })
	case PEqual:
		return comparePrimitive(args, func(c int) bool { return c == 0 })
	case PGreaterEq:
		return comparePrimitive(args, func(c int) bool { return c >= 0 })
	case PGreater:
		return comparePrimitive(args, func(c int) bool { return c > 0 })
	case PCons:
		return PairV(args[0], args[1]), nil
	case PCar:
		if args[0].Kind != VPair {
			return Value{}, errf("car: argument must be a pair")
		}
		return args[0].Pair.Car, nil
	case PCdr:
		if args[0].Kind != VPair {
			return Value{}, errf("car/cdr: argument must be a pair")
		}
		return args[0].Pair.Cdr, nil
	case PList:
		return ListFromValues(args), nil
	case PSetCar:
		if args[0].Kind != VPair {
			return Value{}, errf("set-car!/set-cdr!: first argument must be a pair")
		}
		args[0].Pair.Car = args[1]
		return VoidV, nil
	case PSetCdr:
		if args[0].Kind != VPair {
			return Value{}, errf("set-car!/set-cdr!: first argument must be a pair")
		}
		args[0].Pair.Cdr = args[1]
		return VoidV, nil
	case PNot:
		return BooleanV(!args[0].Truthy()), nil
	case PEq:
		return BooleanV(Eq(args[0], args[1])), nil
	case PBoolean:
		return BooleanV(args[0].Kind == VBoolean), nil
	case PNumber:
		return BooleanV(isNumeric(args[0])), nil
	case PNull:
		return BooleanV(args[0].Kind == VNull), nil
	case PPair:
		return BooleanV(args[0].Kind == VPair), nil
	case PProcedure:
		return BooleanV(args[0].Kind == VProcedure), nil
	case PSymbol:
		return BooleanV(args[0].Kind == VSymbol), nil
	case PListQ:
		v := args[0]
		return BooleanV(v.Kind == VNull || (v.Kind == VPair && IsProperList(v))), nil
	case PString:
		return BooleanV(args[0].Kind == VString), nil
	case PVoid:
		return VoidV, nil
	case PExit:
		return TerminateV, nil
	case PDisplay:
		it.display(args[0])
		return VoidV, nil
	default:
		return Value{}, errf("unknown primitive: %s", name)
	}
}

func foldPrimitive(args []Value, identity int64, fold func(a, b Value) (Value, error), unary func(Value) (Value, error)) (Value, error) {
	if len(args) == 0 {
		return IntegerV(identity), nil
	}
	if len(args) == 1 && unary != nil {
		return unary(args[0])
	}
	result := args[0]
	var err error
	for _, v := range args[1:] {
		result, err = fold(result, v)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

func foldDiv(args []Value) (Value, error) {
	if len(args) == 1 {
		return ReciprocalValue(args[0])
	}
	result := args[0]
	var err error
	for _, v := range args[1:] {
		result, err = DivValues(result, v)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

func comparePrimitive(args []Value, pred func(int) bool) (Value, error) {
	if len(args) < 2 {
		return BooleanV(true), nil
	}
	for i := 0; i+1 < len(args); i++ {
		c, err := CompareValues(args[i], args[i+1])
		if err != nil {
			return Value{}, err
		}
		if !pred(c) {
			return BooleanV(false), nil
		}
	}
	return BooleanV(true), nil
}

// evalDefine implements §4.4's Define: reject primitive/reserved
// names, then either modify an existing binding or grow the current
// frame in place with a placeholder cell *before* evaluating the RHS.
// The placeholder-then-fill order (mirroring Letrec below) is what
// makes `(define (fact n) ... (fact (- n 1)) ...)` work: the lambda
// captures the frame while it already contains fact's own (empty)
// cell, so the recursive call resolves once this function fills the
// cell in. Growing the frame in place — instead of prepending a fresh
// frame via Extend — also means a second top-level define (e.g. a
// sibling in a mutual-recursion pair) lands in the very same frame
// object the first closure captured, so it too becomes visible to
// already-created closures the moment its cell is filled.
func (it *Interpreter) evalDefine(expr *Expr, env **Assoc) (Value, error) {
	if IsNameReserved(expr.Str) {
		return Value{}, errf("Cannot redefine primitive or reserved word: %s", expr.Str)
	}
	if cell := Find(expr.Str, *env); cell != nil {
		val, err := it.Eval(expr.A, env)
		if err != nil {
			return Value{}, err
		}
		cell.Value = val
		return VoidV, nil
	}
	if *env == nil {
		*env = newFrame()
	}
	cell := growFrame(*env, expr.Str)
	val, err := it.Eval(expr.A, env)
	if err != nil {
		return Value{}, err
	}
	cell.Value = val
	return VoidV, nil
}

func (it *Interpreter) evalLet(expr *Expr, env **Assoc) (Value, error) {
	vals := make([]Value, len(expr.Bindings))
	for i, b := range expr.Bindings {
		v, err := it.Eval(b.Expr, env)
		if err != nil {
			return Value{}, err
		}
		vals[i] = v
	}
	// A fresh frame per call, even with zero bindings, so a Define in
	// the body (growFrame) grows a frame scoped to this let rather than
	// aliasing and mutating the outer env in place.
	newEnv := &Assoc{cells: &[]*Cell{}, next: *env}
	for i, b := range expr.Bindings {
		newEnv = Extend(b.Name, vals[i], newEnv)
	}
	return it.Eval(expr.Body, &newEnv)
}

// evalLetrec implements §4.4's Letrec: placeholder cells first (using
// Void as the not-yet-assigned marker, since Assoc has no null
// Value), then evaluate each RHS in the fully extended environment and
// modify the corresponding cell — supporting forward references among
// bindings, including mutual recursion.
func (it *Interpreter) evalLetrec(expr *Expr, env **Assoc) (Value, error) {
	newEnv := &Assoc{cells: &[]*Cell{}, next: *env}
	for _, b := range expr.Bindings {
		newEnv = Extend(b.Name, VoidV, newEnv)
	}
	for _, b := range expr.Bindings {
		val, err := it.Eval(b.Expr, &newEnv)
		if err != nil {
			return Value{}, err
		}
		Modify(b.Name, val, newEnv)
	}
	return it.Eval(expr.Body, &newEnv)
}

func (it *Interpreter) evalSet(expr *Expr, env **Assoc) (Value, error) {
	val, err := it.Eval(expr.A, env)
	if err != nil {
		return Value{}, err
	}
	cell := Find(expr.Str, *env)
	if cell == nil {
		return Value{}, errf("Undefined variable in set!: %s", expr.Str)
	}
	cell.Value = val
	return VoidV, nil
}
