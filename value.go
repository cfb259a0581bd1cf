package scheme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the variants of the Value sum (§3).
type ValueKind int

const (
	VInteger ValueKind = iota
	VRational
	VBoolean
	VString
	VSymbol
	VNull
	VVoid
	VTerminate
	VPair
	VProcedure
)

// Pair is a mutable cons cell. Its identity (pointer) is stable across
// set-car!/set-cdr! mutation, which is what eq? on pairs compares.
type Pair struct {
	Car Value
	Cdr Value
}

// Procedure is a closure: a parameter list, a body expression, and the
// environment captured at creation time (§3, §4.4).
type Procedure struct {
	Params  []string
	Body    *Expr
	Env     *Assoc
}

// Value is the tagged-union runtime value (§3). Only the field(s)
// matching Kind are meaningful.
type Value struct {
	Kind   ValueKind
	Int    int64 // VInteger; also VRational numerator
	Den    int64 // VRational denominator
	Bool   bool
	Str    string // VString, VSymbol
	Pair   *Pair
	Proc   *Procedure
}

func IntegerV(n int64) Value        { return Value{Kind: VInteger, Int: n} }
func BooleanV(b bool) Value         { return Value{Kind: VBoolean, Bool: b} }
func StringV(s string) Value        { return Value{Kind: VString, Str: s} }
func SymbolV(s string) Value        { return Value{Kind: VSymbol, Str: s} }
func PairV(car, cdr Value) Value    { return Value{Kind: VPair, Pair: &Pair{Car: car, Cdr: cdr}} }
func ProcedureV(params []string, body *Expr, env *Assoc) Value {
	return Value{Kind: VProcedure, Proc: &Procedure{Params: params, Body: body, Env: env}}
}

var NullV = Value{Kind: VNull}
var VoidV = Value{Kind: VVoid}
var TerminateV = Value{Kind: VTerminate}

// RationalV builds a Value already known to be normalized; most
// callers should go through normalizeRational instead.
func RationalV(p, q int64) Value {
	return Value{Kind: VRational, Int: p, Den: q}
}

func gcdInt64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// normalizeRational applies §4.2's normalization: reduce to lowest
// terms, force a positive denominator, and collapse to an Integer
// when the denominator reduces to 1.
func normalizeRational(num, den int64) Value {
	g := gcdInt64(num, den)
	if g != 0 {
		num /= g
		den /= g
	}
	if den < 0 {
		num, den = -num, -den
	}
	if den == 1 {
		return IntegerV(num)
	}
	return RationalV(num, den)
}

// asRational returns (numerator, denominator) for any numeric Value,
// promoting Integer n to n/1.
func asRational(v Value) (int64, int64, bool) {
	switch v.Kind {
	case VInteger:
		return v.Int, 1, true
	case VRational:
		return v.Int, v.Den, true
	default:
		return 0, 0, false
	}
}

// isNumeric backs the `number?` predicate. Grounded on
// original_source/src/evaluation.cpp's IsFixnum::evalRator, which
// checks V_INT only: `number?` is true of Integers and false of
// Rationals, even though both ride the same arithmetic tower for
// `+ - * /` and comparison.
func isNumeric(v Value) bool {
	return v.Kind == VInteger
}

// AddValues implements + over the numeric tower (§4.2).
func AddValues(a, b Value) (Value, error) {
	n1, d1, ok1 := asRational(a)
	n2, d2, ok2 := asRational(b)
	if !ok1 || !ok2 {
		return Value{}, errf("Wrong typename in addition")
	}
	return normalizeRational(n1*d2+n2*d1, d1*d2), nil
}

// SubValues implements binary - (§4.2).
func SubValues(a, b Value) (Value, error) {
	n1, d1, ok1 := asRational(a)
	n2, d2, ok2 := asRational(b)
	if !ok1 || !ok2 {
		return Value{}, errf("Wrong typename in subtraction")
	}
	return normalizeRational(n1*d2-n2*d1, d1*d2), nil
}

// MulValues implements * (§4.2).
func MulValues(a, b Value) (Value, error) {
	n1, d1, ok1 := asRational(a)
	n2, d2, ok2 := asRational(b)
	if !ok1 || !ok2 {
		return Value{}, errf("Wrong typename in multiplication")
	}
	return normalizeRational(n1*n2, d1*d2), nil
}

// DivValues implements / (§4.2). Division by a value whose numerator
// is 0 is "Division by zero".
func DivValues(a, b Value) (Value, error) {
	n1, d1, ok1 := asRational(a)
	n2, d2, ok2 := asRational(b)
	if !ok1 || !ok2 {
		return Value{}, errf("Wrong typename in division")
	}
	if n2 == 0 {
		return Value{}, errf("Division by zero")
	}
	return normalizeRational(n1*d2, d1*n2), nil
}

// NegateValue implements unary - (§4.2 variadic semantics).
func NegateValue(a Value) (Value, error) {
	n, d, ok := asRational(a)
	if !ok {
		return Value{}, errf("Wrong typename in negation")
	}
	return normalizeRational(-n, d), nil
}

// ReciprocalValue implements unary / (§4.2 variadic semantics).
func ReciprocalValue(a Value) (Value, error) {
	n, d, ok := asRational(a)
	if !ok {
		return Value{}, errf("Wrong typename in division")
	}
	if n == 0 {
		return Value{}, errf("Division by zero")
	}
	return normalizeRational(d, n), nil
}

// ModuloValues implements modulo: Integer x Integer -> Integer, using
// truncated remainder (§4.2).
func ModuloValues(a, b Value) (Value, error) {
	if a.Kind != VInteger || b.Kind != VInteger {
		return Value{}, errf("modulo is only defined for integers")
	}
	if b.Int == 0 {
		return Value{}, errf("Division by zero")
	}
	return IntegerV(a.Int % b.Int), nil
}

// ExptValues implements expt: Integer^Integer -> Integer, non-negative
// exponent, by exponentiation by squaring, checked against the 32-bit
// signed range (§4.2, grounded on original_source's INT_MAX/INT_MIN
// squaring-loop checks).
func ExptValues(base, exponent Value) (Value, error) {
	if base.Kind != VInteger || exponent.Kind != VInteger {
		return Value{}, errf("Wrong typename")
	}
	b := base.Int
	exp := exponent.Int
	if exp < 0 {
		return Value{}, errf("Negative exponent not supported for integers")
	}
	if b == 0 && exp == 0 {
		return Value{}, errf("0^0 is undefined")
	}

	var result int64 = 1
	for exp > 0 {
		if exp%2 == 1 {
			result *= b
			if result > math.MaxInt32 || result < math.MinInt32 {
				return Value{}, errf("Integer overflow in expt")
			}
		}
		exp /= 2
		if exp > 0 {
			b *= b
			if b > math.MaxInt32 || b < math.MinInt32 {
				return Value{}, errf("Integer overflow in expt")
			}
		}
	}
	return IntegerV(result), nil
}

// CompareValues is the single total ordering predicate (§4.2) that
// every comparison form derives from: -1, 0, or 1.
func CompareValues(a, b Value) (int, error) {
	n1, d1, ok1 := asRational(a)
	n2, d2, ok2 := asRational(b)
	if !ok1 || !ok2 {
		return 0, errf("Wrong typename in comparison")
	}
	left, right := n1*d2, n2*d1
	switch {
	case left < right:
		return -1, nil
	case left > right:
		return 1, nil
	default:
		return 0, nil
	}
}

// Truthy implements §4.4's logic rule: only the literal boolean #f is
// falsy; every other value, including 0, "", and the empty list, is
// truthy.
func (v Value) Truthy() bool {
	return !(v.Kind == VBoolean && !v.Bool)
}

// Eq implements eq? (§3 invariants, §9 Open Questions on Integer
// comparison being by value rather than identity).
func Eq(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case VInteger:
		return a.Int == b.Int
	case VRational:
		return a.Int == b.Int && a.Den == b.Den
	case VBoolean:
		return a.Bool == b.Bool
	case VSymbol:
		return a.Str == b.Str
	case VNull, VVoid, VTerminate:
		return true
	case VPair:
		return a.Pair == b.Pair
	case VProcedure:
		return a.Proc == b.Proc
	case VString:
		// Strings have no tracked identity in this representation;
		// eq? on two freshly built strings is never true, matching
		// "otherwise identity (same object)" for values this type
		// never shares.
		return false
	default:
		return false
	}
}

func (v Value) KindName() string {
	switch v.Kind {
	case VInteger:
		return "Integer"
	case VRational:
		return "Rational"
	case VBoolean:
		return "Boolean"
	case VString:
		return "String"
	case VSymbol:
		return "Symbol"
	case VNull:
		return "Null"
	case VVoid:
		return "Void"
	case VTerminate:
		return "Terminate"
	case VPair:
		return "Pair"
	case VProcedure:
		return "Procedure"
	default:
		return "Unknown"
	}
}

// String renders the canonical form used by display/§6's printer
// contract: strings are quoted here (the raw, unquoted form is only
// used by the Display primitive itself, in display.go).
func (v Value) String() string {
	switch v.Kind {
	case VInteger:
		return strconv.FormatInt(v.Int, 10)
	case VRational:
		return fmt.Sprintf("%d/%d", v.Int, v.Den)
	case VBoolean:
		if v.Bool {
			return "#t"
		}
		return "#f"
	case VString:
		return strconv.Quote(v.Str)
	case VSymbol:
		return v.Str
	case VNull:
		return "()"
	case VVoid:
		return ""
	case VTerminate:
		return "#<terminate>"
	case VPair:
		return v.listString()
	case VProcedure:
		return fmt.Sprintf("#<procedure(%s)>", strings.Join(v.Proc.Params, " "))
	default:
		return "#<unknown>"
	}
}

func (v Value) listString() string {
	var parts []string
	cur := v
	for cur.Kind == VPair {
		parts = append(parts, cur.Pair.Car.String())
		cur = cur.Pair.Cdr
	}
	if cur.Kind == VNull {
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "(" + strings.Join(parts, " ") + " . " + cur.String() + ")"
}

// IsProperList walks the cdr chain; true iff terminated by Null. A
// cyclic pair graph makes this non-terminating — accepted per §9.
func IsProperList(v Value) bool {
	cur := v
	for cur.Kind == VPair {
		cur = cur.Pair.Cdr
	}
	return cur.Kind == VNull
}

// ListFromValues builds a right-nested Pair chain terminated by Null,
// as used by Quote's List conversion and the `list` primitive (§4.4).
func ListFromValues(vs []Value) Value {
	result := NullV
	for i := len(vs) - 1; i >= 0; i-- {
		result = PairV(vs[i], result)
	}
	return result
}

// SyntaxToValue converts a quoted Syntax datum to a Value by the
// structural mapping in §4.4's Quote rule.
func SyntaxToValue(s *Syntax) Value {
	switch s.Kind {
	case SynInteger:
		return IntegerV(s.Int)
	case SynRational:
		return normalizeRational(s.Numerator, s.Denominator)
	case SynString:
		return StringV(s.Str)
	case SynSymbol:
		return SymbolV(s.Str)
	case SynTrue:
		return BooleanV(true)
	case SynFalse:
		return BooleanV(false)
	case SynList:
		vs := make([]Value, len(s.Children))
		for i, c := range s.Children {
			vs[i] = SyntaxToValue(c)
		}
		return ListFromValues(vs)
	default:
		return NullV
	}
}
