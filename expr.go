package scheme

// ExprKind tags the variants of the Expr sum (§3): the static tree the
// parser/elaborator produces and the evaluator walks. Once built, an
// Expr requires no further symbol-table lookups to know what kind of
// node it is — only Var nodes touch the environment.
type ExprKind int

const (
	EFixnum ExprKind = iota
	ERationalNum
	EStringLit
	ETrue
	EFalse
	EVoidLit
	EExitLit
	EVar

	EPlus2
	EPlusVar
	EMinus2
	EMinusVar
	EMult2
	EMultVar
	EDiv2
	EDivVar
	EModulo
	EExpt

	ELess2
	ELessVar
	ELessEq2
	ELessEqVar
	EEqual2
	EEqualVar
	EGreaterEq2
	EGreaterEqVar
	EGreater2
	EGreaterVar

	ECons
	ECar
	ECdr
	ESetCar
	ESetCdr
	EListFunc
	EIsList
	EIsPair
	EIsNull

	EIsEq
	EIsBoolean
	EIsNumber
	EIsProcedure
	EIsSymbol
	EIsString

	ENot
	EAndVar
	EOrVar

	EIf
	ECond
	EBegin
	EQuote
	EDisplay

	ELambda
	EApply
	EDefine
	ELet
	ELetrec
	ESet
)

// Binding is one (name, expr) pair of a let/letrec binding list.
type Binding struct {
	Name string
	Expr *Expr
}

// CondClause is one `(test body...)` clause of a Cond node. Test is
// never nil and an `else` clause is not special-cased here: the parser
// always parses the head as an ordinary expression, and `else` is
// recognized at eval time by checking whether Test is Var("else")
// (§4.1, §4.4).
type CondClause struct {
	Test *Expr
	Body []*Expr
}

// Expr is the tagged-union expression node. Only the field(s) that
// Kind's comment documents are meaningful for that variant.
type Expr struct {
	Kind ExprKind

	Int int64 // EFixnum
	Num int64 // ERationalNum numerator
	Den int64 // ERationalNum denominator
	Str string // EStringLit, EVar, EDefine name, ESet name

	A *Expr // unary operand / binary left / If-condition
	B *Expr // binary right / If-consequent
	C *Expr // If-alternate

	Args []*Expr // variadic arithmetic/comparison, EListFunc, EAndVar, EOrVar, EApply args, EBegin exprs

	Syntax *Syntax // EQuote

	Params []string // ELambda params
	Body   *Expr    // ELambda body

	Bindings []Binding // ELet, ELetrec

	Clauses []CondClause // ECond

	Fn *Expr // EApply callee
}
