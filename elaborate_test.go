package scheme

import "testing"

func parseString(t *testing.T, input string) *Expr {
	t.Helper()
	s, err := ReadOne(input)
	if err != nil {
		t.Fatalf("ReadOne(%q): %v", input, err)
	}
	e, err := Parse(s, nil)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return e
}

func TestParseEmptyListIsQuotedNull(t *testing.T) {
	e := parseString(t, "()")
	if e.Kind != EQuote || e.Syntax.Kind != SynList || len(e.Syntax.Children) != 0 {
		t.Fatalf("expected EQuote of an empty list, got kind %d", e.Kind)
	}
}

func TestParsePrimitiveBinaryVsVariadic(t *testing.T) {
	if e := parseString(t, "(+ 1 2)"); e.Kind != EPlus2 {
		t.Errorf("(+ 1 2) should parse to EPlus2, got %d", e.Kind)
	}
	if e := parseString(t, "(+ 1 2 3)"); e.Kind != EPlusVar {
		t.Errorf("(+ 1 2 3) should parse to EPlusVar, got %d", e.Kind)
	}
}

func TestParsePrimitiveArityError(t *testing.T) {
	_, err := Parse(mustRead(t, "(car)"), nil)
	if err == nil {
		t.Fatalf("expected arity error for (car)")
	}
	_, err = Parse(mustRead(t, "(cons 1)"), nil)
	if err == nil {
		t.Fatalf("expected arity error for (cons 1)")
	}
}

func mustRead(t *testing.T, input string) *Syntax {
	t.Helper()
	s, err := ReadOne(input)
	if err != nil {
		t.Fatalf("ReadOne(%q): %v", input, err)
	}
	return s
}

func TestParseReservedWordDispatch(t *testing.T) {
	if e := parseString(t, "(if #t 1 2)"); e.Kind != EIf {
		t.Errorf("expected EIf, got %d", e.Kind)
	}
	if e := parseString(t, "(lambda (x) x)"); e.Kind != ELambda {
		t.Errorf("expected ELambda, got %d", e.Kind)
	}
	if e := parseString(t, "(let ((x 1)) x)"); e.Kind != ELet {
		t.Errorf("expected ELet, got %d", e.Kind)
	}
	if e := parseString(t, "(letrec ((x 1)) x)"); e.Kind != ELetrec {
		t.Errorf("expected ELetrec, got %d", e.Kind)
	}
}

func TestParseDefineFunctionShorthand(t *testing.T) {
	e := parseString(t, "(define (f x y) (+ x y))")
	if e.Kind != EDefine || e.Str != "f" {
		t.Fatalf("expected EDefine \"f\", got kind %d name %q", e.Kind, e.Str)
	}
	if e.A.Kind != ELambda || len(e.A.Params) != 2 {
		t.Fatalf("expected a 2-param lambda body, got kind %d params %v", e.A.Kind, e.A.Params)
	}
}

func TestParseFreeVariableHeadIsApply(t *testing.T) {
	e := parseString(t, "(my-func 1 2)")
	if e.Kind != EApply {
		t.Fatalf("expected EApply for an unrecognized head symbol, got %d", e.Kind)
	}
}

func TestParseBoundNameShadowsPrimitive(t *testing.T) {
	env := extendParseEnv([]string{"+"}, nil)
	s := mustRead(t, "(+ 1 2)")
	e, err := Parse(s, env)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if e.Kind != EApply {
		t.Fatalf("a locally bound name shadowing + should parse to EApply, got %d", e.Kind)
	}
}

func TestParseQuoteArity(t *testing.T) {
	_, err := Parse(mustRead(t, "(quote)"), nil)
	if err == nil {
		t.Fatalf("expected arity error for (quote)")
	}
	_, err = Parse(mustRead(t, "(quote a b)"), nil)
	if err == nil {
		t.Fatalf("expected arity error for (quote a b)")
	}
}

func TestParseCondClauseShape(t *testing.T) {
	e := parseString(t, "(cond ((= 1 1) 'a) (else 'b))")
	if e.Kind != ECond || len(e.Clauses) != 2 {
		t.Fatalf("expected ECond with 2 clauses, got kind %d, %d clauses", e.Kind, len(e.Clauses))
	}
	if e.Clauses[1].Test.Kind != EVar || e.Clauses[1].Test.Str != "else" {
		t.Fatalf("expected second clause test to be Var(else)")
	}
}
