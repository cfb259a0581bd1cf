package scheme

import "testing"

// evalString parses and evaluates a single top-level form against a
// fresh environment, grounded on the teacher's EvalString convenience
// wrapper (core/eval_test.go's testEval).
func evalString(t *testing.T, input string) (Value, error) {
	t.Helper()
	s, err := ReadOne(input)
	if err != nil {
		t.Fatalf("read %q: %v", input, err)
	}
	expr, err := Parse(s, nil)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	it := &Interpreter{Out: nullWriter{}}
	env := EmptyAssoc
	return it.Eval(expr, &env)
}

// evalProgram evaluates a sequence of top-level forms left to right
// against one shared environment, so later forms see earlier defines —
// the shape every multi-form scenario in §8 needs.
func evalProgram(t *testing.T, forms ...string) (Value, error) {
	t.Helper()
	it := &Interpreter{Out: nullWriter{}}
	env := EmptyAssoc
	var result Value
	for _, f := range forms {
		s, err := ReadOne(f)
		if err != nil {
			t.Fatalf("read %q: %v", f, err)
		}
		expr, err := Parse(s, nil)
		if err != nil {
			t.Fatalf("parse %q: %v", f, err)
		}
		result, err = it.Eval(expr, &env)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func testEval(t *testing.T, input string, expected Value) {
	t.Helper()
	got, err := evalString(t, input)
	if err != nil {
		t.Fatalf("eval %q: %v", input, err)
	}
	if !Eq(got, expected) && got.String() != expected.String() {
		t.Fatalf("eval %q: expected %s, got %s", input, expected.String(), got.String())
	}
}

func testEvalError(t *testing.T, input string) {
	t.Helper()
	_, err := evalString(t, input)
	if err == nil {
		t.Fatalf("expected error for %q", input)
	}
}

func testProgram(t *testing.T, expected Value, forms ...string) {
	t.Helper()
	got, err := evalProgram(t, forms...)
	if err != nil {
		t.Fatalf("eval %v: %v", forms, err)
	}
	if !Eq(got, expected) && got.String() != expected.String() {
		t.Fatalf("eval %v: expected %s, got %s", forms, expected.String(), got.String())
	}
}

// --- Rational arithmetic (§8 scenario 1) ---

func TestRationalArithmetic(t *testing.T) {
	testEval(t, "(+ 1/2 1/3)", RationalV(5, 6))
	testEval(t, "(+ 2 1/2)", RationalV(5, 2))
	testEval(t, "(- 1/2)", RationalV(-1, 2))
	testEval(t, "(/ 3 6)", RationalV(1, 2))
	testEval(t, "(/ -3 6)", RationalV(-1, 2))
}

func TestArithmeticCommutativity(t *testing.T) {
	testEval(t, "(= (+ 2 3) (+ 3 2))", BooleanV(true))
	testEval(t, "(= (* 2 3) (* 3 2))", BooleanV(true))
	testEval(t, "(= (+ 7 0) 7)", BooleanV(true))
	testEval(t, "(= (* 7 1) 7)", BooleanV(true))
	testEval(t, "(= (- 7 7) 0)", BooleanV(true))
	testEval(t, "(= (/ 7 7) 1)", BooleanV(true))
}

// --- expt / modulo (§8 scenarios 2, 3) ---

func TestExpt(t *testing.T) {
	testEval(t, "(expt 2 10)", IntegerV(1024))
	testEvalError(t, "(expt 0 0)")
	testEvalError(t, "(expt 2 -1)")
}

func TestModulo(t *testing.T) {
	testEval(t, "(modulo 10 3)", IntegerV(1))
	testEvalError(t, "(modulo 10 0)")
}

// --- Lambda application (§8 scenario 4) ---

func TestLambdaApplication(t *testing.T) {
	testEval(t, "((lambda (x) (+ x 1)) 41)", IntegerV(42))
	testEval(t, "((lambda (x y) (* x y)) 6 7)", IntegerV(42))
}

func TestLambdaWrongArity(t *testing.T) {
	testEvalError(t, "((lambda (x) x) 1 2)")
}

// --- Recursive define (§8 scenario 5) ---

func TestRecursiveFactorial(t *testing.T) {
	testProgram(t, IntegerV(120),
		`(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))`,
		`(fact 5)`,
	)
}

// --- let / set-car! (§8 scenario 6) ---

func TestLetAndSetCar(t *testing.T) {
	testEval(t, "(let ((x 1) (y 2)) (+ x y))", IntegerV(3))
	testEval(t, "(let ((p (cons 1 2))) (set-car! p 9) (car p))", IntegerV(9))
}

func TestLetSequentialBindingsDoNotSeeEachOther(t *testing.T) {
	// let bindings are evaluated against the outer env, not each other,
	// so a reference to a sibling binding name must resolve outward.
	testProgram(t, IntegerV(5),
		`(define x 5)`,
		`(let ((x 1) (y x)) y)`,
	)
}

// --- cond / else (§8 scenario 7) ---

func TestCond(t *testing.T) {
	testEval(t, `(cond ((= 1 2) 'a) ((= 2 2) 'b) (else 'c))`, SymbolV("b"))
	testEval(t, `(cond (else 'c))`, SymbolV("c"))
	testEval(t, `(cond ((= 1 2) 'a))`, VoidV)
}

// --- and / or (§8 scenario 8) ---

func TestAndOr(t *testing.T) {
	testEval(t, "(and 1 2 3)", IntegerV(3))
	testEval(t, "(and 1 #f 3)", BooleanV(false))
	testEval(t, "(or #f #f 7)", IntegerV(7))
	testEval(t, "(or)", BooleanV(false))
}

func TestAndShortCircuits(t *testing.T) {
	// if and didn't short-circuit, this would try to car an integer and
	// error instead of returning #f.
	testEval(t, "(and #f (car 5))", BooleanV(false))
}

func TestOrShortCircuits(t *testing.T) {
	testEval(t, "(or 1 (car 5))", IntegerV(1))
}

// --- car/cdr/cons/list?/null? (§8 laws) ---

func TestPairOperations(t *testing.T) {
	testEval(t, "(car (cons 1 2))", IntegerV(1))
	testEval(t, "(cdr (cons 1 2))", IntegerV(2))
	testEval(t, "(list? (list 1 2 3))", BooleanV(true))
	testEval(t, "(null? (list))", BooleanV(true))
}

// --- quote structural identity ---

func TestQuote(t *testing.T) {
	testEval(t, "(quote 42)", IntegerV(42))
	testEval(t, `(quote "hi")`, StringV("hi"))
	testEval(t, "(quote foo)", SymbolV("foo"))
	testEval(t, "(quote (1 2 3))", ListFromValues([]Value{IntegerV(1), IntegerV(2), IntegerV(3)}))
	testEval(t, "(quote #t)", BooleanV(true))
}

// --- eq? reflexivity (§8 invariants) ---

func TestEqReflexive(t *testing.T) {
	testEval(t, "(eq? 5 5)", BooleanV(true))
	testEval(t, "(eq? #t #t)", BooleanV(true))
	testEval(t, "(eq? (list) (list))", BooleanV(true))
	testEval(t, "(let ((p (cons 1 2))) (eq? p p))", BooleanV(true))
}

// --- letrec mutual recursion (§8 laws) ---

func TestLetrecMutualRecursion(t *testing.T) {
	testEval(t, `(letrec ((even? (lambda (n) (if (= n 0) #t (odd? (- n 1)))))
                          (odd? (lambda (n) (if (= n 0) #f (even? (- n 1))))))
                   (even? 10))`, BooleanV(true))
}

// --- top-level recursive/mutually-recursive define (§4.4) ---

func TestTopLevelDefineSelfRecursion(t *testing.T) {
	testProgram(t, IntegerV(120),
		`(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))`,
		`(fact 5)`,
	)
}

func TestTopLevelDefineMutualRecursion(t *testing.T) {
	testProgram(t, BooleanV(true),
		`(define (even? n) (if (= n 0) #t (odd? (- n 1))))`,
		`(define (odd? n) (if (= n 0) #f (even? (- n 1))))`,
		`(even? 10)`,
	)
}

// --- comparison total order (§8 invariant) ---

func TestComparisonTotalOrder(t *testing.T) {
	testEval(t, "(< 1 2)", BooleanV(true))
	testEval(t, "(> 2 1)", BooleanV(true))
	testEval(t, "(= 2 2)", BooleanV(true))
	testEval(t, "(and (<= 2 3) (<= 3 2))", BooleanV(false))
	testEval(t, "(= 2 3)", BooleanV(false))
}

// --- set! requires a prior binding ---

func TestSetRequiresBinding(t *testing.T) {
	testProgram(t, IntegerV(9),
		`(define x 1)`,
		`(set! x 9)`,
		`x`,
	)
	testEvalError(t, "(set! never-defined 1)")
}

// --- define rejects primitive/reserved names ---

func TestDefineRejectsReservedNames(t *testing.T) {
	testEvalError(t, "(define if 1)")
	testEvalError(t, "(define + 1)")
}

// --- primitive-reification bridge (§4.4, §9) ---

func TestPrimitiveAsFirstClassValue(t *testing.T) {
	testProgram(t, IntegerV(6),
		`(define (apply-binary f a b) (f a b))`,
		`(apply-binary + 2 4)`,
	)
}

// --- number? matches the original's Integer-only IsFixnum check ---

func TestNumberPredicateIsIntegerOnly(t *testing.T) {
	testEval(t, "(number? 5)", BooleanV(true))
	testEval(t, "(number? 1/2)", BooleanV(false))
}

func TestDisplayReturnsVoid(t *testing.T) {
	testEval(t, `(display "x")`, VoidV)
}

func TestExitReturnsTerminate(t *testing.T) {
	testEval(t, "(exit)", TerminateV)
}
