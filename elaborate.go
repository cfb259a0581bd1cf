package scheme

// ParseEnv carries only the set of names considered locally bound
// (§4.1) — enough to decide whether a head symbol shadows a primitive
// or reserved word, never the values themselves.
type ParseEnv struct {
	bound map[string]bool
	next  *ParseEnv
}

func (p *ParseEnv) has(name string) bool {
	for e := p; e != nil; e = e.next {
		if e.bound[name] {
			return true
		}
	}
	return false
}

// extendParseEnv is unused by Parse itself (§4.1/§9: the parser does
// not pre-extend env into lambda/let/letrec/define bodies — shadowing
// of primitives by inner binders is resolved at eval time through the
// Var fallback instead). It is kept for parity with Assoc's Extend
// and for seeding a non-empty starting ParseEnv inside this package
// (the parser tests use it that way).
func extendParseEnv(names []string, outer *ParseEnv) *ParseEnv {
	bound := make(map[string]bool, len(names))
	for _, n := range names {
		bound[n] = true
	}
	return &ParseEnv{bound: bound, next: outer}
}

// Parse rewrites a Syntax tree into an Expr tree (§4.1). env carries
// the set of names considered locally bound; a bound identifier
// shadows a primitive or reserved word even at parse time.
func Parse(s *Syntax, env *ParseEnv) (*Expr, error) {
	switch s.Kind {
	case SynInteger:
		return &Expr{Kind: EFixnum, Int: s.Int}, nil
	case SynRational:
		v := normalizeRational(s.Numerator, s.Denominator)
		if v.Kind == VInteger {
			return &Expr{Kind: EFixnum, Int: v.Int}, nil
		}
		return &Expr{Kind: ERationalNum, Num: v.Int, Den: v.Den}, nil
	case SynString:
		return &Expr{Kind: EStringLit, Str: s.Str}, nil
	case SynSymbol:
		return parseSymbolHead(s.Str, env)
	case SynTrue:
		return &Expr{Kind: ETrue}, nil
	case SynFalse:
		return &Expr{Kind: EFalse}, nil
	case SynList:
		return parseList(s, env)
	default:
		return nil, errf("unknown syntax kind")
	}
}

// parseSymbolHead parses a bare symbol appearing outside head
// position: always a Var reference (rule 6's free-variable case, or a
// locally bound name — both resolve the same way at parse time).
func parseSymbolHead(name string, env *ParseEnv) (*Expr, error) {
	return &Expr{Kind: EVar, Str: name}, nil
}

func parseAll(items []*Syntax, env *ParseEnv) ([]*Expr, error) {
	out := make([]*Expr, len(items))
	for i, it := range items {
		e, err := Parse(it, env)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func parseList(s *Syntax, env *ParseEnv) (*Expr, error) {
	children := s.Children

	// Rule 1: empty list is the empty-list datum.
	if len(children) == 0 {
		return &Expr{Kind: EQuote, Syntax: ListSyntax(nil)}, nil
	}

	head := children[0]
	rest := children[1:]

	// Rule 2: non-symbol head is always an application.
	if head.Kind != SynSymbol {
		return parseApply(head, rest, env)
	}

	name := head.Str

	// Rule 3: a bound variable shadows everything, including
	// primitives and reserved words.
	if env.has(name) {
		return parseApply(head, rest, env)
	}

	// Rule 4: primitive dispatch.
	if kind, ok := Primitives[name]; ok {
		return parsePrimitive(name, kind, rest, env)
	}

	// Rule 5: reserved-word dispatch.
	if kind, ok := ReservedWords[name]; ok {
		return parseReserved(name, kind, children, env)
	}

	// Rule 6: free variable, deferred to runtime.
	return parseApply(head, rest, env)
}

func parseApply(head *Syntax, args []*Syntax, env *ParseEnv) (*Expr, error) {
	fn, err := Parse(head, env)
	if err != nil {
		return nil, err
	}
	argExprs, err := parseAll(args, env)
	if err != nil {
		return nil, err
	}
	return &Expr{Kind: EApply, Fn: fn, Args: argExprs}, nil
}

func parsePrimitive(name string, kind PrimitiveKind, args []*Syntax, env *ParseEnv) (*Expr, error) {
	ar := primitiveArity[kind]
	n := len(args)
	if n < ar.min || (ar.max >= 0 && n > ar.max) {
		return nil, errf("Wrong number of arguments for %s", name)
	}

	argExprs, err := parseAll(args, env)
	if err != nil {
		return nil, err
	}

	binary := func(k2, kvar ExprKind) *Expr {
		if len(argExprs) == 2 {
			return &Expr{Kind: k2, A: argExprs[0], B: argExprs[1]}
		}
		return &Expr{Kind: kvar, Args: argExprs}
	}

	switch kind {
	case PPlus:
		return binary(EPlus2, EPlusVar), nil
	case PMinus:
		return binary(EMinus2, EMinusVar), nil
	case PMult:
		return binary(EMult2, EMultVar), nil
	case PDiv:
		return binary(EDiv2, EDivVar), nil
	case PModulo:
		return &Expr{Kind: EModulo, A: argExprs[0], B: argExprs[1]}, nil
	case PExpt:
		return &Expr{Kind: EExpt, A: argExprs[0], B: argExprs[1]}, nil
	case PLess:
		return binary(ELess2, ELessVar), nil
	case PLessEq:
		return binary(ELessEq2, ELessEqVar), nil
	case PEqual:
		return binary(EEqual2, EEqualVar), nil
	case PGreaterEq:
		return binary(EGreaterEq2, EGreaterEqVar), nil
	case PGreater:
		return binary(EGreater2, EGreaterVar), nil
	case PCons:
		return &Expr{Kind: ECons, A: argExprs[0], B: argExprs[1]}, nil
	case PCar:
		return &Expr{Kind: ECar, A: argExprs[0]}, nil
	case PCdr:
		return &Expr{Kind: ECdr, A: argExprs[0]}, nil
	case PList:
		return &Expr{Kind: EListFunc, Args: argExprs}, nil
	case PSetCar:
		return &Expr{Kind: ESetCar, A: argExprs[0], B: argExprs[1]}, nil
	case PSetCdr:
		return &Expr{Kind: ESetCdr, A: argExprs[0], B: argExprs[1]}, nil
	case PNot:
		return &Expr{Kind: ENot, A: argExprs[0]}, nil
	case PEq:
		return &Expr{Kind: EIsEq, A: argExprs[0], B: argExprs[1]}, nil
	case PBoolean:
		return &Expr{Kind: EIsBoolean, A: argExprs[0]}, nil
	case PNumber:
		return &Expr{Kind: EIsNumber, A: argExprs[0]}, nil
	case PNull:
		return &Expr{Kind: EIsNull, A: argExprs[0]}, nil
	case PPair:
		return &Expr{Kind: EIsPair, A: argExprs[0]}, nil
	case PProcedure:
		return &Expr{Kind: EIsProcedure, A: argExprs[0]}, nil
	case PSymbol:
		return &Expr{Kind: EIsSymbol, A: argExprs[0]}, nil
	case PListQ:
		return &Expr{Kind: EIsList, A: argExprs[0]}, nil
	case PString:
		return &Expr{Kind: EIsString, A: argExprs[0]}, nil
	case PVoid:
		return &Expr{Kind: EVoidLit}, nil
	case PExit:
		return &Expr{Kind: EExitLit}, nil
	case PDisplay:
		return &Expr{Kind: EDisplay, A: argExprs[0]}, nil
	default:
		return nil, errf("Unknown primitive: %s", name)
	}
}

func wrapBegin(exprs []*Expr) *Expr {
	return &Expr{Kind: EBegin, Args: exprs}
}

func parseReserved(name string, kind ReservedKind, children []*Syntax, env *ParseEnv) (*Expr, error) {
	args := children[1:]
	switch kind {
	case RBegin:
		body, err := parseAll(args, env)
		if err != nil {
			return nil, err
		}
		return wrapBegin(body), nil

	case RQuote:
		if len(children) != 2 {
			return nil, errf("Wrong number of arguments for quote")
		}
		return &Expr{Kind: EQuote, Syntax: args[0]}, nil

	case RIf:
		if len(children) != 4 {
			return nil, errf("Wrong number of arguments for if")
		}
		cond, err := Parse(args[0], env)
		if err != nil {
			return nil, err
		}
		conseq, err := Parse(args[1], env)
		if err != nil {
			return nil, err
		}
		alt, err := Parse(args[2], env)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: EIf, A: cond, B: conseq, C: alt}, nil

	case RCond:
		clauses := make([]CondClause, len(args))
		for i, clauseSyn := range args {
			if clauseSyn.Kind != SynList || len(clauseSyn.Children) == 0 {
				return nil, errf("cond clause must be a non-empty list")
			}
			test, err := Parse(clauseSyn.Children[0], env)
			if err != nil {
				return nil, err
			}
			body, err := parseAll(clauseSyn.Children[1:], env)
			if err != nil {
				return nil, err
			}
			clauses[i] = CondClause{Test: test, Body: body}
		}
		return &Expr{Kind: ECond, Clauses: clauses}, nil

	case RLambda:
		if len(children) < 3 {
			return nil, errf("Wrong number of arguments for lambda")
		}
		if args[0].Kind != SynList {
			return nil, errf("lambda parameters must be a list")
		}
		params := make([]string, len(args[0].Children))
		for i, p := range args[0].Children {
			if p.Kind != SynSymbol {
				return nil, errf("lambda parameter must be a symbol")
			}
			params[i] = p.Str
		}
		body, err := parseAll(args[1:], env)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ELambda, Params: params, Body: wrapBegin(body)}, nil

	case RDefine:
		if len(children) < 3 {
			return nil, errf("Wrong number of arguments for define")
		}
		if args[0].Kind == SynSymbol {
			body, err := parseAll(args[1:], env)
			if err != nil {
				return nil, err
			}
			return &Expr{Kind: EDefine, Str: args[0].Str, A: wrapBegin(body)}, nil
		}
		if args[0].Kind != SynList || len(args[0].Children) == 0 {
			return nil, errf("Invalid define syntax")
		}
		funcDef := args[0].Children
		if funcDef[0].Kind != SynSymbol {
			return nil, errf("Function name must be a symbol")
		}
		params := make([]string, len(funcDef)-1)
		for i, p := range funcDef[1:] {
			if p.Kind != SynSymbol {
				return nil, errf("Function parameter must be a symbol")
			}
			params[i] = p.Str
		}
		body, err := parseAll(args[1:], env)
		if err != nil {
			return nil, err
		}
		lambda := &Expr{Kind: ELambda, Params: params, Body: wrapBegin(body)}
		return &Expr{Kind: EDefine, Str: funcDef[0].Str, A: lambda}, nil

	case RLet, RLetrec:
		if len(children) < 3 {
			return nil, errf("Wrong number of arguments for let/letrec")
		}
		if args[0].Kind != SynList {
			return nil, errf("let binding list must be a list")
		}
		bindings := make([]Binding, len(args[0].Children))
		for i, b := range args[0].Children {
			if b.Kind != SynList || len(b.Children) != 2 {
				return nil, errf("let binding must be a pair")
			}
			if b.Children[0].Kind != SynSymbol {
				return nil, errf("let variable must be a symbol")
			}
			rhs, err := Parse(b.Children[1], env)
			if err != nil {
				return nil, err
			}
			bindings[i] = Binding{Name: b.Children[0].Str, Expr: rhs}
		}
		body, err := parseAll(args[1:], env)
		if err != nil {
			return nil, err
		}
		k := ELet
		if kind == RLetrec {
			k = ELetrec
		}
		return &Expr{Kind: k, Bindings: bindings, Body: wrapBegin(body)}, nil

	case RSet:
		if len(children) != 3 {
			return nil, errf("Wrong number of arguments for set!")
		}
		if args[0].Kind != SynSymbol {
			return nil, errf("set! variable must be a symbol")
		}
		rhs, err := Parse(args[1], env)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ESet, Str: args[0].Str, A: rhs}, nil

	case RAnd:
		body, err := parseAll(args, env)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: EAndVar, Args: body}, nil

	case ROr:
		body, err := parseAll(args, env)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: EOrVar, Args: body}, nil

	default:
		return nil, errf("Unknown reserved word: %s", name)
	}
}
