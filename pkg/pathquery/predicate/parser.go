package predicate

import "strconv"

// Node is one node of a compiled expression tree. The concrete types are
// Literal, Path, Not and Binary.
type Node interface {
	isNode()
}

// Literal is a constant operand: a number, a string, a bool or nil.
type Literal struct {
	Value any
}

// StepKind discriminates the two candidate sub-path step forms.
type StepKind int

const (
	// StepName descends into a mapping by key.
	StepName StepKind = iota
	// StepIndex descends into a sequence by position.
	StepIndex
)

// Step is one step of a candidate sub-path.
type Step struct {
	Kind  StepKind
	Name  string
	Index int
}

// Path is a candidate reference: `@` followed by zero or more steps.
type Path struct {
	Steps []Step
}

// Not negates the truthiness of its operand.
type Not struct {
	Operand Node
}

// Op is a comparison or connective operator.
type Op int

const (
	OpOr Op = iota
	OpAnd
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

func (o Op) String() string {
	switch o {
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "unknown"
	}
}

// Binary applies an operator to two operands.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (Literal) isNode() {}
func (Path) isNode()    {}
func (Not) isNode()     {}
func (Binary) isNode()  {}

type parserState struct {
	tokens []token
	pos    int
}

// current never runs past the tokenEOF sentinel the lexer appends.
func (p *parserState) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func parse(input string) (Node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	state := parserState{tokens: tokens}
	if state.current().typ == tokenEOF {
		return nil, predicateError("expression is empty")
	}

	root, err := state.parseExpression()
	if err != nil {
		return nil, err
	}

	if token := state.current(); token.typ != tokenEOF {
		return nil, predicateError("unexpected token at position %d", token.pos)
	}

	return root, nil
}

func (p *parserState) parseExpression() (Node, error) {
	return p.parseOr()
}

func (p *parserState) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parserState) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpAnd, Left: left, Right: right}
	}

	return left, nil
}

// parseNot binds looser than comparisons, so `not @.a == 1` negates the
// whole comparison.
func (p *parserState) parseNot() (Node, error) {
	if p.current().typ == tokenNot {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return Not{Operand: right}, nil
	}

	return p.parseComparison()
}

func (p *parserState) parseComparison() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := comparisonOp(p.current().typ)
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

func comparisonOp(typ tokenType) (Op, bool) {
	switch typ {
	case tokenEqual:
		return OpEqual, true
	case tokenNotEqual:
		return OpNotEqual, true
	case tokenLess:
		return OpLess, true
	case tokenLessEqual:
		return OpLessEqual, true
	case tokenGreater:
		return OpGreater, true
	case tokenGreaterEqual:
		return OpGreaterEqual, true
	default:
		return 0, false
	}
}

func (p *parserState) parsePrimary() (Node, error) {
	tok := p.current()
	switch tok.typ {
	case tokenAt:
		p.advance()
		return p.parseCandidatePath()
	case tokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.literal, 64)
		if err != nil {
			return nil, predicateError("invalid number literal %q at position %d", tok.literal, tok.pos)
		}
		return Literal{Value: value}, nil
	case tokenString:
		p.advance()
		return Literal{Value: tok.literal}, nil
	case tokenTrue:
		p.advance()
		return Literal{Value: true}, nil
	case tokenFalse:
		p.advance()
		return Literal{Value: false}, nil
	case tokenNull:
		p.advance()
		return Literal{Value: nil}, nil
	case tokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current().typ != tokenRParen {
			return nil, predicateError("missing closing ')' at position %d", p.current().pos)
		}
		p.advance()
		return expr, nil
	case tokenIdentifier:
		return nil, predicateError("unexpected identifier %q at position %d (candidate fields are referenced as @.%s)", tok.literal, tok.pos, tok.literal)
	default:
		return nil, predicateError("unexpected token at position %d", tok.pos)
	}
}

// parseCandidatePath parses the steps following `@`: `.name`, `['name']`,
// `["name"]` or `[index]`. Keys that collide with keywords must use the
// bracket form.
func (p *parserState) parseCandidatePath() (Node, error) {
	var steps []Step

	for {
		switch p.current().typ {
		case tokenDot:
			p.advance()
			tok := p.current()
			if tok.typ != tokenIdentifier {
				return nil, predicateError("expected field name at position %d", tok.pos)
			}
			p.advance()
			steps = append(steps, Step{Kind: StepName, Name: tok.literal})
		case tokenLBracket:
			p.advance()
			tok := p.current()
			switch tok.typ {
			case tokenString:
				p.advance()
				steps = append(steps, Step{Kind: StepName, Name: tok.literal})
			case tokenNumber:
				p.advance()
				index, err := strconv.Atoi(tok.literal)
				if err != nil {
					return nil, predicateError("index %q at position %d is not an integer", tok.literal, tok.pos)
				}
				steps = append(steps, Step{Kind: StepIndex, Index: index})
			default:
				return nil, predicateError("expected quoted name or index at position %d", tok.pos)
			}
			if p.current().typ != tokenRBracket {
				return nil, predicateError("missing closing ']' at position %d", p.current().pos)
			}
			p.advance()
		default:
			return Path{Steps: steps}, nil
		}
	}
}
