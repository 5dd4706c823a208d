package parser

import (
	"strconv"

	"github.com/rendergo/jinja/lexer"
	"github.com/rendergo/jinja/nodes"
)

// parseExpression is the entry point for any `{{ ... }}` payload, a
// filter/test operand, a call argument, or a condition. It implements
// Jinja's precedence chain: ternary > or > and > not > comparisons >
// concat (~) > additive > multiplicative > unary > filter > postfix.
func (p *Parser) parseExpression() (nodes.Expr, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (nodes.Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.isName("if") {
		tok := p.stream.Next()
		test, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.isName("else") {
			p.stream.Next()
			alt, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			t := &nodes.Ternary{Test: test, TrueExpr: expr, FalseExpr: alt}
			t.Position = pos(tok)
			return t, nil
		}
		sel := &nodes.SelectExpression{Value: expr, Test: test}
		sel.Position = pos(tok)
		return sel, nil
	}
	return expr, nil
}

func (p *Parser) parseOr() (nodes.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isName("or") {
		tok := p.stream.Next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: "or"}, Left: left, Right: right}
		b.Position = pos(tok)
		left = b
	}
	return left, nil
}

func (p *Parser) parseAnd() (nodes.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isName("and") {
		tok := p.stream.Next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: "and"}, Left: left, Right: right}
		b.Position = pos(tok)
		left = b
	}
	return left, nil
}

func (p *Parser) parseNot() (nodes.Expr, error) {
	if p.isName("not") {
		tok := p.stream.Next()
		arg, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		u := &nodes.UnaryExpression{Operator: nodes.Operator{Value: "not"}, Argument: arg}
		u.Position = pos(tok)
		return u, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (p *Parser) parseComparison() (nodes.Expr, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.stream.Peek()
		if tok.Type == lexer.TokenOperator && comparisonOps[tok.Value] {
			p.stream.Next()
			right, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: tok.Value}, Left: left, Right: right}
			b.Position = pos(tok)
			left = b
			continue
		}
		if tok.Type == lexer.TokenName && (tok.Value == "in" || tok.Value == "is") {
			left, err = p.parseInOrIs(left, tok)
			if err != nil {
				return nil, err
			}
			continue
		}
		if tok.Type == lexer.TokenName && tok.Value == "not" {
			nxt := p.stream.PeekN(1)
			if nxt.Type == lexer.TokenName && nxt.Value == "in" {
				p.stream.Next()
				p.stream.Next()
				right, err := p.parseConcat()
				if err != nil {
					return nil, err
				}
				b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: "not in"}, Left: left, Right: right}
				b.Position = pos(tok)
				left = b
				continue
			}
		}
		break
	}
	return left, nil
}

// parseInOrIs handles `left in right` and `left is [not] name [args]`.
func (p *Parser) parseInOrIs(left nodes.Expr, tok lexer.Token) (nodes.Expr, error) {
	p.stream.Next()
	if tok.Value == "in" {
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: "in"}, Left: left, Right: right}
		b.Position = pos(tok)
		return b, nil
	}

	negate := false
	if p.isName("not") {
		p.stream.Next()
		negate = true
	}
	nameTok, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	var args []nodes.Node
	if p.isOp("(") {
		args, err = p.parseCallArgs()
		if err != nil {
			return nil, err
		}
	} else if startsExpression(p.stream.Peek()) {
		arg, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	t := &nodes.TestExpression{Operand: left, Name: nameTok.Value, Args: args, Negate: negate}
	t.Position = pos(tok)
	return t, nil
}

// startsExpression is a conservative check for whether the next token
// can begin a bare test argument (`is divisibleby 3`), without
// swallowing tokens that belong to an enclosing construct.
func startsExpression(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenString, lexer.TokenName:
		return !comparisonOps[tok.Value] && tok.Value != "and" && tok.Value != "or" &&
			tok.Value != "if" && tok.Value != "else" && tok.Value != "not" && tok.Value != "in"
	}
	return false
}

func (p *Parser) parseConcat() (nodes.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.isOp("~") {
		tok := p.stream.Next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: "~"}, Left: left, Right: right}
		b.Position = pos(tok)
		left = b
	}
	return left, nil
}

func (p *Parser) parseAdditive() (nodes.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		tok := p.stream.Next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: tok.Value}, Left: left, Right: right}
		b.Position = pos(tok)
		left = b
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (nodes.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") || p.isOp("//") || p.isOp("%") {
		tok := p.stream.Next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		b := &nodes.BinaryExpression{Operator: nodes.Operator{Value: tok.Value}, Left: left, Right: right}
		b.Position = pos(tok)
		left = b
	}
	return left, nil
}

func (p *Parser) parseUnary() (nodes.Expr, error) {
	if p.isOp("-") {
		tok := p.stream.Next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		u := &nodes.UnaryExpression{Operator: nodes.Operator{Value: "-"}, Argument: arg}
		u.Position = pos(tok)
		return u, nil
	}
	return p.parseFilter()
}

// parseFilter wraps the postfix expression in any chained `| name`
// filters, left-associatively: `a | b | c` is (a|b)|c.
func (p *Parser) parseFilter() (nodes.Expr, error) {
	expr, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.isOp("|") {
		tok := p.stream.Next()
		nameTok, err := p.expect(lexer.TokenName)
		if err != nil {
			return nil, err
		}
		var args []nodes.Node
		if p.isOp("(") {
			args, err = p.parseCallArgs()
			if err != nil {
				return nil, err
			}
		}
		f := &nodes.FilterExpression{Operand: expr, Name: nameTok.Value, Args: args}
		f.Position = pos(tok)
		expr = f
	}
	return expr, nil
}

// parsePostfix handles member access (`.name`, `[expr]`, slicing) and
// call application, chained left to right.
func (p *Parser) parsePostfix() (nodes.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if p.isOp(".") {
			tok := p.stream.Next()
			nameTok, err := p.expect(lexer.TokenName)
			if err != nil {
				return nil, err
			}
			prop := &nodes.Identifier{Name: nameTok.Value}
			prop.Position = pos(nameTok)
			m := &nodes.MemberExpression{Object: expr, Property: prop, Computed: false}
			m.Position = pos(tok)
			expr = m
			continue
		}
		if p.isOp("[") {
			next, err := p.parseSubscript(expr)
			if err != nil {
				return nil, err
			}
			expr = next
			continue
		}
		if p.isOp("(") {
			tok := p.stream.Peek()
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			c := &nodes.CallExpression{Callee: expr, Args: args}
			c.Position = pos(tok)
			expr = c
			continue
		}
		return expr, nil
	}
}

// parseSubscript parses `object[index]` or `object[start:stop:step]`
// once the leading `[` has been confirmed present.
func (p *Parser) parseSubscript(object nodes.Expr) (nodes.Expr, error) {
	tok, err := p.expect(lexer.TokenOperator) // "["
	if err != nil {
		return nil, err
	}

	var start, stop, step nodes.Expr
	if !p.isOp(":") && !p.isOp("]") {
		start, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	isSlice := p.isOp(":")
	if isSlice {
		p.stream.Next()
		if !p.isOp(":") && !p.isOp("]") {
			stop, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if p.isOp(":") {
			p.stream.Next()
			if !p.isOp("]") {
				step, err = p.parseExpression()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if _, err := p.expectOpTok("]"); err != nil {
		return nil, err
	}

	if isSlice {
		s := &nodes.SliceExpression{Object: object, Start: start, Stop: stop, Step: step}
		s.Position = pos(tok)
		return s, nil
	}
	m := &nodes.MemberExpression{Object: object, Property: start, Computed: true}
	m.Position = pos(tok)
	return m, nil
}

func (p *Parser) expectOpTok(op string) (lexer.Token, error) {
	tok := p.stream.Peek()
	if tok.Type != lexer.TokenOperator || tok.Value != op {
		return tok, p.failf("expected %q, got %s", op, tok)
	}
	return p.stream.Next(), nil
}

// parseCallArgs parses a parenthesized argument list, recognizing
// `name=value` keyword arguments and `*expr` spreads (spec.md's
// KeywordArgumentExpression / SpreadExpression nodes). Argument order
// is not checked here: a positional argument after a keyword argument
// is rejected by the evaluator. Filter/test argument lists reuse this
// too.
func (p *Parser) parseCallArgs() ([]nodes.Node, error) {
	if _, err := p.expectOpTok("("); err != nil {
		return nil, err
	}
	var args []nodes.Node
	for !p.isOp(")") {
		if len(args) > 0 {
			if _, err := p.expectOpTok(","); err != nil {
				return nil, err
			}
			if p.isOp(")") {
				break
			}
		}
		arg, err := p.parseCallArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expectOpTok(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseCallArg() (nodes.Node, error) {
	if p.isOp("*") {
		tok := p.stream.Next()
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		s := &nodes.SpreadExpression{Argument: arg}
		s.Position = pos(tok)
		return s, nil
	}
	if p.stream.Peek().Type == lexer.TokenName && p.stream.PeekN(1).Is(lexer.TokenOperator, "=") {
		nameTok := p.stream.Next()
		p.stream.Next() // "="
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		key := &nodes.Identifier{Name: nameTok.Value}
		key.Position = pos(nameTok)
		kw := &nodes.KeywordArgumentExpression{Key: key, Value: val}
		kw.Position = pos(nameTok)
		return kw, nil
	}
	return p.parseExpression()
}

// parsePrimary parses literals, identifiers, parenthesized/tuple
// expressions, array literals, and object literals.
func (p *Parser) parsePrimary() (nodes.Expr, error) {
	tok := p.stream.Peek()
	switch tok.Type {
	case lexer.TokenInt:
		p.stream.Next()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.failf("invalid integer literal %q", tok.Value)
		}
		n := &nodes.IntegerLiteral{Value: v}
		n.Position = pos(tok)
		return n, nil
	case lexer.TokenFloat:
		p.stream.Next()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.failf("invalid float literal %q", tok.Value)
		}
		n := &nodes.FloatLiteral{Value: v}
		n.Position = pos(tok)
		return n, nil
	case lexer.TokenString:
		p.stream.Next()
		n := &nodes.StringLiteral{Value: tok.Value}
		n.Position = pos(tok)
		return n, nil
	case lexer.TokenName:
		return p.parseNameOrKeyword()
	case lexer.TokenOperator:
		switch tok.Value {
		case "(":
			return p.parseParenOrTuple()
		case "[":
			return p.parseArrayLiteral()
		case "{":
			return p.parseObjectLiteral()
		}
	}
	return nil, p.failf("unexpected token %s in expression", tok)
}

var reservedWords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"if": true, "else": true,
}

func (p *Parser) parseNameOrKeyword() (nodes.Expr, error) {
	tok := p.stream.Next()
	switch tok.Value {
	case "true", "True":
		n := &nodes.Identifier{Name: "true"}
		n.Position = pos(tok)
		return n, nil
	case "false", "False":
		n := &nodes.Identifier{Name: "false"}
		n.Position = pos(tok)
		return n, nil
	case "none", "None":
		n := &nodes.Identifier{Name: "none"}
		n.Position = pos(tok)
		return n, nil
	}
	n := &nodes.Identifier{Name: tok.Value}
	n.Position = pos(tok)
	return n, nil
}

// parseParenOrTuple parses `(expr)` (a grouped expression) or
// `(a, b, ...)` (a TupleLiteral), disambiguating on whether a comma
// follows the first element.
func (p *Parser) parseParenOrTuple() (nodes.Expr, error) {
	tok, err := p.expectOpTok("(")
	if err != nil {
		return nil, err
	}
	if p.isOp(")") {
		p.stream.Next()
		t := &nodes.TupleLiteral{}
		t.Position = pos(tok)
		return t, nil
	}
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		if _, err := p.expectOpTok(")"); err != nil {
			return nil, err
		}
		return first, nil
	}
	values := []nodes.Node{first}
	for p.isOp(",") {
		p.stream.Next()
		if p.isOp(")") {
			break
		}
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if _, err := p.expectOpTok(")"); err != nil {
		return nil, err
	}
	t := &nodes.TupleLiteral{Values: values}
	t.Position = pos(tok)
	return t, nil
}

func (p *Parser) parseArrayLiteral() (nodes.Expr, error) {
	tok, err := p.expectOpTok("[")
	if err != nil {
		return nil, err
	}
	var values []nodes.Node
	for !p.isOp("]") {
		if len(values) > 0 {
			if _, err := p.expectOpTok(","); err != nil {
				return nil, err
			}
			if p.isOp("]") {
				break
			}
		}
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if _, err := p.expectOpTok("]"); err != nil {
		return nil, err
	}
	a := &nodes.ArrayLiteral{Values: values}
	a.Position = pos(tok)
	return a, nil
}

func (p *Parser) parseObjectLiteral() (nodes.Expr, error) {
	tok, err := p.expectOpTok("{")
	if err != nil {
		return nil, err
	}
	var keys, values []nodes.Node
	for !p.isOp("}") {
		if len(keys) > 0 {
			if _, err := p.expectOpTok(","); err != nil {
				return nil, err
			}
			if p.isOp("}") {
				break
			}
		}
		var key nodes.Node
		if p.stream.Peek().Type == lexer.TokenString {
			strTok := p.stream.Next()
			sl := &nodes.StringLiteral{Value: strTok.Value}
			sl.Position = pos(strTok)
			key = sl
		} else {
			nameTok, err := p.expect(lexer.TokenName)
			if err != nil {
				return nil, err
			}
			sl := &nodes.StringLiteral{Value: nameTok.Value}
			sl.Position = pos(nameTok)
			key = sl
		}
		if _, err := p.expectOpTok(":"); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, val)
	}
	if _, err := p.expectOpTok("}"); err != nil {
		return nil, err
	}
	o := &nodes.ObjectLiteral{Keys: keys, Values: values}
	o.Position = pos(tok)
	return o, nil
}
