package parser

import (
	"github.com/rendergo/jinja/lexer"
	"github.com/rendergo/jinja/nodes"
)

// parseStatement parses one `{% ... %}` tag. The caller has already
// peeked the BlockStart and confirmed the next token is a statement
// keyword (not an end tag).
func (p *Parser) parseStatement() (nodes.Node, error) {
	startTok, err := p.expect(lexer.TokenBlockStart)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}

	switch nameTok.Value {
	case "if":
		return p.parseIf(startTok)
	case "for":
		return p.parseFor(startTok)
	case "set":
		return p.parseSet(startTok)
	case "macro":
		return p.parseMacro(startTok)
	case "call":
		return p.parseCallBlock(startTok)
	case "filter":
		return p.parseFilterBlock(startTok)
	case "break":
		if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
			return nil, err
		}
		b := &nodes.Break{}
		b.Position = pos(startTok)
		return b, nil
	case "continue":
		if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
			return nil, err
		}
		c := &nodes.Continue{}
		c.Position = pos(startTok)
		return c, nil
	default:
		return nil, p.failf("unknown tag %q", nameTok.Value)
	}
}

func (p *Parser) parseIf(startTok lexer.Token) (nodes.Node, error) {
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	alt, err := p.parseIfTail()
	if err != nil {
		return nil, err
	}
	ifNode := &nodes.If{Test: test, Body: body, Alternate: alt}
	ifNode.Position = pos(startTok)
	return ifNode, nil
}

// parseIfTail consumes `{% elif ... %}` / `{% else %}` / `{% endif %}`,
// recursing for elif so it nests as Alternate = []Node{*If}.
func (p *Parser) parseIfTail() ([]nodes.Node, error) {
	tok := p.stream.Peek()
	nameTok := p.stream.PeekN(1)
	if tok.Type != lexer.TokenBlockStart || nameTok.Type != lexer.TokenName {
		return nil, p.failf("expected elif/else/endif")
	}
	switch nameTok.Value {
	case "elif":
		elifStart := p.stream.Next() // BlockStart
		p.stream.Next()              // "elif"
		nested, err := p.parseIf(elifStart)
		if err != nil {
			return nil, err
		}
		return []nodes.Node{nested}, nil
	case "else":
		p.stream.Next() // BlockStart
		p.stream.Next() // "else"
		if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
			return nil, err
		}
		body, err := p.parseUntil()
		if err != nil {
			return nil, err
		}
		if err := p.consumeEndTag("endif"); err != nil {
			return nil, err
		}
		return body, nil
	case "endif":
		if err := p.consumeEndTag("endif"); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, p.failf("expected elif/else/endif, got %q", nameTok.Value)
	}
}

// consumeEndTag consumes a `{% end... %}` tag whose keyword was
// already peeked (not consumed) as name.
func (p *Parser) consumeEndTag(name string) error {
	if _, err := p.expect(lexer.TokenBlockStart); err != nil {
		return err
	}
	if err := p.expectName(name); err != nil {
		return err
	}
	_, err := p.expect(lexer.TokenBlockEnd)
	return err
}

func (p *Parser) parseFor(startTok lexer.Token) (nodes.Node, error) {
	loopVar, err := p.parseLoopTarget()
	if err != nil {
		return nil, err
	}
	if err := p.expectName("in"); err != nil {
		return nil, err
	}
	iterable, err := p.parseOr() // "if" here is a select filter, not ternary
	if err != nil {
		return nil, err
	}
	if p.isName("if") {
		tok := p.stream.Next()
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		sel := &nodes.SelectExpression{Value: iterable, Test: cond}
		sel.Position = pos(tok)
		iterable = sel
	}
	if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseUntil()
	if err != nil {
		return nil, err
	}

	var defaultBlock []nodes.Node
	nameTok := p.stream.PeekN(1)
	if nameTok.Type == lexer.TokenName && nameTok.Value == "else" {
		p.stream.Next() // BlockStart
		p.stream.Next() // "else"
		if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
			return nil, err
		}
		defaultBlock, err = p.parseUntil()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consumeEndTag("endfor"); err != nil {
		return nil, err
	}

	f := &nodes.For{LoopVar: loopVar, Iterable: iterable, Body: body, DefaultBlock: defaultBlock}
	f.Position = pos(startTok)
	return f, nil
}

// parseLoopTarget parses `name`, `a, b` or `(a, b)` as a For/Set
// assignee; the two tuple forms become a TupleLiteral.
func (p *Parser) parseLoopTarget() (nodes.Node, error) {
	if p.isOp("(") {
		tok := p.stream.Next()
		var values []nodes.Node
		for !p.isOp(")") {
			if len(values) > 0 {
				if _, err := p.expectOpTok(","); err != nil {
					return nil, err
				}
			}
			nameTok, err := p.expect(lexer.TokenName)
			if err != nil {
				return nil, err
			}
			id := &nodes.Identifier{Name: nameTok.Value}
			id.Position = pos(nameTok)
			values = append(values, id)
		}
		if _, err := p.expectOpTok(")"); err != nil {
			return nil, err
		}
		t := &nodes.TupleLiteral{Values: values}
		t.Position = pos(tok)
		return t, nil
	}
	nameTok, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	id := &nodes.Identifier{Name: nameTok.Value}
	id.Position = pos(nameTok)
	if !p.isOp(",") {
		return id, nil
	}
	values := []nodes.Node{id}
	for p.isOp(",") {
		p.stream.Next()
		nextTok, err := p.expect(lexer.TokenName)
		if err != nil {
			return nil, err
		}
		next := &nodes.Identifier{Name: nextTok.Value}
		next.Position = pos(nextTok)
		values = append(values, next)
	}
	t := &nodes.TupleLiteral{Values: values}
	t.Position = pos(nameTok)
	return t, nil
}

func (p *Parser) parseSet(startTok lexer.Token) (nodes.Node, error) {
	assignee, err := p.parseSetAssignee()
	if err != nil {
		return nil, err
	}
	if p.isOp("=") {
		p.stream.Next()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
			return nil, err
		}
		s := &nodes.SetStatement{Assignee: assignee, Value: value}
		s.Position = pos(startTok)
		return s, nil
	}
	// Block form: {% set x %} ... {% endset %}
	if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if err := p.consumeEndTag("endset"); err != nil {
		return nil, err
	}
	s := &nodes.SetStatement{Assignee: assignee, Body: body}
	s.Position = pos(startTok)
	return s, nil
}

// parseSetAssignee parses an Identifier, a tuple-destructuring target,
// or a member-expression target (`ns.attr = value`).
func (p *Parser) parseSetAssignee() (nodes.Node, error) {
	if p.isOp("(") || p.stream.PeekN(1).Is(lexer.TokenOperator, ",") {
		return p.parseLoopTarget()
	}
	nameTok, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	var target nodes.Node
	id := &nodes.Identifier{Name: nameTok.Value}
	id.Position = pos(nameTok)
	target = id
	for p.isOp(".") {
		dotTok := p.stream.Next()
		propTok, err := p.expect(lexer.TokenName)
		if err != nil {
			return nil, err
		}
		prop := &nodes.Identifier{Name: propTok.Value}
		prop.Position = pos(propTok)
		m := &nodes.MemberExpression{Object: target, Property: prop, Computed: false}
		m.Position = pos(dotTok)
		target = m
	}
	return target, nil
}

func (p *Parser) parseMacro(startTok lexer.Token) (nodes.Node, error) {
	nameTok, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOpTok("("); err != nil {
		return nil, err
	}
	var args []*nodes.Identifier
	var defaults []nodes.Expr
	for !p.isOp(")") {
		if len(args) > 0 {
			if _, err := p.expectOpTok(","); err != nil {
				return nil, err
			}
			if p.isOp(")") {
				break
			}
		}
		argTok, err := p.expect(lexer.TokenName)
		if err != nil {
			return nil, err
		}
		id := &nodes.Identifier{Name: argTok.Value}
		id.Position = pos(argTok)
		args = append(args, id)
		if p.isOp("=") {
			p.stream.Next()
			def, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			defaults = append(defaults, def)
		}
	}
	if _, err := p.expectOpTok(")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if err := p.consumeEndTag("endmacro"); err != nil {
		return nil, err
	}
	m := &nodes.Macro{Name: nameTok.Value, Args: args, Defaults: defaults, Body: body}
	m.Position = pos(startTok)
	return m, nil
}

func (p *Parser) parseCallBlock(startTok lexer.Token) (nodes.Node, error) {
	var callerArgs []*nodes.Identifier
	if p.isOp("(") {
		p.stream.Next()
		for !p.isOp(")") {
			if len(callerArgs) > 0 {
				if _, err := p.expectOpTok(","); err != nil {
					return nil, err
				}
				if p.isOp(")") {
					break
				}
			}
			argTok, err := p.expect(lexer.TokenName)
			if err != nil {
				return nil, err
			}
			id := &nodes.Identifier{Name: argTok.Value}
			id.Position = pos(argTok)
			callerArgs = append(callerArgs, id)
		}
		if _, err := p.expectOpTok(")"); err != nil {
			return nil, err
		}
	}
	calleeExpr, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	call, ok := calleeExpr.(*nodes.CallExpression)
	if !ok {
		return nil, p.failf("call block requires a macro call expression")
	}
	if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if err := p.consumeEndTag("endcall"); err != nil {
		return nil, err
	}
	c := &nodes.CallStatement{Call: call, CallerArgs: callerArgs, Body: body}
	c.Position = pos(startTok)
	return c, nil
}

func (p *Parser) parseFilterBlock(startTok lexer.Token) (nodes.Node, error) {
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
	if _, err := p.expect(lexer.TokenBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if err := p.consumeEndTag("endfilter"); err != nil {
		return nil, err
	}
	filterExpr := &nodes.FilterExpression{Name: nameTok.Value, Args: args}
	filterExpr.Position = pos(nameTok)
	fs := &nodes.FilterStatement{Filter: filterExpr, Body: body}
	fs.Position = pos(startTok)
	return fs, nil
}
