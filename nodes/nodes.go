// Package nodes defines the abstract syntax tree consumed by the
// runtime evaluator. It has no dependency on the lexer or parser: any
// producer that builds this shape (the parser in this repo, a hand
// built tree in a test, or a future alternative frontend) can feed the
// runtime package.
package nodes

// Position records where a node came from in template source, for
// error reporting.
type Position struct {
	Line   int
	Column int
}

// Node is the base interface implemented by every AST node.
type Node interface {
	// Type returns a stable tag naming the node kind, used in error
	// messages (the evaluator itself switches on the Go type).
	Type() string
	// Pos returns the node's source position.
	Pos() Position
}

// BaseNode provides the common Position plumbing every node embeds.
type BaseNode struct {
	Position Position
}

func (n BaseNode) Pos() Position { return n.Position }

// Stmt is implemented by statement nodes. The marker method keeps
// expressions and statements from being accidentally interchanged at
// the type level.
type Stmt interface {
	Node
	isStmt()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	isExpr()
}

type baseStmt struct{ BaseNode }

func (baseStmt) isStmt() {}

type baseExpr struct{ BaseNode }

func (baseExpr) isExpr() {}

// ---- Statements ----

// Program is the root node: a sequence of statements that render to a
// single string.
type Program struct {
	baseStmt
	Body []Node
}

func (*Program) Type() string { return "Program" }

// If renders Body when Test is truthy, otherwise Alternate. Alternate
// may contain a single nested *If to represent "elif".
type If struct {
	baseStmt
	Test      Expr
	Body      []Node
	Alternate []Node
}

func (*If) Type() string { return "If" }

// For iterates Iterable, binding LoopVar (an *Identifier or a
// *TupleLiteral for destructuring) and a synthesized "loop" object on
// each pass. DefaultBlock renders when the loop runs zero times.
type For struct {
	baseStmt
	LoopVar      Node
	Iterable     Expr
	Body         []Node
	DefaultBlock []Node
}

func (*For) Type() string { return "For" }

// SetStatement assigns Value (or, if nil, the rendered Body block) to
// Assignee, which is an *Identifier, a *TupleLiteral (destructuring),
// or a *MemberExpression.
type SetStatement struct {
	baseStmt
	Assignee Node
	Value    Expr
	Body     []Node
}

func (*SetStatement) Type() string { return "SetStatement" }

// Macro defines a named, reusable template block.
type Macro struct {
	baseStmt
	Name     string
	Args     []*Identifier
	Defaults []Expr
	Body     []Node
}

func (*Macro) Type() string { return "Macro" }

// CallStatement implements `{% call macro(args) %} body {% endcall %}`.
// CallerArgs names the parameters the body block itself accepts when
// invoked as `caller()`.
type CallStatement struct {
	baseStmt
	Call       *CallExpression
	CallerArgs []*Identifier
	Body       []Node
}

func (*CallStatement) Type() string { return "CallStatement" }

// FilterStatement renders Body then applies Filter to the resulting
// string. Filter.Operand is unused (the body's rendered string takes
// its place at evaluation time).
type FilterStatement struct {
	baseStmt
	Filter *FilterExpression
	Body   []Node
}

func (*FilterStatement) Type() string { return "FilterStatement" }

// Break signals the nearest enclosing For to stop iterating.
type Break struct{ baseStmt }

func (*Break) Type() string { return "Break" }

// Continue signals the nearest enclosing For to skip to the next item.
type Continue struct{ baseStmt }

func (*Continue) Type() string { return "Continue" }

// Comment is a no-op statement retained for round-tripping; it
// produces no output.
type Comment struct {
	baseStmt
	Value string
}

func (*Comment) Type() string { return "Comment" }

// ---- Expressions ----

// IntegerLiteral is a whole-number literal.
type IntegerLiteral struct {
	baseExpr
	Value int64
}

func (*IntegerLiteral) Type() string { return "IntegerLiteral" }

// FloatLiteral is a fractional-number literal.
type FloatLiteral struct {
	baseExpr
	Value float64
}

func (*FloatLiteral) Type() string { return "FloatLiteral" }

// StringLiteral is a quoted string literal.
type StringLiteral struct {
	baseExpr
	Value string
}

func (*StringLiteral) Type() string { return "StringLiteral" }

// ArrayLiteral is a `[a, b, c]` literal.
type ArrayLiteral struct {
	baseExpr
	Values []Node
}

func (*ArrayLiteral) Type() string { return "ArrayLiteral" }

// TupleLiteral is a `(a, b)` literal; it also appears as a
// destructuring pattern in For/Set assignees.
type TupleLiteral struct {
	baseExpr
	Values []Node
}

func (*TupleLiteral) Type() string { return "TupleLiteral" }

// ObjectLiteral is a `{k: v, ...}` literal. Keys are evaluated as
// expressions (typically StringLiteral or Identifier-as-name).
type ObjectLiteral struct {
	baseExpr
	Keys   []Node
	Values []Node
}

func (*ObjectLiteral) Type() string { return "ObjectLiteral" }

// Identifier is a bare name reference (variable lookup).
type Identifier struct {
	baseExpr
	Name string
}

func (*Identifier) Type() string { return "Identifier" }

// MemberExpression is `a.b` (Computed=false, Property is *Identifier)
// or `a[b]` (Computed=true, Property is any Expr).
type MemberExpression struct {
	baseExpr
	Object   Node
	Property Node
	Computed bool
}

func (*MemberExpression) Type() string { return "MemberExpression" }

// CallExpression invokes Callee with Args. KeywordArgumentExpression
// and SpreadExpression nodes may appear among Args.
type CallExpression struct {
	baseExpr
	Callee Node
	Args   []Node
}

func (*CallExpression) Type() string { return "CallExpression" }

// Operator wraps an operator token's literal spelling so the
// evaluator can switch on Operator.Value.
type Operator struct {
	Value string
}

// BinaryExpression is `left OP right` for both arithmetic/comparison
// operators and the keyword operators (`and`, `or`, `in`, `not in`, `~`).
type BinaryExpression struct {
	baseExpr
	Operator Operator
	Left     Node
	Right    Node
}

func (*BinaryExpression) Type() string { return "BinaryExpression" }

// UnaryExpression is `not argument` or unary minus `-argument`.
type UnaryExpression struct {
	baseExpr
	Operator Operator
	Argument Node
}

func (*UnaryExpression) Type() string { return "UnaryExpression" }

// FilterExpression is `operand | name(args...)` (Args empty for the
// bare identifier form `operand | name`).
type FilterExpression struct {
	baseExpr
	Operand Node
	Name    string
	Args    []Node
}

func (*FilterExpression) Type() string { return "FilterExpression" }

// TestExpression is `operand is [not] name(args...)`.
type TestExpression struct {
	baseExpr
	Operand Node
	Name    string
	Args    []Node
	Negate  bool
}

func (*TestExpression) Type() string { return "TestExpression" }

// SelectExpression is `value if test` (no else branch): yields Value
// when Test is truthy, else Undefined.
type SelectExpression struct {
	baseExpr
	Value Node
	Test  Node
}

func (*SelectExpression) Type() string { return "SelectExpression" }

// Ternary is `trueExpr if test else falseExpr`.
type Ternary struct {
	baseExpr
	Test      Node
	TrueExpr  Node
	FalseExpr Node
}

func (*Ternary) Type() string { return "Ternary" }

// SliceExpression is `object[start:stop:step]`; any bound may be nil,
// meaning "use the Python default for this position".
type SliceExpression struct {
	baseExpr
	Object Node
	Start  Node
	Stop   Node
	Step   Node
}

func (*SliceExpression) Type() string { return "SliceExpression" }

// KeywordArgumentExpression is `name=value` inside a call's argument
// list; it must appear after all positional arguments.
type KeywordArgumentExpression struct {
	baseExpr
	Key   *Identifier
	Value Node
}

func (*KeywordArgumentExpression) Type() string { return "KeywordArgumentExpression" }

// SpreadExpression is `*seq` inside a call's argument list; the
// callee inlines seq's elements as positional arguments.
type SpreadExpression struct {
	baseExpr
	Argument Node
}

func (*SpreadExpression) Type() string { return "SpreadExpression" }
