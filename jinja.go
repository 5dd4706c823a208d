// Package jinja is the root facade over the parser/runtime packages,
// grounded on the teacher's root gojinja.go re-export facade — trimmed
// to the surface this spec actually implements. File loading,
// sandboxing, and AST-walk debugging are dropped here along with the
// teacher's inheritance/security features they supported (see
// DESIGN.md); what remains is parse-a-string and render-against-a-context.
package jinja

import (
	"github.com/rendergo/jinja/nodes"
	"github.com/rendergo/jinja/parser"
	"github.com/rendergo/jinja/runtime"
)

// Environment is a lexically-scoped variable scope (spec.md §3).
type Environment = runtime.Environment

// Node is the AST node interface the parser produces and the runtime
// evaluates (spec.md §6).
type Node = nodes.Node

// Program is the root AST node for a parsed template.
type Program = nodes.Program

// NewEnvironment creates a root environment with the built-in tests
// and globals installed (spec.md §6).
func NewEnvironment() *Environment {
	return runtime.NewRootEnvironment()
}

// Parse parses template source into a Program.
func Parse(source string) (*Program, error) {
	return parser.Parse(source)
}

// Render parses source and renders it against context in one step,
// the common case for callers that don't need to reuse a parsed
// Program across renders.
func Render(source string, context map[string]interface{}) (string, error) {
	program, err := Parse(source)
	if err != nil {
		return "", err
	}
	return runtime.ExecuteProgram(program, context)
}
