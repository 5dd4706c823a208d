package runtime

import "github.com/rendergo/jinja/nodes"

// NewRootEnvironment builds a root Environment with the built-in
// tests and globals installed (spec.md §6), ready to take a
// caller-supplied context as a child frame.
func NewRootEnvironment() *Environment {
	root := NewEnvironment(nil)
	SetupGlobals(root)
	return root
}

// ExecuteProgram renders an already-parsed Program against a context
// map, convenience glue for callers that already hold a *nodes.Program
// (e.g. a cached parse result) and don't want to thread an Environment
// themselves. Mirrors the teacher's runtime.ExecuteToString entry
// point, adapted to this package's env/value model.
func ExecuteProgram(program *nodes.Program, context map[string]interface{}) (string, error) {
	root := NewRootEnvironment()
	env := root.Child()
	for k, v := range context {
		env.Set(k, v)
	}
	interp := NewInterpreter(env)
	return interp.Run(program, env)
}
