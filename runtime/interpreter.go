package runtime

import (
	"time"

	"github.com/rendergo/jinja/nodes"
)

// Interpreter walks a parsed Program and renders it to a string
// (spec.md §6 public API). It is intentionally small: all the real
// behavior lives in the evaluator/statement/filter/json files this
// type delegates to.
type Interpreter struct {
	Log Logger
}

// NewInterpreter returns an Interpreter. env is accepted for
// signature symmetry with the teacher's constructors and spec.md's
// `Interpreter(env?)` but is otherwise unused here — Run takes the
// environment explicitly so one Interpreter can render many templates
// against different environments without aliasing logger state.
func NewInterpreter(env *Environment) *Interpreter {
	return &Interpreter{Log: defaultLogger}
}

// Run walks program and renders it against env, returning the
// rendered string. Errors propagate synchronously; there is no
// partial-output recovery (spec.md §7).
func (interp *Interpreter) Run(program *nodes.Program, env *Environment) (string, error) {
	start := time.Now()
	interp.Log.Debug("render start", "statements", len(program.Body))

	res, err := interp.evalBlock(program.Body, env)
	if err != nil {
		// Deep call sites raise sentinel errors (TypeError, ArityError,
		// ValueError) rather than threading a nodes.Position through
		// every filter/builtin; classify them into a typed *Error here,
		// at the one place all render failures funnel through.
		if _, ok := err.(*Error); !ok {
			err = wrapError(classify(err), program.Pos(), err)
		}
		interp.Log.Error("render failed", "error", err, "elapsed", time.Since(start))
		return "", err
	}
	if res.signal != signalNormal {
		interp.Log.Error("render failed", "error", "break/continue escaped the outermost block")
		return "", newError(KindSyntax, program.Pos(), "break/continue outside of a loop")
	}

	interp.Log.Debug("render finish", "elapsed", time.Since(start), "length", len(res.text))
	return res.text, nil
}
