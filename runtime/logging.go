package runtime

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog for the render lifecycle events described in
// SPEC_FULL.md component K. Grounded on lacquerai-lacquer's
// github.com/rs/zerolog/log usage for its expression evaluator — the
// nearest in-pack precedent for structured logging inside a
// tree-walking interpreter.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger builds a Logger writing to w with request-scoped fields
// attached the way zerolog.Logger.With() is conventionally used.
func NewLogger(w io.Writer) Logger {
	return Logger{zl: zerolog.New(w).With().Timestamp().Str("component", "jinja").Logger()}
}

var defaultLogger = NewLogger(os.Stderr)

// Debug logs a low-volume lifecycle event with structured key/value
// pairs, mirroring zerolog's fluent field-builder idiom.
func (l Logger) Debug(msg string, kv ...interface{}) {
	withFields(l.zl.Debug(), kv).Msg(msg)
}

// Error logs a render failure with structured fields.
func (l Logger) Error(msg string, kv ...interface{}) {
	withFields(l.zl.Error(), kv).Msg(msg)
}

func withFields(ev *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		if err, ok := kv[i+1].(error); ok {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	return ev
}
