// Command jinjarun renders a single template file against an optional
// YAML context file and prints the result to stdout. It exists to
// exercise the parser/runtime pair end to end (SPEC_FULL.md component
// J) the way the teacher's examples/ package demonstrates its runtime,
// turned into a real flag-driven command grounded on
// sambeau-basil/cmd/basil's run(ctx, args, stdout, stderr, getenv)
// shape.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rendergo/jinja/parser"
	"github.com/rendergo/jinja/runtime"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("jinjarun", flag.ContinueOnError)
	flags.SetOutput(stderr)

	templatePath := flags.String("template", "", "path to the template file (required)")
	contextPath := flags.String("context", "", "path to a YAML file supplying the render context")
	quiet := flags.Bool("quiet", false, "suppress structured lifecycle logging")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" {
		flags.Usage()
		return fmt.Errorf("-template is required")
	}

	src, err := os.ReadFile(*templatePath)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	context := map[string]interface{}{}
	if *contextPath != "" {
		raw, err := os.ReadFile(*contextPath)
		if err != nil {
			return fmt.Errorf("reading context: %w", err)
		}
		if err := yaml.Unmarshal(raw, &context); err != nil {
			return fmt.Errorf("parsing context YAML: %w", err)
		}
	}

	program, err := parser.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	root := runtime.NewRootEnvironment()
	env := root.Child()
	for k, v := range context {
		env.Set(k, v)
	}

	logger := runtime.NewLogger(stderr)
	if *quiet {
		logger = runtime.NewLogger(io.Discard)
	}
	interp := runtime.NewInterpreter(env)
	interp.Log = logger

	out, err := interp.Run(program, env)
	if err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}

	fmt.Fprint(stdout, out)
	return nil
}
