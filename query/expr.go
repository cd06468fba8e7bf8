package query

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/ebirch/plover/record"
)

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

// filterEnv builds the shared compile environment on first use. Expressions
// see one variable, "record", a map of the record's field bag plus its id.
// A construction failure is reported to every caller rather than swallowed.
func filterEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return env, envErr
}

// CompilePredicate compiles a CEL expression into a Predicate. The expression
// is evaluated against a map variable named "record" containing the field bag
// with "id" merged in, e.g.:
//
//	record.status == 'failed' && record.size > 1000000
//
// A record whose evaluation errors (missing field, type mismatch) does not
// pass the filter.
func CompilePredicate(expr string) (Predicate, error) {
	celEnv, err := filterEnv()
	if err != nil {
		return nil, fmt.Errorf("filter environment: %w", err)
	}
	ast, issues := celEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter %q: result is %s, want bool", expr, ast.OutputType())
	}
	prg, err := celEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build filter program: %w", err)
	}

	return func(rec record.Record) bool {
		fields := make(map[string]any, len(rec.Fields)+1)
		for k, v := range rec.Fields {
			fields[k] = v
		}
		fields["id"] = rec.ID
		out, _, err := prg.Eval(map[string]any{"record": fields})
		if err != nil {
			return false
		}
		pass, ok := out.Value().(bool)
		return ok && pass
	}, nil
}
