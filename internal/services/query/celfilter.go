package querysvc

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/manigandand/pathivu/internal/segment"
)

// celFilter wraps a compiled CEL program evaluated per matched entry. When
// disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("partition", cel.StringType),
		cel.Variable("segment", cel.IntType),
		cel.Variable("ts", cel.IntType),
		cel.Variable("size", cel.IntType),
		cel.Variable("text", cel.StringType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against one entry. Evaluation
// errors drop the entry rather than failing the search.
func (f celFilter) Eval(partition string, segID uint64, e *segment.Entry) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"partition": partition,
		"segment":   int64(segID),
		"ts":        int64(e.Ts),
		"size":      int64(len(e.Line)),
		"text":      string(e.Line),
		"now_ms":    time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
