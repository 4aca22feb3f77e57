package opstatus

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"coilledger/internal/domain/ledger"
)

// Rule is an operator-defined override: a CEL predicate over one stock
// row's figures that, when true, forces a status ahead of the built-in
// cascade. Expressions are compiled once at load time and evaluated per
// row.
//
// Available variables: code (string), width, weight, demand, stock
// (double), count, last_move_days, oldest_days (int; last_move_days is
// -1 when the key never moved), kind (string).
type Rule struct {
	Name  string
	Force Status
	prg   cel.Program
}

// CompileRule parses and type-checks an override expression.
func CompileRule(name, expr string, force Status) (Rule, error) {
	env, err := cel.NewEnv(
		cel.Variable("code", cel.StringType),
		cel.Variable("kind", cel.StringType),
		cel.Variable("width", cel.DoubleType),
		cel.Variable("weight", cel.DoubleType),
		cel.Variable("demand", cel.DoubleType),
		cel.Variable("stock", cel.DoubleType),
		cel.Variable("count", cel.IntType),
		cel.Variable("last_move_days", cel.IntType),
		cel.Variable("oldest_days", cel.IntType),
	)
	if err != nil {
		return Rule{}, fmt.Errorf("cel env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Rule{}, fmt.Errorf("compile rule %q: %w", name, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return Rule{}, fmt.Errorf("rule %q: expression must yield bool, got %s", name, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return Rule{}, fmt.Errorf("program rule %q: %w", name, err)
	}

	return Rule{Name: name, Force: force, prg: prg}, nil
}

// Apply evaluates the rule against one classified row. Evaluation
// errors disable the rule for that row; classification must never fail.
func (r Rule) Apply(row ledger.StockRow, res Result) (Status, bool) {
	lastMove := -1
	if res.LastMoveDays != nil {
		lastMove = *res.LastMoveDays
	}

	out, _, err := r.prg.Eval(map[string]any{
		"code":           row.Key.Code,
		"kind":           string(row.Kind),
		"width":          row.Key.Width,
		"weight":         row.Weight,
		"demand":         res.Demand,
		"stock":          res.Stock,
		"count":          int64(row.Count),
		"last_move_days": int64(lastMove),
		"oldest_days":    int64(res.OldestDays),
	})
	if err != nil {
		return "", false
	}

	if matched, ok := out.Value().(bool); ok && matched {
		return r.Force, true
	}
	return "", false
}
