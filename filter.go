package sheetmirror

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprCache holds compiled row predicates, keyed by expression text.
// Predicates are tiny and sheets are session-scoped, so a process-wide
// cache is fine.
var exprCache sync.Map

// MatchRows evaluates a predicate against every data row and returns the
// 1-indexed numbers of the rows where it holds. Each row's environment
// binds `row` (the padded cell slice) and `rownum` (1-indexed); when the
// mirror has a header row, every header cell also becomes a variable
// holding that column's value, and row 1 itself is skipped.
//
//	matched, err := sheet.MatchRows(`Calendar == "Cal A"`)
func (m *mirror) MatchRows(predicate string) ([]int, error) {
	program, err := compilePredicate(predicate)
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w", predicate, err)
	}

	var header []string
	first := 1
	if m.headerRow {
		header = m.grid.Row(1)
		first = 2
	}

	var matched []int
	for r := first; r <= m.grid.Rows(); r++ {
		row := m.grid.Row(r)
		env := map[string]any{
			"row":    row,
			"rownum": r,
		}
		for c, name := range header {
			if name != "" && c < len(row) {
				env[name] = row[c]
			}
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate predicate %q on row %d: %w", predicate, r, err)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return nil, fmt.Errorf("predicate %q evaluated to %T, expected bool", predicate, out)
		}
		if ok {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func compilePredicate(predicate string) (*vm.Program, error) {
	if cached, ok := exprCache.Load(predicate); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(predicate, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	exprCache.Store(predicate, program)
	return program, nil
}
