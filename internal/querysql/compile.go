// Package querysql compiles queryir predicates and sort terms to
// parameterized SQLite statements.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/phoneloc/internal/queryir"
)

// Select describes a read against a single table.
type Select struct {
	From    string
	Columns []string
	Filter  queryir.Predicate
	Sort    []queryir.Sort
}

// Update describes a filtered update against a single table.
// Set holds column -> value; SetOrder fixes the column order of the
// generated SET clause so statements are deterministic.
type Update struct {
	Table    string
	SetOrder []string
	Set      map[string]any
	Filter   queryir.Predicate
	OrIgnore bool
}

// Insert describes a single-row insert.
type Insert struct {
	Table    string
	Columns  []string
	Values   []any
	OrIgnore bool
}

// SQLCompiler compiles queryir to parameterized SQL for SQLite.
//
// CRITICAL: All values are parameterized (never interpolated).
// Field names are emitted verbatim; callers validate them against the
// table's column set before compiling.
type SQLCompiler struct {
	// Tiebreak is appended to every ORDER BY that does not already end with it,
	// so results are deterministic. Empty disables it.
	Tiebreak string
}

// NewSQLCompiler creates a new SQLCompiler with the given tiebreak column.
func NewSQLCompiler(tiebreak string) *SQLCompiler {
	return &SQLCompiler{Tiebreak: tiebreak}
}

// CompileSelect converts a Select to SQL. Returns (sql, params, error).
func (c *SQLCompiler) CompileSelect(q Select) (string, []any, error) {
	if q.From == "" {
		return "", nil, fmt.Errorf("select: missing table")
	}

	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ", ")
	}

	where, params, err := c.CompileWhere(q.Filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s%s", cols, q.From, where, c.orderBy(q.Sort))
	return sql, params, nil
}

// CompileUpdate converts an Update to SQL. Returns (sql, params, error).
func (c *SQLCompiler) CompileUpdate(u Update) (string, []any, error) {
	if u.Table == "" {
		return "", nil, fmt.Errorf("update: missing table")
	}
	if len(u.SetOrder) == 0 {
		return "", nil, fmt.Errorf("update: empty SET clause")
	}

	assignments := make([]string, 0, len(u.SetOrder))
	params := make([]any, 0, len(u.SetOrder))
	for _, col := range u.SetOrder {
		val, ok := u.Set[col]
		if !ok {
			return "", nil, fmt.Errorf("update: no value for column %q", col)
		}
		assignments = append(assignments, col+" = ?")
		params = append(params, val)
	}

	where, whereParams, err := c.CompileWhere(u.Filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	params = append(params, whereParams...)

	verb := "UPDATE"
	if u.OrIgnore {
		verb = "UPDATE OR IGNORE"
	}

	sql := fmt.Sprintf("%s %s SET %s%s", verb, u.Table, strings.Join(assignments, ", "), where)
	return sql, params, nil
}

// CompileInsert converts an Insert to SQL. Returns (sql, params, error).
func (c *SQLCompiler) CompileInsert(ins Insert) (string, []any, error) {
	if ins.Table == "" {
		return "", nil, fmt.Errorf("insert: missing table")
	}
	if len(ins.Columns) != len(ins.Values) {
		return "", nil, fmt.Errorf("insert: %d columns but %d values", len(ins.Columns), len(ins.Values))
	}

	verb := "INSERT"
	if ins.OrIgnore {
		verb = "INSERT OR IGNORE"
	}

	if len(ins.Columns) == 0 {
		return fmt.Sprintf("%s INTO %s DEFAULT VALUES", verb, ins.Table), nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ins.Columns)), ", ")
	sql := fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb, ins.Table, strings.Join(ins.Columns, ", "), placeholders)

	params := make([]any, len(ins.Values))
	copy(params, ins.Values)
	return sql, params, nil
}

// CompileWhere compiles a predicate to a " WHERE ..." fragment.
// A nil predicate yields an empty fragment.
func (c *SQLCompiler) CompileWhere(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	sql, params, err := c.compilePredicate(p)
	if err != nil {
		return "", nil, err
	}
	return " WHERE " + sql, params, nil
}

// compilePredicate compiles a queryir.Predicate to a WHERE clause fragment.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case queryir.Equals:
		return fmt.Sprintf("%s = ?", pred.Field), []any{pred.Value}, nil
	case queryir.Compare:
		return c.compileCompare(pred)
	case queryir.And:
		return c.compileAnd(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileCompare(cmp queryir.Compare) (string, []any, error) {
	if !cmp.Op.Valid() {
		return "", nil, fmt.Errorf("unsupported operator %q", cmp.Op)
	}
	return fmt.Sprintf("%s %s ?", cmp.Field, cmp.Op), []any{cmp.Value}, nil
}

// compileAnd compiles an And predicate to a parenthesized conjunction.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // vacuous truth
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, ps, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, ps...)
	}

	return strings.Join(parts, " AND "), params, nil
}

// orderBy renders the ORDER BY clause, appending the tiebreak column.
func (c *SQLCompiler) orderBy(sorts []queryir.Sort) string {
	terms := make([]string, 0, len(sorts)+1)
	last := ""
	for _, s := range sorts {
		terms = append(terms, s.String())
		last = s.Field
	}
	if c.Tiebreak != "" && last != c.Tiebreak {
		terms = append(terms, c.Tiebreak+" ASC")
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}
