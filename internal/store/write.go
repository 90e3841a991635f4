package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/phoneloc/internal/queryir"
	"github.com/roach88/phoneloc/internal/querysql"
	"github.com/roach88/phoneloc/internal/route"
	"github.com/roach88/phoneloc/internal/schema"
)

// Insert adds a record if no record with the same number exists.
//
// Only the Collection pattern accepts inserts. Uses INSERT OR IGNORE: a
// duplicate number is silently ignored and reported as inserted=false with a
// nil error. The existing row is left untouched.
//
// A number is required. update_time is stamped from the store clock unless
// supplied.
func (s *Store) Insert(ctx context.Context, m route.Match, v Values) (id int64, inserted bool, err error) {
	if !m.Matched() {
		return 0, false, fmt.Errorf("insert %q: %w", m.Address, ErrNoMatch)
	}
	if m.Pattern != route.Collection {
		return 0, false, fmt.Errorf("insert %q: %w: inserts require the collection address", m.Address, ErrUnsupported)
	}

	cols, order, err := s.prepareValues(v)
	if err != nil {
		return 0, false, fmt.Errorf("insert %q: %w", m.Address, err)
	}
	if num, _ := cols[schema.ColNumber].(string); num == "" {
		return 0, false, fmt.Errorf("insert %q: %w: number is required", m.Address, ErrInvalidValues)
	}

	query, params, err := s.compiler.CompileInsert(insertOf(cols, order, true))
	if err != nil {
		return 0, false, fmt.Errorf("insert %q: %w", m.Address, err)
	}

	result, err := s.db.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, false, fmt.Errorf("insert %q: %w", m.Address, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("insert %q: rows affected: %w", m.Address, err)
	}
	if affected == 0 {
		s.logger.Debug("insert ignored, number exists", "number", cols[schema.ColNumber])
		return 0, false, nil
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("insert %q: last insert id: %w", m.Address, err)
	}

	s.logger.Debug("record inserted", "id", id, "number", cols[schema.ColNumber])
	s.hook.Notify(m.Address)
	return id, true, nil
}

// Update writes v to the records selected by m.
//
// For ByNumber the write is an upsert: update the row whose number equals the
// address value, or insert one if none matched. Both steps run in a single
// transaction. The address number is written as the row's number. A caller
// filter is not allowed on this path and is rejected with ErrUnsupported
// before storage is touched.
//
// For Collection v is applied with UPDATE OR IGNORE to all rows matching
// filter; rows whose update would collide with another row's number are
// skipped. The other patterns are read-only and return ErrUnsupported.
//
// Returns the number of affected rows.
func (s *Store) Update(ctx context.Context, m route.Match, v Values, filter queryir.Predicate) (int64, error) {
	if !m.Matched() {
		return 0, fmt.Errorf("update %q: %w", m.Address, ErrNoMatch)
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("update %q: %w: no values", m.Address, ErrInvalidValues)
	}

	switch m.Pattern {
	case route.ByNumber:
		if filter != nil {
			return 0, fmt.Errorf("update %q: %w: cannot update a number address with a filter", m.Address, ErrUnsupported)
		}
		return s.upsertByNumber(ctx, m, v)
	case route.Collection:
		return s.updateWhere(ctx, m, v, filter)
	default:
		return 0, fmt.Errorf("update %q: %w: cannot update a %s address", m.Address, ErrUnsupported, m.Pattern)
	}
}

// upsertByNumber runs update-then-insert atomically.
func (s *Store) upsertByNumber(ctx context.Context, m route.Match, v Values) (int64, error) {
	v = v.Clone()
	v[schema.ColNumber] = m.Value

	cols, order, err := s.prepareValues(v)
	if err != nil {
		return 0, fmt.Errorf("upsert %q: %w", m.Address, err)
	}

	updateSQL, updateParams, err := s.compiler.CompileUpdate(querysql.Update{
		Table:    schema.Table,
		SetOrder: order,
		Set:      cols,
		Filter:   queryir.Equals{Field: schema.ColNumber, Value: m.Value},
	})
	if err != nil {
		return 0, fmt.Errorf("upsert %q: %w", m.Address, err)
	}
	insertSQL, insertParams, err := s.compiler.CompileInsert(insertOf(cols, order, false))
	if err != nil {
		return 0, fmt.Errorf("upsert %q: %w", m.Address, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("upsert %q: begin tx: %w", m.Address, err)
	}
	defer tx.Rollback() // No-op if committed

	count, err := execCount(ctx, tx, updateSQL, updateParams)
	if err != nil {
		return 0, fmt.Errorf("upsert %q: update: %w", m.Address, err)
	}

	if count == 0 {
		count, err = execCount(ctx, tx, insertSQL, insertParams)
		if err != nil {
			return 0, fmt.Errorf("upsert %q: insert: %w", m.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("upsert %q: commit: %w", m.Address, err)
	}

	s.logger.Debug("record upserted", "number", m.Value, "count", count)
	if count > 0 {
		s.hook.Notify(m.Address)
	}
	return count, nil
}

// updateWhere applies v to every collection row matching filter.
func (s *Store) updateWhere(ctx context.Context, m route.Match, v Values, filter queryir.Predicate) (int64, error) {
	if err := queryir.Validate(filter, schema.Fields); err != nil {
		return 0, fmt.Errorf("update %q: %w: %v", m.Address, ErrInvalidFilter, err)
	}

	cols, order, err := s.prepareValues(v)
	if err != nil {
		return 0, fmt.Errorf("update %q: %w", m.Address, err)
	}

	query, params, err := s.compiler.CompileUpdate(querysql.Update{
		Table:    schema.Table,
		SetOrder: order,
		Set:      cols,
		Filter:   queryir.Conj(m.Predicate, filter),
		OrIgnore: true,
	})
	if err != nil {
		return 0, fmt.Errorf("update %q: %w", m.Address, err)
	}

	count, err := execCount(ctx, s.db, query, params)
	if err != nil {
		return 0, fmt.Errorf("update %q: %w", m.Address, err)
	}

	s.logger.Debug("records updated", "address", m.Address, "count", count)
	if count > 0 {
		s.hook.Notify(m.Address)
	}
	return count, nil
}

// Delete never removes data. It reports zero affected rows for every
// address and filter, and never notifies.
func (s *Store) Delete(ctx context.Context, m route.Match, filter queryir.Predicate) (int64, error) {
	s.logger.Debug("delete ignored", "address", m.Address, "pattern", m.Pattern.String())
	return 0, nil
}

// prepareValues normalizes v and stamps update_time when absent.
func (s *Store) prepareValues(v Values) (map[string]any, []string, error) {
	if !v.Has(schema.ColUpdateTime) {
		v = v.Clone()
		v[schema.ColUpdateTime] = s.clock.Now()
	}
	return v.normalize()
}

func insertOf(cols map[string]any, order []string, orIgnore bool) querysql.Insert {
	values := make([]any, len(order))
	for i, col := range order {
		values[i] = cols[col]
	}
	return querysql.Insert{
		Table:    schema.Table,
		Columns:  order,
		Values:   values,
		OrIgnore: orIgnore,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execCount(ctx context.Context, e execer, query string, params []any) (int64, error) {
	result, err := e.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
