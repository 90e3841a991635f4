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

// QueryOptions carries the caller's part of a read.
type QueryOptions struct {
	// Filter is ANDed with the address predicate. Nil means no extra filter.
	Filter queryir.Predicate

	// Sort orders the result. Empty means schema.DefaultSort.
	Sort []queryir.Sort
}

// Query returns the records selected by the address predicate AND
// opts.Filter. Results are ordered by opts.Sort (default update_time ASC)
// with _id as the final tiebreaker.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Query(ctx context.Context, m route.Match, opts QueryOptions) ([]Record, error) {
	if !m.Matched() {
		return nil, fmt.Errorf("query %q: %w", m.Address, ErrNoMatch)
	}
	if err := queryir.Validate(opts.Filter, schema.Fields); err != nil {
		return nil, fmt.Errorf("query %q: %w: %v", m.Address, ErrInvalidFilter, err)
	}
	if err := queryir.ValidateSort(opts.Sort, schema.Fields); err != nil {
		return nil, fmt.Errorf("query %q: %w: %v", m.Address, ErrInvalidFilter, err)
	}

	sorts := opts.Sort
	if len(sorts) == 0 {
		sorts = schema.DefaultSort
	}

	query, params, err := s.compiler.CompileSelect(querysql.Select{
		From:    schema.Table,
		Columns: schema.Columns,
		Filter:  queryir.Conj(m.Predicate, opts.Filter),
		Sort:    sorts,
	})
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", m.Address, err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", m.Address, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+schema.Table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// scanRecord scans one row selected with schema.Columns.
func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec                             Record
		number, location, userMark      sql.NullString
		phoneType, engineType, updateAt sql.NullInt64
	)
	err := rows.Scan(&rec.ID, &number, &location, &phoneType, &engineType, &userMark, &updateAt)
	if err != nil {
		return Record{}, fmt.Errorf("scan record: %w", err)
	}
	rec.Number = number.String
	rec.Location = location.String
	rec.PhoneType = phoneType.Int64
	rec.EngineType = engineType.Int64
	rec.UserMark = userMark.String
	rec.UpdateTime = updateAt.Int64
	return rec, nil
}
