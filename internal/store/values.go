package store

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/phoneloc/internal/schema"
)

// Record is one row of the location table.
// NULL columns scan to their zero value.
type Record struct {
	ID         int64  `json:"_id"`
	Number     string `json:"number"`
	Location   string `json:"location"`
	PhoneType  int64  `json:"phone_type"`
	EngineType int64  `json:"engine_type"`
	UserMark   string `json:"user_mark"`
	UpdateTime int64  `json:"update_time"`
}

// Values is a partial set of columns to write, keyed by column name.
// Only the columns present are written. A nil value writes NULL.
//
// Text columns (number, location, user_mark) take a string. Integer columns
// (phone_type, engine_type, update_time) take any Go integer or a decimal
// string. _id is never writable.
type Values map[string]any

// Has reports whether col is present.
func (v Values) Has(col string) bool {
	_, ok := v[col]
	return ok
}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// normalize validates v and returns SQL-ready values plus the column order
// (table order). location and user_mark are NFC-normalized; number is kept
// verbatim.
func (v Values) normalize() (map[string]any, []string, error) {
	for col := range v {
		if !schema.IsWritable(col) {
			return nil, nil, fmt.Errorf("%w: column %q is not writable", ErrInvalidValues, col)
		}
	}

	out := make(map[string]any, len(v))
	order := make([]string, 0, len(v))
	for _, col := range schema.WritableColumns {
		raw, ok := v[col]
		if !ok {
			continue
		}
		val, err := convertValue(col, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidValues, col, err)
		}
		out[col] = val
		order = append(order, col)
	}
	return out, order, nil
}

func convertValue(col string, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if schema.TextColumns[col] {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		if col == schema.ColNumber {
			return s, nil
		}
		return norm.NFC.String(s), nil
	}
	return toInt64(raw)
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > 1<<63-1 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case uint64:
		if n > 1<<63-1 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}
