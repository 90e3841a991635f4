package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phoneloc/internal/queryir"
)

func TestCompileSelect_NoFilter(t *testing.T) {
	c := NewSQLCompiler("_id")

	sql, params, err := c.CompileSelect(Select{From: "location"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM location ORDER BY _id ASC", sql)
	assert.Empty(t, params)
}

func TestCompileSelect_FilterAndSort(t *testing.T) {
	c := NewSQLCompiler("_id")

	sql, params, err := c.CompileSelect(Select{
		From:    "location",
		Columns: []string{"_id", "number"},
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "number", Value: "5551234"},
			queryir.Compare{Field: "phone_type", Op: queryir.OpGt, Value: int64(0)},
		}},
		Sort: []queryir.Sort{{Field: "update_time"}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT _id, number FROM location WHERE (number = ?) AND (phone_type > ?) ORDER BY update_time ASC, _id ASC",
		sql)
	assert.Equal(t, []any{"5551234", int64(0)}, params)
	assert.NotContains(t, sql, "5551234")
}

func TestCompileSelect_TiebreakNotDuplicated(t *testing.T) {
	c := NewSQLCompiler("_id")

	sql, _, err := c.CompileSelect(Select{From: "location", Sort: []queryir.Sort{{Field: "_id", Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM location ORDER BY _id DESC", sql)
}

func TestCompileSelect_MissingTable(t *testing.T) {
	_, _, err := NewSQLCompiler("").CompileSelect(Select{})
	assert.Error(t, err)
}

func TestCompileUpdate(t *testing.T) {
	c := NewSQLCompiler("_id")

	sql, params, err := c.CompileUpdate(Update{
		Table:    "location",
		SetOrder: []string{"location", "update_time"},
		Set:      map[string]any{"location": "CityB", "update_time": int64(42)},
		Filter:   queryir.Equals{Field: "number", Value: "5551234"},
		OrIgnore: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE OR IGNORE location SET location = ?, update_time = ? WHERE number = ?", sql)
	assert.Equal(t, []any{"CityB", int64(42), "5551234"}, params)
}

func TestCompileUpdate_NoFilter(t *testing.T) {
	c := NewSQLCompiler("_id")

	sql, params, err := c.CompileUpdate(Update{
		Table:    "location",
		SetOrder: []string{"user_mark"},
		Set:      map[string]any{"user_mark": "spam"},
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE location SET user_mark = ?", sql)
	assert.Equal(t, []any{"spam"}, params)
}

func TestCompileUpdate_Errors(t *testing.T) {
	c := NewSQLCompiler("_id")

	_, _, err := c.CompileUpdate(Update{Table: "location"})
	assert.Error(t, err, "empty SET")

	_, _, err = c.CompileUpdate(Update{Table: "location", SetOrder: []string{"x"}, Set: map[string]any{}})
	assert.Error(t, err, "missing value")
}

func TestCompileInsert(t *testing.T) {
	c := NewSQLCompiler("_id")

	sql, params, err := c.CompileInsert(Insert{
		Table:    "location",
		Columns:  []string{"number", "location"},
		Values:   []any{"5551234", "CityA"},
		OrIgnore: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT OR IGNORE INTO location (number, location) VALUES (?, ?)", sql)
	assert.Equal(t, []any{"5551234", "CityA"}, params)
}

func TestCompileInsert_DefaultValues(t *testing.T) {
	sql, params, err := NewSQLCompiler("").CompileInsert(Insert{Table: "location"})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO location DEFAULT VALUES", sql)
	assert.Nil(t, params)
}

func TestCompileInsert_Mismatch(t *testing.T) {
	_, _, err := NewSQLCompiler("").CompileInsert(Insert{Table: "location", Columns: []string{"a"}})
	assert.Error(t, err)
}

func TestCompileWhere_UnsupportedOperator(t *testing.T) {
	_, _, err := NewSQLCompiler("").CompileWhere(queryir.Compare{Field: "number", Op: "~", Value: "x"})
	assert.Error(t, err)
}

func TestCompileWhere_EmptyAnd(t *testing.T) {
	sql, params, err := NewSQLCompiler("").CompileWhere(queryir.And{})
	require.NoError(t, err)
	assert.Equal(t, " WHERE 1 = 1", sql)
	assert.Nil(t, params)
}
