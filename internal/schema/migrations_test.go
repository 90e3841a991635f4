package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsAscending(t *testing.T) {
	for i, m := range Migrations {
		assert.Equal(t, i+1, m.Version, "migration %q out of order", m.Name)
		assert.NotEmpty(t, m.Statements)
	}
	assert.Equal(t, CurrentVersion, Migrations[len(Migrations)-1].Version)
}

func TestPending(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []int
	}{
		{"fresh database", 0, 2, []int{1, 2}},
		{"version one", 1, 2, []int{2}},
		{"up to date", 2, 2, nil},
		{"target older than stored", 2, 1, nil},
		{"fresh to version one", 0, 1, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, m := range Pending(tt.from, tt.to) {
				got = append(got, m.Version)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsWritable(t *testing.T) {
	assert.False(t, IsWritable(ColID))
	assert.False(t, IsWritable("bogus"))
	for _, col := range WritableColumns {
		assert.True(t, IsWritable(col), col)
	}
}
