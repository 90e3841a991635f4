package fixture

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phoneloc/internal/store"
)

func TestLoad(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "carriers.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "carriers", f.Name)
	require.Len(t, f.Records, 3)

	assert.Equal(t, store.Values{
		"number":      "5551234",
		"location":    "CityA",
		"phone_type":  int64(1),
		"engine_type": int64(0),
	}, f.Records[0].Values())

	assert.Equal(t, store.Values{
		"number":      "5559876",
		"location":    "CityB",
		"phone_type":  int64(2),
		"engine_type": int64(1),
		"user_mark":   "courier",
		"update_time": int64(1700000000000),
	}, f.Records[1].Values())

	assert.Equal(t, store.Values{"number": "5550000"}, f.Records[2].Values())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "records:\n  - number: \"1\"\n    phonetype: 1\n", "failed to parse YAML"},
		{"no records", "name: empty\n", "records list is required"},
		{"missing number", "records:\n  - location: CityA\n", "records[0]: number is required"},
		{"wrong type", "records:\n  - number: \"1\"\n    phone_type: mobile\n", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
