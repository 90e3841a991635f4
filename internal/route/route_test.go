package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phoneloc/internal/queryir"
	"github.com/roach88/phoneloc/internal/schema"
)

func TestResolve_Patterns(t *testing.T) {
	r := NewDefault()

	tests := []struct {
		name    string
		address string
		pattern Pattern
		value   string
		pred    queryir.Predicate
	}{
		{"collection", "/phonelocation", Collection, "", nil},
		{"collection trailing slash", "/phonelocation/", Collection, "", nil},
		{"collection with scheme", "content://phonelocation", Collection, "", nil},
		{"by id", "/phonelocation/42", ByID, "42", queryir.Equals{Field: schema.ColID, Value: int64(42)}},
		{"by id with scheme", "content://phonelocation/7", ByID, "7", queryir.Equals{Field: schema.ColID, Value: int64(7)}},
		{"by number", "/phonelocation/bynumber/5551234", ByNumber, "5551234", queryir.Equals{Field: schema.ColNumber, Value: "5551234"}},
		{"by number escaped", "/phonelocation/bynumber/%2B86%20138", ByNumber, "+86 138", queryir.Equals{Field: schema.ColNumber, Value: "+86 138"}},
		{"by number escaped slash", "/phonelocation/bynumber/a%2Fb", ByNumber, "a/b", queryir.Equals{Field: schema.ColNumber, Value: "a/b"}},
		{"by number stray percent", "/phonelocation/bynumber/50%off", ByNumber, "50%off", queryir.Equals{Field: schema.ColNumber, Value: "50%off"}},
		{"by number trailing percent", "/phonelocation/bynumber/100%", ByNumber, "100%", queryir.Equals{Field: schema.ColNumber, Value: "100%"}},
		{"by location mixed escapes", "/phonelocation/bylocation/A%20%zz", ByLocation, "A %zz", queryir.Equals{Field: schema.ColLocation, Value: "A %zz"}},
		{"by number not validated", "/phonelocation/bynumber/not-a-number", ByNumber, "not-a-number", queryir.Equals{Field: schema.ColNumber, Value: "not-a-number"}},
		{"by phone type", "/phonelocation/byphonetype/1", ByPhoneType, "1", queryir.Equals{Field: schema.ColPhoneType, Value: "1"}},
		{"by phone type passthrough", "/phonelocation/byphonetype/mobile", ByPhoneType, "mobile", queryir.Equals{Field: schema.ColPhoneType, Value: "mobile"}},
		{"by location", "/phonelocation/bylocation/CityA", ByLocation, "CityA", queryir.Equals{Field: schema.ColLocation, Value: "CityA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := r.Resolve(tt.address)
			require.True(t, m.Matched(), "address %q should match", tt.address)
			assert.Equal(t, tt.pattern, m.Pattern)
			assert.Equal(t, tt.value, m.Value)
			assert.Equal(t, tt.pred, m.Predicate)
			assert.Equal(t, tt.address, m.Address)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	r := NewDefault()

	addresses := []string{
		"",
		"/",
		"/other",
		"/other/1",
		"/phonelocation/0",
		"/phonelocation/-3",
		"/phonelocation/abc",
		"/phonelocation/bynumber",
		"/phonelocation/bynumber/1/2",
		"/phonelocation/byphonetype",
		"/phonelocation/bylocation",
		"/phonelocation/1/2",
		"/phonelocation/99999999999999999999",
		"content:///phonelocation",
	}

	for _, addr := range addresses {
		t.Run(addr, func(t *testing.T) {
			m := r.Resolve(addr)
			assert.Equal(t, NoMatch, m.Pattern)
			assert.False(t, m.Matched())
			assert.Nil(t, m.Predicate)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewDefault()
	first := r.Resolve("/phonelocation/bynumber/5551234")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve("/phonelocation/bynumber/5551234"))
	}
}

func TestResolve_LocationIsNFCNormalized(t *testing.T) {
	r := NewDefault()

	// "e" followed by a combining acute accent.
	m := r.Resolve(LocationAddress("Cafe\u0301"))
	require.Equal(t, ByLocation, m.Pattern)
	assert.Equal(t, queryir.Equals{Field: schema.ColLocation, Value: "Caf\u00e9"}, m.Predicate)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	r := New(Authority, []Rule{
		{Pattern: ByNumber, Template: "*"},
		{Pattern: ByID, Template: "#"},
	})
	assert.Equal(t, ByNumber, r.Resolve("/phonelocation/12").Pattern)
}

func TestNew_CopiesRules(t *testing.T) {
	rules := DefaultRules()
	r := New(Authority, rules)
	rules[0] = Rule{Pattern: ByLocation, Template: ""}

	assert.Equal(t, Collection, r.Resolve("/phonelocation").Pattern)
}

func TestAddressBuilders(t *testing.T) {
	r := NewDefault()

	assert.Equal(t, "/phonelocation/12", ItemAddress(12))

	m := r.Resolve(NumberAddress("+1 (555) 123/4"))
	require.Equal(t, ByNumber, m.Pattern)
	assert.Equal(t, "+1 (555) 123/4", m.Value)

	assert.Equal(t, ByPhoneType, r.Resolve(PhoneTypeAddress("2")).Pattern)
	assert.Equal(t, ByLocation, r.Resolve(LocationAddress("City A")).Pattern)
}

func TestPatternString(t *testing.T) {
	assert.Equal(t, "by_number", ByNumber.String())
	assert.Equal(t, "no_match", NoMatch.String())
	assert.Equal(t, "pattern(99)", Pattern(99).String())
}

func TestSegments(t *testing.T) {
	segs, ok := Segments("content://phonelocation/bylocation/City%20A")
	assert.True(t, ok)
	assert.Equal(t, []string{"phonelocation", "bylocation", "City A"}, segs)

	segs, ok = Segments("//phonelocation//12/")
	assert.False(t, ok, "host without scheme is rejected")
	assert.Nil(t, segs)

	_, ok = Segments("")
	assert.False(t, ok)
}
