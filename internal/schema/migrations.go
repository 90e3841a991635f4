package schema

// CurrentVersion is the schema version new databases are brought to.
//
// Version history:
// 1 - location table with UNIQUE(number)
// 2 - secondary index on location(number)
const CurrentVersion = 2

// IndexNumber is the name of the secondary index added in version 2.
const IndexNumber = "idx_location_number"

// Migration is one schema step. Statements must be idempotent: a step may be
// re-run against a database that already has some of its effects.
// Migrations never drop or rewrite rows.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

const createLocation = `CREATE TABLE IF NOT EXISTS location (
    _id INTEGER PRIMARY KEY,
    number TEXT UNIQUE,
    location TEXT,
    phone_type INTEGER,
    engine_type INTEGER,
    user_mark TEXT,
    update_time INTEGER
)`

const createNumberIndex = `CREATE INDEX IF NOT EXISTS idx_location_number ON location(number)`

// Migrations lists every step in ascending version order.
var Migrations = []Migration{
	{Version: 1, Name: "create location table", Statements: []string{createLocation}},
	{Version: 2, Name: "index location number", Statements: []string{createNumberIndex}},
}

// Pending returns the migrations needed to move from version from to version
// to, in order. Returns nil when from >= to.
func Pending(from, to int) []Migration {
	var out []Migration
	for _, m := range Migrations {
		if m.Version > from && m.Version <= to {
			out = append(out, m)
		}
	}
	return out
}
