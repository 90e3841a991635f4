// Package schema holds the persisted layout of the phone location table:
// table and column names, the DDL for each schema version, and the ordered
// migration steps that the store applies on open.
package schema

import "github.com/roach88/phoneloc/internal/queryir"

// Table is the single table holding phone location records.
const Table = "location"

// Column names as exposed at the boundary.
const (
	ColID         = "_id"
	ColNumber     = "number"
	ColLocation   = "location"
	ColPhoneType  = "phone_type"
	ColEngineType = "engine_type"
	ColUserMark   = "user_mark"
	ColUpdateTime = "update_time"
)

// Columns lists every column in table order.
var Columns = []string{
	ColID,
	ColNumber,
	ColLocation,
	ColPhoneType,
	ColEngineType,
	ColUserMark,
	ColUpdateTime,
}

// WritableColumns lists the columns callers may set, in table order.
// _id is assigned by SQLite and never written.
var WritableColumns = []string{
	ColNumber,
	ColLocation,
	ColPhoneType,
	ColEngineType,
	ColUserMark,
	ColUpdateTime,
}

// TextColumns are stored as TEXT; the rest are INTEGER.
var TextColumns = map[string]bool{
	ColNumber:   true,
	ColLocation: true,
	ColUserMark: true,
}

// Fields is the set of columns that filters and sort terms may reference.
var Fields = queryir.FieldSet{
	ColID:         true,
	ColNumber:     true,
	ColLocation:   true,
	ColPhoneType:  true,
	ColEngineType: true,
	ColUserMark:   true,
	ColUpdateTime: true,
}

// IsWritable reports whether col may appear in a write.
func IsWritable(col string) bool {
	return col != ColID && Fields[col]
}

// DefaultSort is applied when a query supplies no ordering.
var DefaultSort = []queryir.Sort{{Field: ColUpdateTime}}
