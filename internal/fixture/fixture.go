// Package fixture reads phone location records from YAML files for bulk
// import.
//
// A fixture file looks like:
//
//	name: carriers-2024
//	records:
//	  - number: "5551234"
//	    location: CityA
//	    phone_type: 1
//	    engine_type: 0
//
// Only number is required. Omitted fields are left out of the written
// values, so an upsert does not overwrite them.
package fixture

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/phoneloc/internal/schema"
	"github.com/roach88/phoneloc/internal/store"
)

// File is a parsed fixture file.
type File struct {
	// Name identifies the fixture in logs.
	Name string `yaml:"name,omitempty"`

	Records []Record `yaml:"records"`
}

// Record is one entry. Pointer fields distinguish "absent" from zero.
type Record struct {
	Number     string  `yaml:"number"`
	Location   *string `yaml:"location,omitempty"`
	PhoneType  *int64  `yaml:"phone_type,omitempty"`
	EngineType *int64  `yaml:"engine_type,omitempty"`
	UserMark   *string `yaml:"user_mark,omitempty"`
	UpdateTime *int64  `yaml:"update_time,omitempty"`
}

// Values returns the columns set in r.
func (r Record) Values() store.Values {
	v := store.Values{schema.ColNumber: r.Number}
	if r.Location != nil {
		v[schema.ColLocation] = *r.Location
	}
	if r.PhoneType != nil {
		v[schema.ColPhoneType] = *r.PhoneType
	}
	if r.EngineType != nil {
		v[schema.ColEngineType] = *r.EngineType
	}
	if r.UserMark != nil {
		v[schema.ColUserMark] = *r.UserMark
	}
	if r.UpdateTime != nil {
		v[schema.ColUpdateTime] = *r.UpdateTime
	}
	return v
}

// Load reads and parses a fixture file.
// Unknown fields are rejected to catch typos like "phonetype:".
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture YAML from data.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

func validate(f *File) error {
	if len(f.Records) == 0 {
		return fmt.Errorf("records list is required and must be non-empty")
	}
	for i, r := range f.Records {
		if r.Number == "" {
			return fmt.Errorf("records[%d]: number is required", i)
		}
	}
	return nil
}
