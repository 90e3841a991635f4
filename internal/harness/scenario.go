package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup lists records inserted through the collection address before
	// the flow. Setup inserts must succeed and are not traced.
	Setup []map[string]interface{} `yaml:"setup,omitempty"`

	// Flow contains the requests under test.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final state.
	// Supported types: final_state, row_count, change_count, backup_marks
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one addressed request.
type FlowStep struct {
	// Op is query, insert, update or delete.
	Op string `yaml:"op"`

	// Address is the request address.
	Address string `yaml:"address"`

	// Values are the columns written by insert and update.
	Values map[string]interface{} `yaml:"values,omitempty"`

	// Where is an equality filter ANDed with the address.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, no validation is performed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Outcome is "ok" or a fault kind. Empty means "ok".
	Outcome string `yaml:"outcome,omitempty"`

	// Count is the expected affected (update, delete) or returned (query)
	// row count.
	Count *int64 `yaml:"count,omitempty"`

	// Inserted is the expected insert result.
	Inserted *bool `yaml:"inserted,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_state": query Address and subset-match Rows in order
	// - "row_count": total records equals Count
	// - "change_count": change notifications during the flow equal Count
	// - "backup_marks": backup marks during the flow equal Count
	Type string `yaml:"type"`

	// Address is the address queried by final_state.
	Address string `yaml:"address,omitempty"`

	// Rows are the expected records (used by final_state).
	// Subset match - only specified fields are validated.
	Rows []map[string]interface{} `yaml:"rows,omitempty"`

	// Count is the expected number (used by the count assertions).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState  = "final_state"
	AssertRowCount    = "row_count"
	AssertChangeCount = "change_count"
	AssertBackupMarks = "backup_marks"
)

// Flow operations.
const (
	OpQuery  = "query"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		switch step.Op {
		case OpQuery, OpInsert, OpUpdate, OpDelete:
		case "":
			return fmt.Errorf("flow[%d]: op is required", i)
		default:
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
		if step.Address == "" {
			return fmt.Errorf("flow[%d]: address is required", i)
		}
		if (step.Op == OpInsert || step.Op == OpUpdate) && step.Values == nil {
			return fmt.Errorf("flow[%d]: values are required for %s", i, step.Op)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertFinalState:
			if a.Address == "" {
				return fmt.Errorf("assertions[%d]: final_state requires address", i)
			}
		case AssertRowCount, AssertChangeCount, AssertBackupMarks:
		case "":
			return fmt.Errorf("assertions[%d]: type is required", i)
		default:
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}
	}

	return nil
}
