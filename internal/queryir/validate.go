package queryir

import "fmt"

// FieldSet is the set of field names a predicate or sort may reference.
type FieldSet map[string]bool

// Validate checks that every field referenced by p belongs to fields and that
// every operator is supported. A nil predicate is valid.
//
// Validate is a pure function with no side effects.
func Validate(p Predicate, fields FieldSet) error {
	switch pred := p.(type) {
	case nil:
		return nil
	case Equals:
		return checkField(pred.Field, fields)
	case Compare:
		if !pred.Op.Valid() {
			return fmt.Errorf("unsupported operator %q", pred.Op)
		}
		return checkField(pred.Field, fields)
	case And:
		for i, sub := range pred.Predicates {
			if sub == nil {
				return fmt.Errorf("and[%d]: nil predicate", i)
			}
			if err := Validate(sub, fields); err != nil {
				return fmt.Errorf("and[%d]: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// ValidateSort checks that every sort term references a known field.
func ValidateSort(sorts []Sort, fields FieldSet) error {
	for i, s := range sorts {
		if err := checkField(s.Field, fields); err != nil {
			return fmt.Errorf("sort[%d]: %w", i, err)
		}
	}
	return nil
}

func checkField(name string, fields FieldSet) error {
	if name == "" {
		return fmt.Errorf("empty field name")
	}
	if !fields[name] {
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}
