package queryir

import "fmt"

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// Equals represents a field-equals-literal predicate.
//
//	<field> = ?
//
// Value is bound as a parameter and never interpolated.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// Op is a comparison operator usable in Compare.
type Op string

const (
	OpEq   Op = "="
	OpNe   Op = "!="
	OpLt   Op = "<"
	OpLe   Op = "<="
	OpGt   Op = ">"
	OpGe   Op = ">="
	OpLike Op = "LIKE"
)

// validOps lists the operators Compare accepts.
var validOps = map[Op]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true, OpLike: true,
}

// Valid reports whether op is a supported operator.
func (op Op) Valid() bool {
	return validOps[op]
}

// Compare represents a field-operator-literal predicate.
//
//	<field> <op> ?
type Compare struct {
	Field string
	Op    Op
	Value any
}

func (Compare) predicateNode() {}

// And represents a conjunction of predicates. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Conj combines predicates conjunctively, dropping nils.
// Returns nil when nothing remains and the single predicate when only one does.
func Conj(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p == nil {
			continue
		}
		if and, ok := p.(And); ok && len(and.Predicates) == 0 {
			continue
		}
		kept = append(kept, p)
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}

// Sort is one ORDER BY term.
type Sort struct {
	Field string
	Desc  bool
}

// String renders the term as "field ASC" or "field DESC".
func (s Sort) String() string {
	if s.Desc {
		return fmt.Sprintf("%s DESC", s.Field)
	}
	return fmt.Sprintf("%s ASC", s.Field)
}
