package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/phoneloc/internal/queryir"
	"github.com/roach88/phoneloc/internal/store"
)

// parseSet turns "col=value" assignments into Values. Values stay strings;
// the store converts decimal strings for integer columns. An assignment of
// the form "col=" writes an empty string and "col:null" writes NULL.
func parseSet(assignments []string) (store.Values, error) {
	v := make(store.Values, len(assignments))
	for _, a := range assignments {
		if col, ok := strings.CutSuffix(a, ":null"); ok && !strings.Contains(col, "=") {
			v[col] = nil
			continue
		}
		col, val, ok := strings.Cut(a, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected col=value", a)
		}
		v[col] = val
	}
	return v, nil
}

// whereOps lists two-character operators first so they win ties with
// their one-character prefixes.
var whereOps = []struct {
	token string
	op    queryir.Op
}{
	{"!=", queryir.OpNe},
	{"<=", queryir.OpLe},
	{">=", queryir.OpGe},
	{"~", queryir.OpLike},
	{"=", queryir.OpEq},
	{"<", queryir.OpLt},
	{">", queryir.OpGt},
}

// parseWhere turns terms like "location=CityA", "phone_type>=2" or
// "number~555%" into a conjunctive predicate. No terms yields nil.
func parseWhere(terms []string) (queryir.Predicate, error) {
	preds := make([]queryir.Predicate, 0, len(terms))
	for _, term := range terms {
		p, err := parseTerm(term)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return queryir.Conj(preds...), nil
}

func parseTerm(term string) (queryir.Predicate, error) {
	best, at := -1, -1
	for i, w := range whereOps {
		idx := strings.Index(term, w.token)
		if idx > 0 && (at < 0 || idx < at) {
			best, at = i, idx
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("invalid where term %q: expected col<op>value with op one of = != < <= > >= ~", term)
	}

	w := whereOps[best]
	field, value := term[:at], term[at+len(w.token):]
	if w.op == queryir.OpEq {
		return queryir.Equals{Field: field, Value: value}, nil
	}
	return queryir.Compare{Field: field, Op: w.op, Value: value}, nil
}

// parseSort turns "col" or "col:desc" into sort terms.
func parseSort(terms []string) ([]queryir.Sort, error) {
	sorts := make([]queryir.Sort, 0, len(terms))
	for _, term := range terms {
		field, dir, _ := strings.Cut(term, ":")
		s := queryir.Sort{Field: field}
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			s.Desc = true
		default:
			return nil, fmt.Errorf("invalid sort %q: direction must be asc or desc", term)
		}
		sorts = append(sorts, s)
	}
	return sorts, nil
}
