package harness

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/phoneloc/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		if event.Type == EventRequest {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", event.Seq, event.Op, event.Address, event.Outcome)
		} else {
			fmt.Fprintf(&buf, "  [%d] change %s\n", event.Seq, event.Address)
		}
	}

	return buf.String()
}

// evaluateAssertions runs every assertion and returns the failure messages.
func (h *Harness) evaluateAssertions(ctx context.Context, assertions []Assertion, result *Result) []string {
	var msgs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertFinalState:
			err = h.assertFinalState(ctx, a, result.Trace)
		case AssertRowCount:
			err = h.assertRowCount(ctx, a, result.Trace)
		case AssertChangeCount:
			err = assertCount(AssertChangeCount, a.Count, result.Changes, result.Trace)
		case AssertBackupMarks:
			err = assertCount(AssertBackupMarks, a.Count, result.BackupMarks, result.Trace)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

// assertFinalState queries the assertion address and subset-matches the
// returned records against the expected rows, in order.
func (h *Harness) assertFinalState(ctx context.Context, a Assertion, trace []TraceEvent) error {
	recs, err := h.provider.Query(ctx, a.Address, store.QueryOptions{})
	if err != nil {
		return fmt.Errorf("final_state query %s: %w", a.Address, err)
	}

	if len(recs) != len(a.Rows) {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%d row(s) at %s", len(a.Rows), a.Address),
			Actual:   fmt.Sprintf("%d row(s)", len(recs)),
			Trace:    trace,
		}
	}

	for i, want := range a.Rows {
		got := recordFields(recs[i])
		if diff := subsetDiff(want, got); diff != "" {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("row %d at %s to match %v", i, a.Address, want),
				Actual:   diff,
				Trace:    trace,
			}
		}
	}
	return nil
}

func (h *Harness) assertRowCount(ctx context.Context, a Assertion, trace []TraceEvent) error {
	n, err := h.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("row_count: %w", err)
	}
	return assertCount(AssertRowCount, a.Count, int(n), trace)
}

func assertCount(typ string, want, got int, trace []TraceEvent) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%d", want),
		Actual:   fmt.Sprintf("%d", got),
		Trace:    trace,
	}
}

func recordFields(r store.Record) map[string]interface{} {
	return map[string]interface{}{
		"_id":         r.ID,
		"number":      r.Number,
		"location":    r.Location,
		"phone_type":  r.PhoneType,
		"engine_type": r.EngineType,
		"user_mark":   r.UserMark,
		"update_time": r.UpdateTime,
	}
}

// subsetDiff describes the first expected field that differs from got, or
// returns "" if all match. Values compare by their printed form so YAML
// ints match int64 columns.
func subsetDiff(want, got map[string]interface{}) string {
	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		g, ok := got[k]
		if !ok {
			return fmt.Sprintf("unknown field %q", k)
		}
		if fmt.Sprint(want[k]) != fmt.Sprint(g) {
			return fmt.Sprintf("field %q = %v, want %v", k, g, want[k])
		}
	}
	return ""
}
