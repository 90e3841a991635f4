package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/phoneloc/internal/notify"
	"github.com/roach88/phoneloc/internal/provider"
	"github.com/roach88/phoneloc/internal/queryir"
	"github.com/roach88/phoneloc/internal/route"
	"github.com/roach88/phoneloc/internal/store"
	"github.com/roach88/phoneloc/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	store    *store.Store
	provider *provider.Provider
	notifier *notify.Notifier
	marker   *testutil.RecordingHook
	logger   *slog.Logger

	// pending holds changes observed during the current request.
	pending []notify.Change
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database with a deterministic clock
// 2. Insert setup records
// 3. Observe the collection and execute flow steps with expect validation
// 4. Evaluate assertions
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	marker := &testutil.RecordingHook{}
	n := notify.New(notify.WithBackupMarker(marker), notify.WithLogger(logger))

	st, err := store.Open(":memory:",
		store.WithClock(testutil.NewDeterministicClock(0, 1)),
		store.WithChangeHook(n),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		provider: provider.New(st, provider.WithLogger(logger)),
		notifier: n,
		marker:   marker,
		logger:   logger,
	}

	if err := h.executeSetup(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	// Observe only the flow.
	marker.Reset()
	handle, err := n.Register(route.CollectionAddress, true, notify.ObserverFunc(func(c notify.Change) {
		h.pending = append(h.pending, c)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to observe collection: %w", err)
	}
	defer n.Unregister(handle)

	result := NewResult()
	h.executeFlow(ctx, scenario.Flow, result)
	result.BackupMarks = marker.Marks()

	for _, msg := range h.evaluateAssertions(ctx, scenario.Assertions, result) {
		result.AddError(msg)
	}

	return result, nil
}

// executeSetup inserts every setup record. A record that is not inserted
// fails the scenario.
func (h *Harness) executeSetup(ctx context.Context, setup []map[string]interface{}) error {
	for i, values := range setup {
		_, inserted, err := h.provider.Insert(ctx, route.CollectionAddress, store.Values(values))
		if err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
		if !inserted {
			return fmt.Errorf("setup[%d]: duplicate number %v", i, values["number"])
		}
	}
	return nil
}

// executeFlow runs all flow steps, traces them and validates expect clauses.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) {
	for i, step := range flow {
		event := h.execute(ctx, step)
		result.addEvent(event)

		for _, c := range h.pending {
			result.addEvent(TraceEvent{Type: EventChange, Address: c.Address})
			result.Changes++
		}
		h.pending = h.pending[:0]

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, event) {
				result.AddError(fmt.Sprintf("flow[%d] %s %s: %s", i, step.Op, step.Address, msg))
			}
		}

		h.logger.Info("flow step completed", "step", i, "op", step.Op, "address", step.Address, "outcome", event.Outcome)
	}
}

// execute performs one step and describes its outcome.
func (h *Harness) execute(ctx context.Context, step FlowStep) TraceEvent {
	event := TraceEvent{Type: EventRequest, Op: step.Op, Address: step.Address, Outcome: OutcomeOK}
	filter := whereToPredicate(step.Where)

	var (
		count int64
		err   error
	)
	switch step.Op {
	case OpQuery:
		var recs []store.Record
		recs, err = h.provider.Query(ctx, step.Address, store.QueryOptions{Filter: filter})
		count = int64(len(recs))
	case OpInsert:
		var (
			item     string
			inserted bool
		)
		item, inserted, err = h.provider.Insert(ctx, step.Address, store.Values(step.Values))
		if err == nil {
			event.Item = item
			event.Inserted = &inserted
		}
	case OpUpdate:
		count, err = h.provider.Update(ctx, step.Address, store.Values(step.Values), filter)
	case OpDelete:
		count = h.provider.Delete(ctx, step.Address, filter)
	}

	if err != nil {
		event.Outcome = outcomeOf(err)
		return event
	}
	if step.Op != OpInsert {
		event.Count = &count
	}
	return event
}

// whereToPredicate builds an equality conjunction, ordered by field name.
func whereToPredicate(where map[string]interface{}) queryir.Predicate {
	fields := make([]string, 0, len(where))
	for f := range where {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	preds := make([]queryir.Predicate, 0, len(fields))
	for _, f := range fields {
		preds = append(preds, queryir.Equals{Field: f, Value: where[f]})
	}
	return queryir.Conj(preds...)
}

func outcomeOf(err error) string {
	var f *provider.Fault
	if errors.As(err, &f) {
		return string(f.Kind)
	}
	return "ERROR"
}

// checkExpect compares an event to its expect clause.
func checkExpect(expect *ExpectClause, event TraceEvent) []string {
	var msgs []string

	want := expect.Outcome
	if want == "" {
		want = OutcomeOK
	}
	if event.Outcome != want {
		msgs = append(msgs, fmt.Sprintf("expected outcome %s, got %s", want, event.Outcome))
	}

	if expect.Count != nil {
		if event.Count == nil {
			msgs = append(msgs, fmt.Sprintf("expected count %d, got none", *expect.Count))
		} else if *event.Count != *expect.Count {
			msgs = append(msgs, fmt.Sprintf("expected count %d, got %d", *expect.Count, *event.Count))
		}
	}

	if expect.Inserted != nil {
		if event.Inserted == nil {
			msgs = append(msgs, fmt.Sprintf("expected inserted=%t, got none", *expect.Inserted))
		} else if *event.Inserted != *expect.Inserted {
			msgs = append(msgs, fmt.Sprintf("expected inserted=%t, got %t", *expect.Inserted, *event.Inserted))
		}
	}

	return msgs
}
