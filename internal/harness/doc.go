// Package harness runs conformance scenarios against the phone location
// provider.
//
// A scenario is a YAML file naming setup records, a flow of addressed
// requests with optional expectations, and assertions on the final state.
// Each scenario runs against a fresh in-memory database with a deterministic
// clock, so the trace it produces is reproducible and can be compared to a
// golden file.
//
// # Scenario Format
//
//	name: upsert_city_change
//	description: A second upsert updates the record in place.
//	setup:
//	  - {number: "1001", location: CityA}
//	flow:
//	  - op: update
//	    address: /phonelocation/bynumber/5551234
//	    values: {location: CityA}
//	    expect: {count: 1}
//	  - op: update
//	    address: /phonelocation/bynumber/5551234
//	    values: {location: CityB}
//	    where: {location: CityA}
//	    expect: {outcome: MISUSE}
//	assertions:
//	  - type: final_state
//	    address: /phonelocation/bynumber/5551234
//	    rows:
//	      - {location: CityA}
//	  - type: change_count
//	    count: 1
//
// Supported ops: query, insert, update, delete. An expectation's outcome is
// "ok" (the default) or a fault kind: ROUTING, MISUSE, VALIDATION, STORAGE.
//
// # Trace
//
// The trace lists one "request" event per flow step and one "change" event
// per change notification, in the order they happened. Setup is not traced.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/upsert_city_change.yaml")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	require.NoError(t, harness.RunWithGolden(t, scenario))
package harness
