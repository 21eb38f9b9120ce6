package harness

import (
	"context"
	"fmt"

	"github.com/getditto-shared/ditto-cot-sub001/internal/detail"
	"github.com/getditto-shared/ditto-cot-sub001/internal/docstore"
	"github.com/getditto-shared/ditto-cot-sub001/internal/flatval"
)

// Result holds everything a scenario run produced, for further assertions
// and golden comparison.
type Result struct {
	// Encoded is the flat map produced directly by the codec.
	Encoded detail.FlatMap

	// Stored is the flat map read back from the field store.
	Stored detail.FlatMap

	// Decoded is the sibling group reconstructed from Stored.
	Decoded detail.SiblingGroup
}

// Run executes a scenario end to end: encode the sibling group, round it
// through a fresh in-memory field store, decode, and check the codec
// invariants plus the scenario's expectations. Each scenario runs against
// its own store for isolation.
func Run(scenario *Scenario) (*Result, error) {
	opts, err := scenario.encodeOptions()
	if err != nil {
		return nil, err
	}

	group := scenario.Group()
	encoded, err := detail.Encode(group, scenario.Scope, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: encode: %w", scenario.Name, err)
	}

	if err := checkInvariants(scenario, group, encoded); err != nil {
		return nil, err
	}

	store, err := docstore.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("scenario %s: open store: %w", scenario.Name, err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.UpsertFields(ctx, scenario.Scope, encoded); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	stored, err := store.Detail(ctx, scenario.Scope)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	if len(stored) != len(encoded) {
		return nil, fmt.Errorf("scenario %s: store returned %d fields, encoded %d", scenario.Name, len(stored), len(encoded))
	}
	for key, want := range encoded {
		got, ok := stored[key]
		if !ok {
			return nil, fmt.Errorf("scenario %s: field %q missing after store round", scenario.Name, key)
		}
		if !flatval.Equal(want, got) {
			return nil, fmt.Errorf("scenario %s: field %q changed across the store", scenario.Name, key)
		}
	}

	decoded := detail.Decode(stored)
	if len(decoded) != len(group) {
		return nil, fmt.Errorf("scenario %s: decoded %d records, encoded %d", scenario.Name, len(decoded), len(group))
	}

	if err := checkExpectations(scenario, encoded); err != nil {
		return nil, err
	}

	return &Result{Encoded: encoded, Stored: stored, Decoded: decoded}, nil
}

// checkInvariants verifies the codec's key-shape guarantees against the
// tallied input: unique names map to a bare key and nothing else, repeated
// names map to exactly indices 0..k-1 and no bare key, and the map carries
// one key per input record.
func checkInvariants(scenario *Scenario, group detail.SiblingGroup, encoded detail.FlatMap) error {
	if len(encoded) != len(group) {
		return fmt.Errorf("scenario %s: %d keys for %d records", scenario.Name, len(encoded), len(group))
	}

	for name, count := range detail.Tally(group) {
		_, hasDirect := encoded[name]

		if count == 1 {
			if !hasDirect {
				return fmt.Errorf("scenario %s: singleton %q has no direct key", scenario.Name, name)
			}
			key := detail.StableKey{Scope: scenario.Scope, Name: name, Index: 0}.String()
			if _, ok := encoded[key]; ok {
				return fmt.Errorf("scenario %s: singleton %q also has stable key %q", scenario.Name, name, key)
			}
			continue
		}

		if hasDirect {
			return fmt.Errorf("scenario %s: repeated %q has a direct key", scenario.Name, name)
		}
		for i := 0; i < count; i++ {
			key := detail.StableKey{Scope: scenario.Scope, Name: name, Index: i}.String()
			if _, ok := encoded[key]; !ok {
				return fmt.Errorf("scenario %s: repeated %q missing stable key %q", scenario.Name, name, key)
			}
		}
		key := detail.StableKey{Scope: scenario.Scope, Name: name, Index: count}.String()
		if _, ok := encoded[key]; ok {
			return fmt.Errorf("scenario %s: repeated %q has excess stable key %q", scenario.Name, name, key)
		}
	}

	return nil
}

// checkExpectations verifies the scenario's explicit expect clauses.
func checkExpectations(scenario *Scenario, encoded detail.FlatMap) error {
	for _, key := range scenario.Expect.Keys {
		if _, ok := encoded[key]; !ok {
			return fmt.Errorf("scenario %s: expected key %q absent", scenario.Name, key)
		}
	}

	for _, name := range scenario.Expect.Direct {
		if _, ok := encoded[name]; !ok {
			return fmt.Errorf("scenario %s: expected direct key %q absent", scenario.Name, name)
		}
	}

	for name, want := range scenario.Expect.StableCounts {
		got := 0
		for key := range encoded {
			if sk, ok := detail.ParseStableKey(key); ok && sk.Scope == scenario.Scope && sk.Name == name {
				got++
			}
		}
		if got != want {
			return fmt.Errorf("scenario %s: %d stable keys for %q, expected %d", scenario.Name, got, name, want)
		}
	}

	return nil
}
