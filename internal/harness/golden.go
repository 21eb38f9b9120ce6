package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/getditto-shared/ditto-cot-sub001/internal/flatval"
)

// RunWithGolden executes a scenario and compares its canonical-JSON encode
// against a golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for the wire layout: any change to
// key naming, metadata tagging, or canonical serialization shows up as a
// golden diff here before it shows up as a cross-replica divergence in a
// shared store.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	encodedJSON, err := flatval.MarshalCanonical(flatval.Object(result.Encoded))
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, encodedJSON)

	return result, nil
}
