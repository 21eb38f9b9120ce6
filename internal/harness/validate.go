package harness

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var scenarioSchema string

// ValidateScenario checks raw scenario YAML against the embedded CUE schema.
// Returns a position-bearing error for unknown fields, missing required
// fields, and type mismatches; nil when the document conforms.
func ValidateScenario(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Scenario: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse scenario %s: %w", filename, err)
	}

	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return fmt.Errorf("build scenario %s: %w", filename, err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return fmt.Errorf("scenario %s does not conform to schema: %w", filename, err)
	}

	return nil
}
