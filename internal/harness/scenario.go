package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/getditto-shared/ditto-cot-sub001/internal/detail"
)

// Scenario defines one codec conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Scope is the owning document id used for stable keys.
	Scope string `yaml:"scope"`

	// Policy selects metadata tagging: "compact" (default) or "verbose".
	Policy string `yaml:"policy,omitempty"`

	// SequenceTags enables global document-order tagging.
	SequenceTags bool `yaml:"sequence_tags,omitempty"`

	// Records is the sibling group to encode, in document order.
	Records []RecordSpec `yaml:"records"`

	// Expect holds assertions on the encoded flat map.
	Expect Expect `yaml:"expect,omitempty"`
}

// RecordSpec mirrors detail.Record in YAML form.
type RecordSpec struct {
	Name     string            `yaml:"name"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Children []RecordSpec      `yaml:"children,omitempty"`
}

// Expect holds the scenario's assertions beyond the always-checked codec
// invariants.
type Expect struct {
	// Keys that must be present in the encoded map, verbatim.
	Keys []string `yaml:"keys,omitempty"`

	// Direct names that must appear as bare keys.
	Direct []string `yaml:"direct,omitempty"`

	// StableCounts maps a repeated name to the number of stable keys it
	// must produce.
	StableCounts map[string]int `yaml:"stable_counts,omitempty"`
}

// LoadScenario reads and schema-validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	if err := ValidateScenario(path, data); err != nil {
		return nil, err
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// Group converts the scenario's record specs into the codec's input shape.
func (s *Scenario) Group() detail.SiblingGroup {
	group := make(detail.SiblingGroup, 0, len(s.Records))
	for _, rs := range s.Records {
		group = append(group, rs.toRecord())
	}
	return group
}

func (rs RecordSpec) toRecord() detail.Record {
	rec := detail.Record{
		Name:  rs.Name,
		Attrs: rs.Attrs,
		Text:  rs.Text,
	}
	for _, child := range rs.Children {
		rec.Children = append(rec.Children, child.toRecord())
	}
	return rec
}

// encodeOptions translates the scenario configuration into codec options.
func (s *Scenario) encodeOptions() ([]detail.EncodeOption, error) {
	var opts []detail.EncodeOption

	switch s.Policy {
	case "", "compact":
		opts = append(opts, detail.WithMetadataPolicy(detail.PolicyCompact))
	case "verbose":
		opts = append(opts, detail.WithMetadataPolicy(detail.PolicyVerbose))
	default:
		return nil, fmt.Errorf("scenario %s: unknown policy %q", s.Name, s.Policy)
	}

	if s.SequenceTags {
		opts = append(opts, detail.WithSequenceTags())
	}

	return opts, nil
}
