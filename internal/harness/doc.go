// Package harness provides a conformance testing framework for the detail
// codec.
//
// Scenarios are YAML files describing a sibling group, an encode
// configuration, and expectations about the resulting flat map. Each
// scenario is validated against an embedded CUE schema before running, then
// executed end to end: encode, round through a fresh in-memory field store,
// decode, and check the codec invariants (direct/stable key split, gapless
// document-order indices, round-trip record counts). Canonical-JSON encodes
// are additionally compared against golden files under testdata/golden.
package harness
