// Package testutil provides shared fixtures for packages that consume the
// detail codec. The codec package itself keeps its fixtures inline to avoid
// an import cycle.
package testutil

import (
	"fmt"

	"github.com/getditto-shared/ditto-cot-sub001/internal/detail"
)

// GroupBuilder assembles sibling groups for tests in document order.
//
// Example:
//
//	group := testutil.NewGroup().
//		Add("sensor", "id", "sensor-0").
//		Add("sensor", "id", "sensor-1").
//		AddText("remarks", "on station").
//		Build()
type GroupBuilder struct {
	records detail.SiblingGroup
}

// NewGroup creates an empty builder.
func NewGroup() *GroupBuilder {
	return &GroupBuilder{}
}

// Add appends a record with attributes given as alternating key/value pairs.
// Panics on an odd number of pairs; builders are test-only code where a loud
// failure beats a silent half-record.
func (b *GroupBuilder) Add(name string, kv ...string) *GroupBuilder {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("testutil: odd attribute list for %q", name))
	}

	rec := detail.Record{Name: name}
	if len(kv) > 0 {
		rec.Attrs = make(map[string]string, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			rec.Attrs[kv[i]] = kv[i+1]
		}
	}
	b.records = append(b.records, rec)
	return b
}

// AddText appends a record carrying only text content.
func (b *GroupBuilder) AddText(name, text string) *GroupBuilder {
	b.records = append(b.records, detail.Record{Name: name, Text: text})
	return b
}

// AddRecord appends a fully-specified record, for children and edge cases.
func (b *GroupBuilder) AddRecord(rec detail.Record) *GroupBuilder {
	b.records = append(b.records, rec)
	return b
}

// Build returns the assembled group.
func (b *GroupBuilder) Build() detail.SiblingGroup {
	return b.records
}

// Repeat appends n copies of a record name, each with a distinguishing "id"
// attribute ("{name}-0" .. "{name}-{n-1}").
func (b *GroupBuilder) Repeat(name string, n int) *GroupBuilder {
	for i := 0; i < n; i++ {
		b.Add(name, "id", fmt.Sprintf("%s-%d", name, i))
	}
	return b
}
