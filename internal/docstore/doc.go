// Package docstore pins the shape of the external document store the codec
// is written against, and provides a local SQLite-backed reference
// implementation of it.
//
// The real consumer is a peer-to-peer CRDT store that merges documents at
// the granularity of individual flat-map fields with a last-writer-wins
// policy. That engine is out of scope here; this package exists so that
// (a) the FieldStore interface the codec is consumed through is concrete
// and compiled against, and (b) the cross-replica insertion hazard of
// detail.NextIndex can be demonstrated end-to-end in tests instead of only
// argued about. There are no tombstones, no transport, and no peer
// discovery.
package docstore
