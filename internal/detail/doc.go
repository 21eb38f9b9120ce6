// Package detail implements the stable-key codec for schema-less detail
// payloads.
//
// A detail payload is an ordered group of named records where the same name
// may repeat (several "sensor" entries, several "remarks"). Flattening one
// map key per name would silently drop all but the last repeat, so the codec
// assigns repeated names stable, index-suffixed keys of the form
// {scope}_{name}_{index} while unique names keep their bare name as the key.
// Each stable-keyed value carries just enough provenance metadata to
// reconstruct the original grouping after the flat map has been merged
// field-by-field across replicas.
//
// Everything in this package is a pure function over its map argument: no
// module-level state, no locking, no I/O. Two replicas can run the codec
// concurrently against their own copies of a document; cross-replica
// convergence is entirely the job of the consuming store (see docstore).
//
// Known limitation: NextIndex is computed from local map state only. Two
// replicas inserting a new repeat for the same (scope, name) from a common
// snapshot compute the same index, write the same key, and the store's
// last-writer-wins policy silently discards one of the two records. This is
// inherent to the key scheme and is pinned by regression tests rather than
// patched.
package detail
