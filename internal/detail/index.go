package detail

// NextIndex returns the index a brand-new repeated record for (scope, name)
// should be inserted under: one past the highest existing stable index, or 0
// if none exist. Gaps left by removed fields are not reused.
//
// The result is computed purely from LOCAL map state. If two replicas call
// NextIndex against a common pre-divergence snapshot and each inserts a new
// record for the same (scope, name), both compute the same index and write
// the same key; the store's last-writer-wins merge then keeps only one of
// the two records. Avoiding that collision needs an out-of-band uniqueness
// source (a per-replica salt in the key, or a synchronized counter), neither
// of which this scheme carries. The hazard is pinned by regression tests.
func NextIndex(m FlatMap, scope, name string) (int, error) {
	if scope == "" {
		return 0, ErrEmptyScope
	}

	next := 0
	for key := range m {
		sk, ok := ParseStableKey(key)
		if !ok || sk.Scope != scope || sk.Name != name {
			continue
		}
		if sk.Index+1 > next {
			next = sk.Index + 1
		}
	}
	return next, nil
}
