package docstore

import (
	"context"
	"fmt"

	"github.com/getditto-shared/ditto-cot-sub001/internal/detail"
	"github.com/getditto-shared/ditto-cot-sub001/internal/flatval"
)

// UpsertFields writes every entry of the flat map as one field row. Each
// field gets its own write stamp; a write only lands if its stamp is not
// older than what is stored (last writer wins). Values are serialized to
// canonical JSON so identical maps produce identical rows.
func (s *Store) UpsertFields(ctx context.Context, docID string, fields detail.FlatMap) error {
	if docID == "" {
		return fmt.Errorf("upsert fields: %w", detail.ErrEmptyScope)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert fields: %w", err)
	}
	defer tx.Rollback()

	for key, val := range fields {
		data, err := flatval.MarshalCanonical(val)
		if err != nil {
			return fmt.Errorf("upsert field %q: %w", key, err)
		}

		stamp := s.stamp.Add(1)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO fields (doc_id, key, value, stamp)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(doc_id, key) DO UPDATE
			SET value = excluded.value, stamp = excluded.stamp
			WHERE excluded.stamp >= fields.stamp
		`, docID, key, string(data), stamp)
		if err != nil {
			return fmt.Errorf("upsert field %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert fields: %w", err)
	}
	return nil
}

// Detail reads back all fields of a document as a flat map. A document with
// no rows yields an empty, non-nil map.
func (s *Store) Detail(ctx context.Context, docID string) (detail.FlatMap, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM fields WHERE doc_id = ?
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("read detail: %w", err)
	}
	defer rows.Close()

	out := detail.FlatMap{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("read detail: %w", err)
		}

		val, err := flatval.Unmarshal([]byte(value))
		if err != nil {
			return nil, fmt.Errorf("read detail field %q: %w", key, err)
		}
		out[key] = val
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read detail: %w", err)
	}

	return out, nil
}

// RemoveField deletes one field row. Removing a stable-keyed field leaves a
// gap in that name's index space; detail.NextIndex never reuses it. The real
// engine tombstones instead of deleting, which this stand-in does not model.
func (s *Store) RemoveField(ctx context.Context, docID, key string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM fields WHERE doc_id = ? AND key = ?
	`, docID, key); err != nil {
		return fmt.Errorf("remove field %q: %w", key, err)
	}
	return nil
}
