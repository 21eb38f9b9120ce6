// Package flatval provides the tagged-union value type stored under flat
// detail keys.
//
// This package contains value types and their serialization only. All other
// internal packages import flatval; flatval imports nothing internal. This
// ensures the value layer remains foundational with no circular dependencies.
//
// Key design constraints:
//   - Closed union: Null, Bool, Int, Float, String, Array, Object — nothing else
//   - Coercion is total: FromAny never fails, unexpected shapes become strings
//   - Canonical serialization (sorted keys, NFC) for anything compared
//     byte-for-byte
package flatval
