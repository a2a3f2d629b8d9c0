// Package keyindex maintains the bijection between a stable row key and the
// row's current physical position. The Index owns every mutation of that
// mapping; callers only resolve, insert, remove and rebuild.
package keyindex

import (
	"strconv"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Accessor addresses a row either by position or by key. Exactly one of
// the two must be set; use ByIndex or ByKey to build one.
type Accessor struct {
	Index *int
	Key   interface{}
}

// ByIndex addresses the row at position n
func ByIndex(n int) Accessor {
	return Accessor{Index: &n}
}

// ByKey addresses the row with key k
func ByKey(k interface{}) Accessor {
	return Accessor{Key: k}
}

// Index maps keys to row positions. Keys are of one semantic type
// (categorical or quantitative) and unique.
type Index struct {
	keyToRow map[interface{}]int
	keyType  datatype.Type
	// next is the counter for generated keys; it never decreases so that a
	// generated key is never reused after a delete
	next int
}

// New creates an empty index
func New() *Index {
	return &Index{keyToRow: make(map[interface{}]int)}
}

// Generate returns n dense stringified keys "0", "1", ...
func Generate(n int) []interface{} {
	keys := make([]interface{}, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

// Build creates an index from a key column, validating type and uniqueness.
func Build(keys []interface{}) (*Index, error) {
	idx := New()
	if err := idx.Rebuild(keys); err != nil {
		return nil, err
	}
	return idx, nil
}

// Rebuild replaces the mapping with one built from keys. On failure the
// index is left unchanged.
func (idx *Index) Rebuild(keys []interface{}) error {
	keyType := datatype.Invalid
	keyToRow := make(map[interface{}]int, len(keys))
	next := idx.next

	for row, raw := range keys {
		key, t, err := normalize(raw)
		if err != nil {
			return err.WithDetail("row", row)
		}
		if keyType == datatype.Invalid {
			keyType = t
		} else if t != keyType {
			return errors.Newf(errors.ErrorTypeKey,
				"keys must share one type, found %s and %s", keyType, t).
				WithDetail("row", row)
		}
		if prev, dup := keyToRow[key]; dup {
			return errors.Newf(errors.ErrorTypeKey, "duplicate key %v", key).
				WithDetail("key", key).
				WithDetail("rows", []int{prev, row})
		}
		keyToRow[key] = row
		if n := generatedOrdinal(key); n >= next {
			next = n + 1
		}
	}

	idx.keyToRow = keyToRow
	idx.keyType = keyType
	idx.next = next
	return nil
}

// Resolve returns the row position addressed by acc. Index accessors are
// returned as-is; bounds are checked by the caller.
func (idx *Index) Resolve(acc Accessor) (int, error) {
	hasIndex := acc.Index != nil
	hasKey := acc.Key != nil
	if hasIndex == hasKey {
		return 0, errors.New(errors.ErrorTypeKey,
			"invalid accessor: exactly one of index or key must be set")
	}
	if hasIndex {
		return *acc.Index, nil
	}

	key, _, err := normalize(acc.Key)
	if err != nil {
		return 0, err
	}
	row, ok := idx.keyToRow[key]
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeKey, "key %v not found", acc.Key).
			WithDetail("key", acc.Key)
	}
	return row, nil
}

// Has reports whether key is present
func (idx *Index) Has(key interface{}) bool {
	k, _, err := normalize(key)
	if err != nil {
		return false
	}
	_, ok := idx.keyToRow[k]
	return ok
}

// Check validates that key could be inserted: right type and not taken.
func (idx *Index) Check(key interface{}) error {
	k, t, err := normalize(key)
	if err != nil {
		return err
	}
	if idx.keyType != datatype.Invalid && t != idx.keyType {
		return errors.Newf(errors.ErrorTypeKey,
			"key %v is %s, index holds %s keys", key, t, idx.keyType).WithDetail("key", key)
	}
	if _, dup := idx.keyToRow[k]; dup {
		return errors.Newf(errors.ErrorTypeKey, "duplicate key %v", key).WithDetail("key", key)
	}
	return nil
}

// Insert maps key to row. The key must pass Check.
func (idx *Index) Insert(key interface{}, row int) error {
	if err := idx.Check(key); err != nil {
		return err
	}
	k, t, _ := normalize(key)
	if idx.keyType == datatype.Invalid {
		idx.keyType = t
	}
	idx.keyToRow[k] = row
	if n := generatedOrdinal(k); n >= idx.next {
		idx.next = n + 1
	}
	return nil
}

// Remove deletes the entry for key
func (idx *Index) Remove(key interface{}) error {
	k, _, err := normalize(key)
	if err != nil {
		return err
	}
	if _, ok := idx.keyToRow[k]; !ok {
		return errors.Newf(errors.ErrorTypeKey, "key %v not found", key).WithDetail("key", key)
	}
	delete(idx.keyToRow, k)
	return nil
}

// Replace swaps oldKey for newKey at the same row, checking for a collision
// with a different row before committing.
func (idx *Index) Replace(oldKey, newKey interface{}) error {
	oldK, _, err := normalize(oldKey)
	if err != nil {
		return err
	}
	row, ok := idx.keyToRow[oldK]
	if !ok {
		return errors.Newf(errors.ErrorTypeKey, "key %v not found", oldKey).WithDetail("key", oldKey)
	}
	newK, _, err := normalize(newKey)
	if err != nil {
		return err
	}
	if newK == oldK {
		return nil
	}
	if err := idx.Check(newKey); err != nil {
		return err
	}
	delete(idx.keyToRow, oldK)
	idx.keyToRow[newK] = row
	if n := generatedOrdinal(newK); n >= idx.next {
		idx.next = n + 1
	}
	return nil
}

// NextKey returns the key a default-keyed table assigns to its next row:
// one greater than every generated key seen so far.
func (idx *Index) NextKey() string {
	return strconv.Itoa(idx.next)
}

// Clone returns an independent copy of the index
func (idx *Index) Clone() *Index {
	keyToRow := make(map[interface{}]int, len(idx.keyToRow))
	for k, row := range idx.keyToRow {
		keyToRow[k] = row
	}
	return &Index{keyToRow: keyToRow, keyType: idx.keyType, next: idx.next}
}

// Len returns the number of keys
func (idx *Index) Len() int { return len(idx.keyToRow) }

// KeyType returns the semantic type of the keys, Invalid when empty
func (idx *Index) KeyType() datatype.Type { return idx.keyType }

// normalize maps a key to its map identity. Numbers collapse to float64 so
// that 1 and 1.0 address the same row.
func normalize(key interface{}) (interface{}, datatype.Type, *errors.Error) {
	switch t := datatype.TypeOf(key); t {
	case datatype.Categorical:
		return key.(string), t, nil
	case datatype.Quantitative:
		f, _ := datatype.ToFloat(key)
		return f, t, nil
	case datatype.Invalid:
		return nil, t, errors.Newf(errors.ErrorTypeKey, "invalid key %v", key).WithDetail("key", key)
	default:
		return nil, t, errors.Newf(errors.ErrorTypeKey,
			"keys must be categorical or quantitative, found %s", t).WithDetail("key", key)
	}
}

// generatedOrdinal returns n for keys shaped like generated keys ("n" or n),
// or -1.
func generatedOrdinal(key interface{}) int {
	switch k := key.(type) {
	case string:
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 || strconv.Itoa(n) != k {
			return -1
		}
		return n
	case float64:
		if k >= 0 && k == float64(int(k)) {
			return int(k)
		}
	}
	return -1
}
