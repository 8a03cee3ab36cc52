package value

import "github.com/arloliu/kvon/kverr"

// keyAllowed is a 256-entry whitelist table for the key grammar
// [A-Za-z0-9_-], built once at init time for O(1) membership checks.
var keyAllowed = func() [256]bool {
	var t [256]bool
	for c := byte('a'); c <= 'z'; c++ {
		t[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		t[c] = true
	}
	for c := byte('0'); c <= '9'; c++ {
		t[c] = true
	}
	t['_'] = true
	t['-'] = true

	return t
}()

// ValidateKey checks that key is non-empty and every byte is drawn from the
// whitelist [A-Za-z0-9_-]. It runs in O(len(key)).
func ValidateKey(key string) error {
	if len(key) == 0 {
		return kverr.ForKey(kverr.KindInvalidKey, "key must not be empty", key)
	}

	for i := 0; i < len(key); i++ {
		if !keyAllowed[key[i]] {
			return kverr.ForKey(kverr.KindInvalidKey, "key contains a byte outside [A-Za-z0-9_-]", key)
		}
	}

	return nil
}

// field is one ordered (key, value) pair of a Record.
type field struct {
	key   string
	value Value
}

// Record is an ordered mapping from Key to Value. Field order for
// serialization is insertion order: the parser preserves input
// order and Record preserves insertion order when re-emitted.
type Record struct {
	fields []field
	index  map[string]int // key -> position in fields
}

// NewRecord returns an empty Record ready for field insertion.
func NewRecord() *Record {
	return &Record{}
}

// NewRecordWithCapacity returns an empty Record pre-sized for n fields, used
// by the parser to avoid reallocation while scanning a line with a known
// approximate field count.
func NewRecordWithCapacity(n int) *Record {
	return &Record{fields: make([]field, 0, n)}
}

// Len returns the number of fields in the record.
func (r *Record) Len() int { return len(r.fields) }

// Insert adds (key, val) to the record. It validates the key and fails with
// KindDuplicateKey if key is already present; the record is left unmodified
// on failure.
func (r *Record) Insert(key string, val Value) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if r.index == nil {
		r.index = make(map[string]int, 4)
	} else if _, exists := r.index[key]; exists {
		return kverr.ForKey(kverr.KindDuplicateKey, "key already present in record", key)
	}

	r.index[key] = len(r.fields)
	r.fields = append(r.fields, field{key: key, value: val})

	return nil
}

// Get looks up key and returns its Value. ok is false if the key is absent.
func (r *Record) Get(key string) (Value, bool) {
	if r.index == nil {
		return Value{}, false
	}

	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}

	return r.fields[i].value, true
}

// GetKind looks up key and additionally verifies it holds the given
// ScalarKind/array-ness, returning KindMismatch if it doesn't.
func (r *Record) GetKind(key string, kind Kind, array bool) (Value, error) {
	v, ok := r.Get(key)
	if !ok {
		return Value{}, kverr.ForKey(kverr.KindKindMismatch, "key not present", key)
	}

	if v.Kind() != kind || v.IsArray() != array {
		return Value{}, kverr.ForKey(kverr.KindKindMismatch,
			"field holds "+describe(v.Kind(), v.IsArray())+", not "+describe(kind, array), key)
	}

	return v, nil
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}

	return keys
}

// ForEach iterates over fields in insertion order, stopping early if fn
// returns false.
func (r *Record) ForEach(fn func(key string, val Value) bool) {
	for _, f := range r.fields {
		if !fn(f.key, f.value) {
			return
		}
	}
}

// Equal reports whether two records hold the same fields in the same order,
// used by the round-trip property tests.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}

	if len(r.fields) != len(other.fields) {
		return false
	}

	for i, f := range r.fields {
		g := other.fields[i]
		if f.key != g.key || !f.value.Equal(g.value) {
			return false
		}
	}

	return true
}
