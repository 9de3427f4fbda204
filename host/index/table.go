package index

import (
	"bytes"
	"fmt"
	"iter"
)

const (
	// defaultCapacity is the slot count of a new Table. Must be a power of two.
	defaultCapacity = 8

	// The table grows before an insert would push entries/capacity above loadNum/loadDen.
	loadNum = 7
	loadDen = 10
)

// slot is one bin of the table. A nil obj marks the slot empty.
type slot[T any] struct {
	obj  *T
	hash uint32 // cached hash of obj's key
}

// Table is an open-addressing hash table of *T keyed by a KeyFunc.
// The zero value is not usable; construct with New or NewWithCapacity.
type Table[T any] struct {
	slots   []slot[T]
	mask    uint32
	entries int
	resizes int

	key    KeyFunc[T]
	kind   KeyKind
	hasher func([]byte) uint32
}

// Stats reports table metrics.
type Stats struct {
	Entries    int     // Number of indexed records
	Capacity   int     // Number of slots
	Resizes    int     // Number of grow operations since creation
	LoadFactor float64 // Entries / Capacity
	MaxProbe   int     // Longest distance of an entry from its home slot
}

// New creates an empty Table with the default capacity.
func New[T any](key KeyFunc[T], kind KeyKind) *Table[T] {
	return NewWithCapacity(key, kind, 0)
}

// NewWithCapacity creates an empty Table sized to hold hint entries without
// growing.
func NewWithCapacity[T any](key KeyFunc[T], kind KeyKind, hint int) *Table[T] {
	if key == nil {
		panic("index: nil KeyFunc")
	}
	n := capacityFor(hint)
	return &Table[T]{
		slots:  make([]slot[T], n),
		mask:   uint32(n - 1),
		key:    key,
		kind:   kind,
		hasher: fnv32,
	}
}

// capacityFor returns the smallest power-of-two capacity that holds n
// entries under the load limit.
func capacityFor(n int) int {
	c := defaultCapacity
	for n*loadDen > c*loadNum {
		c <<= 1
	}
	return c
}

// Len returns the number of indexed records.
func (t *Table[T]) Len() int { return t.entries }

// Cap returns the number of slots.
func (t *Table[T]) Cap() int { return len(t.slots) }

// Kind returns the key kind the table was created with.
func (t *Table[T]) Kind() KeyKind { return t.kind }

func (t *Table[T]) keyOf(obj *T) []byte {
	return normalize(t.kind, t.key(obj))
}

// find walks the probe sequence for key. It returns the slot holding key
// and true, or the empty slot that ends the sequence and false.
func (t *Table[T]) find(key []byte, h uint32) (uint32, bool) {
	i := h & t.mask
	for {
		s := &t.slots[i]
		if s.obj == nil {
			return i, false
		}
		if s.hash == h && bytes.Equal(t.keyOf(s.obj), key) {
			return i, true
		}
		i = (i + 1) & t.mask
	}
}

// Add indexes obj under its key. If a record with an equal key is already
// indexed it is replaced when overwrite is true; otherwise ErrDuplicateKey
// is returned and the table is unchanged.
func (t *Table[T]) Add(obj *T, overwrite bool) error {
	if obj == nil {
		return ErrNilObject
	}
	key := t.keyOf(obj)
	if len(key) == 0 {
		return ErrEmptyKey
	}
	h := t.hasher(key)

	i, found := t.find(key, h)
	if found {
		if !overwrite {
			return fmt.Errorf("%w: %x", ErrDuplicateKey, key)
		}
		t.slots[i].obj = obj
		return nil
	}

	if (t.entries+1)*loadDen > len(t.slots)*loadNum {
		t.grow()
		i, _ = t.find(key, h)
	}
	t.slots[i] = slot[T]{obj: obj, hash: h}
	t.entries++
	return nil
}

// grow doubles the slot array and reinserts every entry using the cached hashes.
func (t *Table[T]) grow() {
	old := t.slots
	t.slots = make([]slot[T], len(old)*2)
	t.mask = uint32(len(t.slots) - 1)
	for _, s := range old {
		if s.obj == nil {
			continue
		}
		i := s.hash & t.mask
		for t.slots[i].obj != nil {
			i = (i + 1) & t.mask
		}
		t.slots[i] = s
	}
	t.resizes++
}

// Get returns the record whose key equals the key of tmpl.
func (t *Table[T]) Get(tmpl *T) (*T, bool) {
	if tmpl == nil {
		return nil, false
	}
	return t.lookup(t.keyOf(tmpl))
}

// Lookup returns the record indexed under key. For CString tables key is
// truncated at its first NUL.
func (t *Table[T]) Lookup(key []byte) (*T, bool) {
	return t.lookup(normalize(t.kind, key))
}

func (t *Table[T]) lookup(key []byte) (*T, bool) {
	if len(key) == 0 {
		return nil, false
	}
	i, found := t.find(key, t.hasher(key))
	if !found {
		return nil, false
	}
	return t.slots[i].obj, true
}

// Delete removes the record whose key equals the key of tmpl and returns it.
// The record itself is untouched.
func (t *Table[T]) Delete(tmpl *T) (*T, bool) {
	if tmpl == nil {
		return nil, false
	}
	return t.remove(t.keyOf(tmpl))
}

// DeleteKey removes the record indexed under key and returns it.
func (t *Table[T]) DeleteKey(key []byte) (*T, bool) {
	return t.remove(normalize(t.kind, key))
}

func (t *Table[T]) remove(key []byte) (*T, bool) {
	if len(key) == 0 {
		return nil, false
	}
	i, found := t.find(key, t.hasher(key))
	if !found {
		return nil, false
	}
	return t.removeAt(i), true
}

// removeAt clears slot i and repairs the cluster that follows it.
//
// An entry at j whose home slot is h may move into the hole at i only if i
// lies on its probe path h..j, that is when dist(h, j) >= dist(i, j).
// The scan ends at the first empty slot.
func (t *Table[T]) removeAt(i uint32) *T {
	removed := t.slots[i].obj
	t.slots[i] = slot[T]{}
	t.entries--

	hole := i
	for j := (i + 1) & t.mask; t.slots[j].obj != nil; j = (j + 1) & t.mask {
		home := t.slots[j].hash & t.mask
		if (j-home)&t.mask >= (j-hole)&t.mask {
			t.slots[hole] = t.slots[j]
			t.slots[j] = slot[T]{}
			hole = j
		}
	}
	return removed
}

// All returns a sequence over the indexed records in slot order.
func (t *Table[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := range t.slots {
			if obj := t.slots[i].obj; obj != nil {
				if !yield(obj) {
					return
				}
			}
		}
	}
}

// Reset forgets every record, keeping the current capacity.
func (t *Table[T]) Reset() {
	clear(t.slots)
	t.entries = 0
}

// Stats returns a snapshot of table metrics.
func (t *Table[T]) Stats() Stats {
	st := Stats{
		Entries:  t.entries,
		Capacity: len(t.slots),
		Resizes:  t.resizes,
	}
	if st.Capacity > 0 {
		st.LoadFactor = float64(t.entries) / float64(st.Capacity)
	}
	for i := range t.slots {
		if t.slots[i].obj == nil {
			continue
		}
		d := int((uint32(i) - t.slots[i].hash) & t.mask)
		if d > st.MaxProbe {
			st.MaxProbe = d
		}
	}
	return st
}
