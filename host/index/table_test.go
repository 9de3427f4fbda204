package index

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// device is a test record keyed by name.
type device struct {
	name  string
	index uint32
}

func byName() *Table[device] {
	return New(StringKey(func(d *device) string { return d.name }), Binary)
}

// packed is a test record whose key lives inside a raw encoding.
type packed struct {
	raw [12]byte // [0:4] id, [4:12] NUL-padded tag
}

func (p *packed) bytes() []byte { return p.raw[:] }

func newPacked(id uint32, tag string) *packed {
	p := &packed{}
	binary.LittleEndian.PutUint32(p.raw[0:4], id)
	copy(p.raw[4:], tag)
	return p
}

func TestTable_AddGetDelete(t *testing.T) {
	tbl := byName()
	eth0 := &device{name: "eth0", index: 2}
	lo := &device{name: "lo", index: 1}

	require.NoError(t, tbl.Add(eth0, false))
	require.NoError(t, tbl.Add(lo, false))
	require.Equal(t, 2, tbl.Len())

	got, ok := tbl.Get(&device{name: "eth0"})
	require.True(t, ok)
	require.Same(t, eth0, got)

	got, ok = tbl.Lookup([]byte("lo"))
	require.True(t, ok)
	require.Same(t, lo, got)

	removed, ok := tbl.Delete(&device{name: "eth0"})
	require.True(t, ok)
	require.Same(t, eth0, removed)
	require.Equal(t, "eth0", eth0.name, "delete must not touch the record")

	_, ok = tbl.Get(&device{name: "eth0"})
	require.False(t, ok)
	require.Equal(t, 1, tbl.Len())
}

func TestTable_AbsentKeyIsNotAnError(t *testing.T) {
	tbl := byName()
	_, ok := tbl.Get(&device{name: "missing"})
	require.False(t, ok)
	_, ok = tbl.Delete(&device{name: "missing"})
	require.False(t, ok)
	_, ok = tbl.Get(nil)
	require.False(t, ok)
	_, ok = tbl.DeleteKey(nil)
	require.False(t, ok)
	require.Equal(t, 0, tbl.Len())
}

func TestTable_Duplicate(t *testing.T) {
	tbl := byName()
	first := &device{name: "eth0", index: 2}
	second := &device{name: "eth0", index: 7}

	require.NoError(t, tbl.Add(first, false))

	err := tbl.Add(second, false)
	require.ErrorIs(t, err, ErrDuplicateKey)
	got, _ := tbl.Lookup([]byte("eth0"))
	require.Same(t, first, got, "failed add must leave the table unchanged")

	require.NoError(t, tbl.Add(second, true))
	got, _ = tbl.Lookup([]byte("eth0"))
	require.Same(t, second, got)
	require.Equal(t, 1, tbl.Len())
}

func TestTable_RejectsNilAndEmpty(t *testing.T) {
	tbl := byName()
	require.ErrorIs(t, tbl.Add(nil, false), ErrNilObject)
	require.ErrorIs(t, tbl.Add(&device{}, false), ErrEmptyKey)
	require.Equal(t, 0, tbl.Len())
}

func TestTable_CStringKeys(t *testing.T) {
	tbl := New(FieldKey(4, 8, CString, (*packed).bytes), CString)
	a := newPacked(1, "eth0")
	require.NoError(t, tbl.Add(a, false))

	// Same string content, different padding bytes after the NUL.
	b := newPacked(2, "eth0")
	b.raw[10] = 'z'
	err := tbl.Add(b, false)
	require.ErrorIs(t, err, ErrDuplicateKey)

	got, ok := tbl.Lookup([]byte("eth0\x00junk"))
	require.True(t, ok)
	require.Same(t, a, got)

	require.ErrorIs(t, tbl.Add(newPacked(3, ""), false), ErrEmptyKey)
	require.Equal(t, CString, tbl.Kind())
}

func TestTable_FieldKeyShortRecord(t *testing.T) {
	short := func(p *packed) []byte { return p.raw[:2] }
	tbl := New(FieldKey(0, 4, Binary, short), Binary)
	require.ErrorIs(t, tbl.Add(newPacked(1, "x"), false), ErrEmptyKey)
}

// TestTable_ThousandBinaryKeys adds 1000 records keyed by a 4-byte id at
// offset 0 and checks every one is retrievable after the resizes.
func TestTable_ThousandBinaryKeys(t *testing.T) {
	tbl := New(FieldKey(0, 4, Binary, (*packed).bytes), Binary)
	recs := make([]*packed, 1000)
	for i := range recs {
		recs[i] = newPacked(uint32(i)*2654435761, "")
		require.NoError(t, tbl.Add(recs[i], false))
	}

	require.Equal(t, 1000, tbl.Len())
	st := tbl.Stats()
	require.Positive(t, st.Resizes)
	require.LessOrEqual(t, st.LoadFactor, 0.7)
	require.Equal(t, tbl.Cap(), st.Capacity)

	for i, r := range recs {
		got, ok := tbl.Get(newPacked(binary.LittleEndian.Uint32(r.raw[0:4]), ""))
		require.True(t, ok, "record %d", i)
		require.Same(t, r, got, "record %d", i)
	}
}

func TestTable_ResizePreservesMembership(t *testing.T) {
	tbl := byName()
	devs := map[string]*device{}
	for i := 0; ; i++ {
		d := &device{name: "if" + string(rune('a'+i%26)) + string(rune('a'+i/26))}
		before := tbl.Cap()
		snapshot := map[string]*device{}
		for obj := range tbl.All() {
			snapshot[obj.name] = obj
		}

		require.NoError(t, tbl.Add(d, false))
		devs[d.name] = d

		if tbl.Cap() != before {
			// Everything present before the resize is still present and
			// maps to the same record.
			for name, want := range snapshot {
				got, ok := tbl.Lookup([]byte(name))
				require.True(t, ok, name)
				require.Same(t, want, got, name)
			}
			require.Equal(t, len(snapshot)+1, tbl.Len())
			if tbl.Stats().Resizes >= 3 {
				break
			}
		}
	}
	seen := 0
	for obj := range tbl.All() {
		require.Same(t, devs[obj.name], obj)
		seen++
	}
	require.Equal(t, len(devs), seen)
}

func TestTable_AllIsRestartable(t *testing.T) {
	tbl := byName()
	for _, n := range []string{"a", "b", "c", "d"} {
		require.NoError(t, tbl.Add(&device{name: n}, false))
	}
	seq := tbl.All()

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	require.Equal(t, 4, count())
	require.Equal(t, 4, count())

	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

func TestTable_Reset(t *testing.T) {
	tbl := byName()
	for i := range 20 {
		require.NoError(t, tbl.Add(&device{name: string(rune('A' + i))}, false))
	}
	c := tbl.Cap()
	tbl.Reset()
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, c, tbl.Cap())
	_, ok := tbl.Lookup([]byte("A"))
	require.False(t, ok)
	for range tbl.All() {
		t.Fatal("reset table yielded a record")
	}
}

func TestNewWithCapacity(t *testing.T) {
	tbl := NewWithCapacity(StringKey(func(d *device) string { return d.name }), Binary, 100)
	c := tbl.Cap()
	assert.Equal(t, 0, c&(c-1), "capacity must be a power of two")
	for i := range 100 {
		require.NoError(t, tbl.Add(&device{name: string(rune(0x100 + i))}, false))
	}
	assert.Equal(t, c, tbl.Cap(), "hint-sized table must not grow")
	assert.Equal(t, 0, tbl.Stats().Resizes)
}

func TestKeyKind_String(t *testing.T) {
	assert.Equal(t, "binary", Binary.String())
	assert.Equal(t, "cstring", CString.String())
	assert.Equal(t, "unknown", KeyKind(9).String())
}

func TestDuplicateErrorWraps(t *testing.T) {
	tbl := byName()
	require.NoError(t, tbl.Add(&device{name: "x"}, false))
	err := tbl.Add(&device{name: "x"}, false)
	require.True(t, errors.Is(err, ErrDuplicateKey))
	require.Contains(t, err.Error(), "78")
}
