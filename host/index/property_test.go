package index

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// homed is a record whose first key byte is its home slot under homeHash.
type homed struct {
	key []byte
}

func homedKey(h *homed) []byte { return h.key }

// homeHash makes the home slot of a key explicit: the first byte.
func homeHash(key []byte) uint32 { return uint32(key[0]) }

func newHomedTable(capacity int) *Table[homed] {
	tbl := NewWithCapacity(homedKey, Binary, capacity*loadNum/loadDen)
	tbl.hasher = homeHash
	return tbl
}

// checkModel asserts the table holds exactly the records in model.
func checkModel(t *testing.T, tbl *Table[homed], model map[string]*homed, step string) {
	t.Helper()
	require.Equal(t, len(model), tbl.Len(), step)
	for k, want := range model {
		got, ok := tbl.Lookup([]byte(k))
		require.True(t, ok, "%s: key %x unreachable", step, k)
		require.Same(t, want, got, "%s: key %x", step, k)
	}
	n := 0
	for obj := range tbl.All() {
		require.Same(t, model[string(obj.key)], obj, step)
		n++
	}
	require.Equal(t, len(model), n, step)
}

// TestDelete_ExhaustiveSubsets builds clusters of colliding keys, including
// clusters that wrap past the end of the slot array, and deletes every
// subset of them in every rotation. The survivors must stay reachable.
func TestDelete_ExhaustiveSubsets(t *testing.T) {
	const capacity = 16
	layouts := map[string][]byte{
		"same-home":   {3, 3, 3, 3, 3, 3, 3, 3},
		"interleaved": {3, 4, 3, 5, 4, 3, 6, 5},
		"wrapping":    {14, 15, 14, 0, 15, 14, 1, 0},
		"staircase":   {0, 1, 2, 3, 0, 1, 2, 3},
	}

	for name, homes := range layouts {
		t.Run(name, func(t *testing.T) {
			recs := make([]*homed, len(homes))
			for i, h := range homes {
				recs[i] = &homed{key: []byte{h, byte(i)}}
			}
			for subset := 0; subset < 1<<len(recs); subset++ {
				for rot := range len(recs) {
					tbl := newHomedTable(capacity)
					model := map[string]*homed{}
					for _, r := range recs {
						require.NoError(t, tbl.Add(r, false))
						model[string(r.key)] = r
					}
					require.Equal(t, capacity, tbl.Cap())

					for k := range len(recs) {
						i := (k + rot) % len(recs)
						if subset&(1<<i) == 0 {
							continue
						}
						removed, ok := tbl.DeleteKey(recs[i].key)
						require.True(t, ok)
						require.Same(t, recs[i], removed)
						delete(model, string(recs[i].key))

						_, ok = tbl.Lookup(recs[i].key)
						require.False(t, ok)
					}
					checkModel(t, tbl, model, fmt.Sprintf("subset=%b rot=%d", subset, rot))
				}
			}
		})
	}
}

// TestDelete_SharedHomePreservesOthers: for k1 != k2 sharing a home slot,
// deleting k1 keeps k2 reachable.
func TestDelete_SharedHomePreservesOthers(t *testing.T) {
	for home := range 16 {
		for n := 2; n <= 6; n++ {
			for victim := range n {
				tbl := newHomedTable(16)
				recs := make([]*homed, n)
				for i := range recs {
					recs[i] = &homed{key: []byte{byte(home), byte(i)}}
					require.NoError(t, tbl.Add(recs[i], false))
				}
				_, ok := tbl.Delete(recs[victim])
				require.True(t, ok)
				for i, r := range recs {
					got, ok := tbl.Get(r)
					if i == victim {
						require.False(t, ok)
						continue
					}
					require.True(t, ok, "home=%d n=%d victim=%d key=%d", home, n, victim, i)
					require.Same(t, r, got)
				}
			}
		}
	}
}

// TestRandom_OpsMatchModel runs random add/overwrite/delete sequences
// against a map and checks every key after each step. Hashes are squeezed
// into a few homes to force long clusters and resizes.
func TestRandom_OpsMatchModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility

	for round := range 10 {
		tbl := New(homedKey, Binary)
		tbl.hasher = func(key []byte) uint32 { return fnv32(key) % 5 }
		model := map[string]*homed{}

		for step := range 300 {
			k := []byte{byte(rng.Intn(64)), byte(rng.Intn(4))}
			switch op := rng.Intn(10); {
			case op < 5:
				r := &homed{key: k}
				_, exists := model[string(k)]
				overwrite := rng.Intn(2) == 0
				err := tbl.Add(r, overwrite)
				switch {
				case exists && !overwrite:
					require.ErrorIs(t, err, ErrDuplicateKey)
				default:
					require.NoError(t, err)
					model[string(k)] = r
				}
			case op < 9:
				removed, ok := tbl.DeleteKey(k)
				want, exists := model[string(k)]
				require.Equal(t, exists, ok)
				if exists {
					require.Same(t, want, removed)
					delete(model, string(k))
				}
			default:
				got, ok := tbl.Lookup(k)
				want, exists := model[string(k)]
				require.Equal(t, exists, ok)
				if exists {
					require.Same(t, want, got)
				}
			}
			checkModel(t, tbl, model, fmt.Sprintf("round=%d step=%d", round, step))
			require.LessOrEqual(t, tbl.Stats().LoadFactor, 0.7)
		}
	}
}

func TestStats_MaxProbe(t *testing.T) {
	tbl := newHomedTable(16)
	for i := range 4 {
		require.NoError(t, tbl.Add(&homed{key: []byte{15, byte(i)}}, false))
	}
	// Home 15 with four entries occupies 15, 0, 1, 2.
	st := tbl.Stats()
	require.Equal(t, 3, st.MaxProbe)
	require.Equal(t, 4, st.Entries)
	require.InDelta(t, 0.25, st.LoadFactor, 1e-9)
}
