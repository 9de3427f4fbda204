package adaptor

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/joshuapare/hostkit/host/bufpool"
	"github.com/joshuapare/hostkit/host/index"
	"github.com/joshuapare/hostkit/internal/buf"
)

// Options configures a Registry.
type Options struct {
	// Pool supplies UserData buffers. A default pool is created when
	// UserDataSize is set and Pool is nil.
	Pool *bufpool.Pool

	// UserDataSize, when positive, gives every new record a zeroed buffer
	// of this length in UserData.
	UserDataSize int

	// DisableIfIndex keeps only the name index; GetByIfIndex then scans.
	DisableIfIndex bool

	// Logger receives debug records of adds, changes and removals.
	Logger *slog.Logger
}

// entry is the registry's bookkeeping for one Adaptor. Index keys are
// taken from name and ifKey, never from the Adaptor, so callers cannot
// corrupt the indices by writing to Adaptor fields.
type entry struct {
	ad      *Adaptor
	name    string
	ifIndex uint32
	ifKey   [4]byte // little-endian ifIndex
	indexed bool    // present in byIfIndex
	state   State
	userBuf *bufpool.Buffer
	userGen uint64 // userBuf.Generation() when handed to the record
}

func entryName(e *entry) string { return e.name }
func entryIfKey(e *entry) []byte { return e.ifKey[:] }

// Registry is the adaptor inventory.
type Registry struct {
	byName    *index.Table[entry]
	byIfIndex *index.Table[entry] // nil when DisableIfIndex
	inCycle   bool

	pool         *bufpool.Pool
	userDataSize int
	log          *slog.Logger
}

// New creates an empty Registry.
func New(opts Options) *Registry {
	r := &Registry{
		byName:       index.New(index.StringKey(entryName), index.CString),
		pool:         opts.Pool,
		userDataSize: opts.UserDataSize,
		log:          opts.Logger,
	}
	if !opts.DisableIfIndex {
		r.byIfIndex = index.New(index.FieldKey(0, 4, index.Binary, entryIfKey), index.Binary)
	}
	if r.userDataSize > 0 && r.pool == nil {
		r.pool = bufpool.New(bufpool.Config{})
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// validName reports whether name can key a record. Names with NUL would be
// truncated by the name index and match a different device.
func validName(name string) bool {
	return name != "" && strings.IndexByte(name, 0) < 0
}

// Len returns the number of records.
func (r *Registry) Len() int { return r.byName.Len() }

// Pool returns the pool backing UserData buffers, or nil.
func (r *Registry) Pool() *bufpool.Pool { return r.pool }

// Get returns the record for a device name.
func (r *Registry) Get(name string) (*Adaptor, bool) {
	if !validName(name) {
		return nil, false
	}
	e, ok := r.byName.Lookup([]byte(name))
	if !ok {
		return nil, false
	}
	return e.ad, true
}

// GetByIfIndex returns the record currently owning an interface index.
func (r *Registry) GetByIfIndex(ifIndex uint32) (*Adaptor, bool) {
	if ifIndex == 0 {
		return nil, false
	}
	if r.byIfIndex != nil {
		e, ok := r.byIfIndex.Lookup(buf.AppendU32LE(nil, ifIndex))
		if !ok {
			return nil, false
		}
		return e.ad, true
	}
	for e := range r.byName.All() {
		if e.ifIndex == ifIndex {
			return e.ad, true
		}
	}
	return nil, false
}

// State returns the reconciliation state of a device's record.
func (r *Registry) State(name string) (State, bool) {
	if !validName(name) {
		return 0, false
	}
	e, ok := r.byName.Lookup([]byte(name))
	if !ok {
		return 0, false
	}
	return e.state, true
}

// InCycle reports whether MarkAll has been called without a matching Sweep.
func (r *Registry) InCycle() bool { return r.inCycle }

// All returns a sequence over every record, in no particular order.
func (r *Registry) All() iter.Seq[*Adaptor] {
	return func(yield func(*Adaptor) bool) {
		for e := range r.byName.All() {
			if !yield(e.ad) {
				return
			}
		}
	}
}

// MarkAll starts a refresh cycle: every record becomes Unconfirmed.
func (r *Registry) MarkAll() {
	for e := range r.byName.All() {
		e.state = Unconfirmed
	}
	r.inCycle = true
}

// GetOrCreate confirms the record for name, creating it if needed, and
// updates its hardware address and interface index in place. created
// reports whether a new record was made. Within a cycle a second call for
// the same name fails with ErrDuplicateAdaptor and leaves the record as
// it was.
func (r *Registry) GetOrCreate(name string, hw net.HardwareAddr, ifIndex uint32) (ad *Adaptor, created bool, err error) {
	e, created, _, err := r.getOrCreate(name, hw, ifIndex)
	if e != nil {
		ad = e.ad
	}
	return ad, created, err
}

func (r *Registry) getOrCreate(name string, hw net.HardwareAddr, ifIndex uint32) (e *entry, created, changed bool, err error) {
	switch {
	case name == "":
		return nil, false, false, ErrEmptyName
	case strings.IndexByte(name, 0) >= 0:
		return nil, false, false, fmt.Errorf("%w: %q", ErrBadName, name)
	}

	if e, ok := r.byName.Lookup([]byte(name)); ok {
		if r.inCycle && e.state == Confirmed {
			return e, false, false, fmt.Errorf("%w: %s", ErrDuplicateAdaptor, name)
		}
		e.state = Confirmed
		changed = r.update(e, hw, ifIndex)
		return e, false, changed, nil
	}

	e, err = r.create(name, hw, ifIndex)
	if err != nil {
		return nil, false, false, err
	}
	return e, true, false, nil
}

func (r *Registry) create(name string, hw net.HardwareAddr, ifIndex uint32) (*entry, error) {
	e := &entry{
		ad: &Adaptor{
			ID:           uuid.New(),
			Name:         name,
			HardwareAddr: slices.Clone(hw),
			IfIndex:      ifIndex,
		},
		name:    name,
		ifIndex: ifIndex,
		state:   Confirmed,
	}
	buf.PutU32LE(e.ifKey[:], ifIndex)

	if r.userDataSize > 0 {
		b, err := r.pool.Acquire(r.userDataSize)
		if err != nil {
			return nil, fmt.Errorf("adaptor: user data for %s: %w", name, err)
		}
		e.userBuf, e.userGen = b, b.Generation()
		e.ad.UserData = b
	}

	if err := r.byName.Add(e, false); err != nil {
		r.releaseUserData(e)
		return nil, fmt.Errorf("adaptor: indexing %s: %w", name, err)
	}
	r.indexIf(e)

	r.log.Debug("adaptor added", "name", name, "ifindex", ifIndex, "mac", e.ad.HardwareAddr, "id", e.ad.ID)
	return e, nil
}

// update applies a sighting to an existing record and reports whether
// anything changed.
func (r *Registry) update(e *entry, hw net.HardwareAddr, ifIndex uint32) bool {
	changed := false
	if !bytes.Equal(e.ad.HardwareAddr, hw) {
		r.log.Debug("adaptor hardware address changed", "name", e.name, "old", e.ad.HardwareAddr, "new", hw)
		e.ad.HardwareAddr = slices.Clone(hw)
		changed = true
	}
	if ifIndex != e.ifIndex {
		r.log.Debug("adaptor ifindex changed", "name", e.name, "old", e.ifIndex, "new", ifIndex)
		r.unindexIf(e)
		e.ifIndex = ifIndex
		e.ad.IfIndex = ifIndex
		buf.PutU32LE(e.ifKey[:], ifIndex)
		changed = true
	}
	if !e.indexed {
		r.indexIf(e)
	}
	return changed
}

// indexIf makes e the owner of its ifIndex in the secondary index.
func (r *Registry) indexIf(e *entry) {
	if r.byIfIndex == nil || e.ifIndex == 0 {
		return
	}
	if cur, ok := r.byIfIndex.Get(e); ok && cur != e {
		r.log.Debug("adaptor ifindex reassigned", "ifindex", e.ifIndex, "from", cur.name, "to", e.name)
		cur.indexed = false
	}
	// Overwrite cannot fail for a non-empty key.
	_ = r.byIfIndex.Add(e, true)
	e.indexed = true
}

// unindexIf removes e's ifIndex entry if e still owns it.
func (r *Registry) unindexIf(e *entry) {
	if !e.indexed {
		return
	}
	if cur, ok := r.byIfIndex.Get(e); ok && cur == e {
		r.byIfIndex.Delete(e)
	}
	e.indexed = false
}

// Sweep ends a refresh cycle: every record still Unconfirmed is removed
// from both indices and its registry-allocated user data is released.
// The removed records are returned.
func (r *Registry) Sweep() []*Adaptor {
	var stale []*entry
	for e := range r.byName.All() {
		if e.state == Unconfirmed {
			stale = append(stale, e)
		}
	}

	removed := make([]*Adaptor, 0, len(stale))
	for _, e := range stale {
		r.remove(e)
		removed = append(removed, e.ad)
	}
	r.inCycle = false
	return removed
}

func (r *Registry) remove(e *entry) {
	r.byName.Delete(e)
	r.unindexIf(e)
	r.releaseUserData(e)
	r.log.Debug("adaptor removed", "name", e.name, "ifindex", e.ifIndex, "id", e.ad.ID)
}

// ownsUserBuf reports whether the record still holds the buffer it was
// given. A buffer moved by Pool.Grow was released and may since have been
// handed to another record.
func (e *entry) ownsUserBuf() bool {
	return e.userBuf != nil && !e.userBuf.Released() && e.userBuf.Generation() == e.userGen
}

// releaseUserData returns the record's pool buffer. When the caller moved
// it with Pool.Grow and stored the result in UserData, the buffer in
// UserData is the live one and is released instead.
func (r *Registry) releaseUserData(e *entry) {
	if e.userBuf == nil {
		return
	}
	var b *bufpool.Buffer
	ud, _ := e.ad.UserData.(*bufpool.Buffer)
	switch {
	case e.ownsUserBuf():
		b = e.userBuf
	case r.pool.Owns(ud) && !ud.Released():
		b = ud
	}
	if b != nil {
		if err := r.pool.Release(b); err != nil {
			r.log.Warn("adaptor user data release failed", "name", e.name, "err", err)
		}
		if ud == b {
			e.ad.UserData = nil
		}
	}
	e.userBuf, e.userGen = nil, 0
}

// GrowUserData resizes the pool buffer held in ad.UserData to n bytes,
// stores the result back in UserData and returns it. Records without
// registry-allocated user data fail with ErrNoUserData.
func (r *Registry) GrowUserData(ad *Adaptor, n int) (*bufpool.Buffer, error) {
	if ad == nil {
		return nil, ErrNoUserData
	}
	e, ok := r.byName.Lookup([]byte(ad.Name))
	if ud, _ := ad.UserData.(*bufpool.Buffer); !ok || e.ad != ad || !e.ownsUserBuf() || ud != e.userBuf {
		return nil, fmt.Errorf("%w: %s", ErrNoUserData, ad.Name)
	}
	nb, err := r.pool.Grow(e.userBuf, n)
	if err != nil {
		return nil, fmt.Errorf("adaptor: growing user data for %s: %w", e.name, err)
	}
	e.userBuf, e.userGen = nb, nb.Generation()
	ad.UserData = nb
	return nb, nil
}

// Reset removes every record and closes any open cycle.
func (r *Registry) Reset() {
	for e := range r.byName.All() {
		r.releaseUserData(e)
	}
	r.byName.Reset()
	if r.byIfIndex != nil {
		r.byIfIndex.Reset()
	}
	r.inCycle = false
}
