// Package adaptor keeps the live inventory of network interfaces (adaptors)
// across periodic re-enumeration.
//
// # Overview
//
// An Adaptor is created the first time an interface is sighted and lives
// until a full refresh cycle completes without sighting it again. Callers
// attach per-interface state (counters, sampling rates) through
// Adaptor.UserData; because records are reconciled in place rather than
// rebuilt, that state and the record's identity survive every cycle in
// which the interface persists.
//
// # Refresh Cycle
//
// Each cycle runs three steps:
//
//	reg.MarkAll()                 // every record becomes Unconfirmed
//	for _, s := range sightings {
//	    reg.GetOrCreate(s.Name, s.HardwareAddr, s.IfIndex) // Confirmed
//	}
//	removed := reg.Sweep()        // Unconfirmed records are dropped
//
// Refresh runs the same steps against an Enumerator and reports what was
// added, changed and removed. Enumeration happens before MarkAll, so an
// enumerator failure leaves the registry untouched.
//
// Sighting the same device name twice inside one cycle is an enumerator
// bug and is reported as ErrDuplicateAdaptor.
//
// # Lookup
//
// Records are indexed by device name and, unless Options.DisableIfIndex is
// set, by interface index. An ifIndex of 0 means unknown and is not
// indexed. When two records claim the same ifIndex the most recent
// sighting owns the index entry.
//
// The Name, HardwareAddr and IfIndex fields of an Adaptor are owned by the
// registry; callers must treat them as read-only.
//
// # User Data
//
// With Options.UserDataSize set, every new record starts with a zeroed
// *bufpool.Buffer of that size in UserData. GrowUserData resizes it and
// keeps the registry's bookkeeping in step; a buffer grown directly with
// Pool.Grow and stored back in UserData is also tracked. The live buffer
// is released to the pool when the record is swept.
//
// # Thread Safety
//
// Registry instances are not thread-safe. A caller that reads the registry
// from another goroutine must hold one lock across the whole
// MarkAll..Sweep sequence (see package guard).
package adaptor
