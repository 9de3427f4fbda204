// Package index provides Table, an open-addressing hash table that indexes
// caller-owned records by a key extracted from each record.
//
// # Overview
//
// A Table stores pointers to records; it never allocates, copies or frees
// them. Removing a record from a Table only forgets the pointer. The same
// record can therefore live in several tables at once, keyed differently
// in each (the adaptor registry indexes one record by device name and by
// interface index).
//
// # Keys
//
// Keys are byte slices produced by a KeyFunc. Two key kinds exist:
//
//   - Binary: the bytes returned by the KeyFunc are the key.
//   - CString: the key ends at the first NUL byte, so fixed-size name
//     fields padded with zeros compare by their string content.
//
// FieldKey builds a KeyFunc from an offset and length inside a record's
// raw encoding:
//
//	byIndex := index.New(index.FieldKey[rec](0, 4, index.Binary, (*rec).raw), index.Binary)
//
// Empty keys are rejected by Add.
//
// # Probing
//
// Capacity is always a power of two and slots are probed linearly from
// hash & mask. The table doubles once an insert would push the load factor
// above 0.7. Every occupied slot caches its key hash, so a rehash does not
// call the KeyFunc again.
//
// Deletion uses backward shift: after a slot is cleared, following entries
// in the same cluster are moved back into the hole whenever the hole lies
// on their probe path. No tombstones are left behind and every live entry
// stays reachable from its home slot.
//
// # Iteration
//
// All returns an iter.Seq over the occupied slots in slot order. The order
// is unrelated to insertion order and changes after a resize. A sequence
// can be ranged over any number of times; mutating the table while ranging
// is not supported.
//
// # Thread Safety
//
// Table instances are not thread-safe. Callers must synchronize access
// externally (see package guard).
package index
