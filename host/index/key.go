package index

import "github.com/joshuapare/hostkit/internal/buf"

// KeyKind selects how the bytes produced by a KeyFunc are interpreted.
type KeyKind uint8

const (
	// Binary keys use every byte returned by the KeyFunc.
	Binary KeyKind = iota
	// CString keys end at the first NUL byte.
	CString
)

func (k KeyKind) String() string {
	switch k {
	case Binary:
		return "binary"
	case CString:
		return "cstring"
	default:
		return "unknown"
	}
}

// KeyFunc returns the key bytes of a record. The returned slice is only
// read during the call that requested it and is never retained.
type KeyFunc[T any] func(obj *T) []byte

// FieldKey returns a KeyFunc that reads length bytes at offset from the
// record's raw encoding. Records whose encoding is too short yield an
// empty key, which Add rejects.
func FieldKey[T any](offset, length int, kind KeyKind, raw func(*T) []byte) KeyFunc[T] {
	return func(obj *T) []byte {
		b, ok := buf.Slice(raw(obj), offset, length)
		if !ok {
			return nil
		}
		if kind == CString {
			return buf.CString(b)
		}
		return b
	}
}

// StringKey returns a KeyFunc for records keyed by a string field.
func StringKey[T any](field func(*T) string) KeyFunc[T] {
	return func(obj *T) []byte {
		return []byte(field(obj))
	}
}

// normalize applies kind to raw key bytes.
func normalize(kind KeyKind, key []byte) []byte {
	if kind == CString {
		return buf.CString(key)
	}
	return key
}
