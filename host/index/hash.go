package index

// FNV-1a constants for 32-bit hash.
const (
	fnvBasis32 uint32 = 2166136261
	fnvPrime32 uint32 = 16777619
)

// fnv32 computes the FNV-1a hash of key.
func fnv32(key []byte) uint32 {
	h := fnvBasis32
	for _, b := range key {
		h ^= uint32(b)
		h *= fnvPrime32
	}
	return h
}
