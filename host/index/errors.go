package index

import "errors"

var (
	// ErrDuplicateKey indicates an Add without overwrite for a key already present.
	ErrDuplicateKey = errors.New("index: duplicate key")

	// ErrEmptyKey indicates the KeyFunc produced a zero-length key.
	ErrEmptyKey = errors.New("index: empty key")

	// ErrNilObject indicates an Add with a nil record.
	ErrNilObject = errors.New("index: nil object")
)
