package adaptor

import "errors"

var (
	// ErrDuplicateAdaptor indicates a device name sighted twice in one refresh cycle.
	ErrDuplicateAdaptor = errors.New("adaptor: duplicate device in refresh cycle")

	// ErrEmptyName indicates a sighting without a device name.
	ErrEmptyName = errors.New("adaptor: empty device name")

	// ErrEnumerate wraps an Enumerator failure; the registry was not touched.
	ErrEnumerate = errors.New("adaptor: enumerating interfaces")

	// ErrNoUserData indicates a record without registry-allocated user data.
	ErrNoUserData = errors.New("adaptor: record has no registry user data")

	// ErrBadName indicates a device name containing a NUL byte.
	ErrBadName = errors.New("adaptor: device name contains NUL")
)
