package bufpool

import "errors"

var (
	// ErrBadLength indicates a negative requested length.
	ErrBadLength = errors.New("bufpool: negative length")

	// ErrNilBuffer indicates a nil *Buffer was passed in.
	ErrNilBuffer = errors.New("bufpool: nil buffer")

	// ErrForeignBuffer indicates a buffer acquired from a different pool.
	ErrForeignBuffer = errors.New("bufpool: buffer belongs to another pool")

	// ErrReleased indicates a buffer that was already released.
	ErrReleased = errors.New("bufpool: buffer already released")
)
