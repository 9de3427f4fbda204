package guard

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// FatalError is the panic value raised by Abort.
type FatalError struct {
	Err   error
	Stack []byte
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error { return e.Err }

// Abort panics with a *FatalError wrapping err. It never returns.
func Abort(err error) {
	if err == nil {
		err = errors.New("abort with nil error")
	}
	panic(&FatalError{Err: err, Stack: debug.Stack()})
}

// Abortf is Abort with fmt.Errorf formatting.
func Abortf(format string, args ...any) {
	Abort(fmt.Errorf(format, args...))
}

// Do runs fn while holding l. The lock is released when fn returns or
// panics; a panic continues to propagate after the release.
func Do(l sync.Locker, fn func()) {
	if l == nil {
		Abortf("guard: nil locker")
	}
	l.Lock()
	defer l.Unlock()
	fn()
}

// DoErr is Do for functions that return an error.
func DoErr(l sync.Locker, fn func() error) error {
	var err error
	Do(l, func() { err = fn() })
	return err
}

// Exit codes returned by Supervise.
const (
	ExitOK    = 0
	ExitError = 1
	ExitFatal = 2
)

// Supervise runs fn and converts its outcome into a process exit code.
// A returned error is logged and yields ExitError. A panic (a *FatalError
// from Abort or any other value) is logged with its stack and yields
// ExitFatal. log may be nil.
func Supervise(log *slog.Logger, fn func() error) (code int) {
	if log == nil {
		log = slog.Default()
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var fe *FatalError
		switch v := r.(type) {
		case *FatalError:
			fe = v
		case error:
			fe = &FatalError{Err: v, Stack: debug.Stack()}
		default:
			fe = &FatalError{Err: fmt.Errorf("%v", v), Stack: debug.Stack()}
		}
		log.Error("unrecoverable condition, terminating",
			"err", fe.Err, "stack", string(fe.Stack))
		code = ExitFatal
	}()

	if err := fn(); err != nil {
		log.Error("exiting", "err", err)
		return ExitError
	}
	return ExitOK
}
