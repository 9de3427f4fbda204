// Package guard provides the scoped mutual-exclusion region and the single
// designated fatal path used by the host packages.
//
// # Scoped Locking
//
// The index, buffer pool and adaptor registry have no internal locking. A
// caller that shares them between goroutines wraps every multi-step
// operation in one region:
//
//	guard.Do(&mu, func() {
//	    reg.MarkAll()
//	    for _, s := range sightings {
//	        reg.GetOrCreate(s.Name, s.HardwareAddr, s.IfIndex)
//	    }
//	    reg.Sweep()
//	})
//
// The lock is released when fn returns or panics.
//
// # Fatal Conditions
//
// Conditions after which the process cannot guarantee correctness (the
// underlying allocator failing, a lock left in an unknown state) are raised
// with Abort, which panics with a *FatalError. Library code never exits the
// process itself. The top of each binary runs under Supervise, which
// recovers the panic, logs it and terminates:
//
//	func main() {
//	    os.Exit(guard.Supervise(logger.L, run))
//	}
package guard
