// Package resource accounts for engine resources and limits engine load.
//
// A [Controller] tracks three things:
//
//   - Live handles: contexts and hypergraphs currently owned by callers
//   - Pins: the total pin count of live engine hypergraphs (fail-fast limit)
//   - Partition calls: concurrent engine calls (semaphore) and call rate
//     (token bucket)
//
// Package partition reports every allocation and release to a controller, so
// a zero [Stats] after all handles are closed shows that nothing leaked:
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentPartitions: 4,
//	    PinLimit:                50_000_000,
//	})
//
//	if err := rc.AcquirePartition(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleasePartition()
//
// # Nil Safety
//
// All methods handle a nil Controller: limits become no-ops and Stats
// reports zeros.
package resource
