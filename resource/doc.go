// Package resource tracks the mapped-memory budget of chunk managers
// and governs their background work.
//
// Three concerns, with deliberately different waiting behavior:
//
//   - Mapped memory: [Controller.ReserveMapping] hands out one [Grant]
//     per mapping (chunk plus overlap) and fails fast with
//     [ErrMappedLimitExceeded] at the cap. Reservations happen with
//     the chunk table locked, so they must never block.
//   - Background workers: [Controller.BeginBackground] queues warm-up
//     jobs behind a bounded number of slots; waiting is the point.
//   - IO: [Controller.ThrottleTouch] rate-limits background page
//     touching so warm-up cannot starve foreground acquires.
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    MappedLimitBytes: 1 << 30,
//	})
//	grant, err := rc.ReserveMapping(mappedSize)
//	if err != nil { ... }
//	// grant.Release() runs when the mapping is unmapped
//
// The controller also keeps a high-water mark ([Controller.MappedPeak])
// for sizing the cap against real workloads.
//
// # Nil Safety
//
// A nil *Controller disables every limit: reservations succeed with a
// nil Grant (whose Release is a no-op), worker slots are unbounded and
// the IO throttle admits everything. Callers need no nil checks.
package resource
