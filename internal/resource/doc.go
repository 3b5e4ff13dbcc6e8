// Package resource bounds the CPU work an Evaluator runs at once.
//
// Every SNR point is a CPU-bound task that can take seconds for large
// constellations. Evaluate already limits the goroutines of a single call;
// the Controller additionally caps the number of points in flight across
// all calls that share an Evaluator, so that concurrent callers cannot
// oversubscribe the machine:
//
//	rc := resource.NewController(resource.Config{MaxConcurrent: 8})
//
//	if err := rc.Acquire(ctx); err != nil {
//	    return err // context cancelled while waiting
//	}
//	defer rc.Release()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional limiting without nil checks everywhere.
package resource
