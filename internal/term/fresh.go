package term

import "sync/atomic"

var varCounter uint64

// nextVarID returns a process-wide monotonically increasing identity, used
// so that two variables with the same display name are never confused by
// substitution or α-equivalence checks.
func nextVarID() uint64 {
	return atomic.AddUint64(&varCounter, 1)
}
