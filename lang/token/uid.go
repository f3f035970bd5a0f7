package token

import "sync/atomic"

// uidCounter supplies the unique ids for sources, declarations and
// functions. Only monotonicity matters, not gapless allocation.
var uidCounter atomic.Uint64

// NextUID returns the next process-wide unique id. The first returned id
// is 1, so 0 can be used as "unset".
func NextUID() uint64 { return uidCounter.Add(1) }
