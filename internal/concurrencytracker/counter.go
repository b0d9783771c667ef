/*
Package concurrencytracker keeps track of how many concurrent operations are in flight so that a
caller can report peak concurrency over a reporting period. Typical usage:

 var cct concurrencytracker.Counter

 func resolveOne() {
   cct.Add()
   defer cct.Done()
   ... do some work
 }

and in some reporting function

 fmt.Println("Peak Concurrency", cct.Peak(true))
*/
package concurrencytracker

import (
	"sync"
)

type Counter struct {
	sync.Mutex
	current int // Count of pending Done() calls
	peak    int // Max 'current' has ever reached
}

// Add increments 'current' and updates the peak if a new high-water mark has been reached. Returns
// true if the peak increased as a result of this call.
func (t *Counter) Add() (increased bool) {
	t.Lock()
	defer t.Unlock()
	t.current++
	if t.current > t.peak {
		t.peak = t.current
		increased = true
	}

	return
}

// Done decrements 'current'. Done() must only be called after a matching Add() call, otherwise a
// panic ensues.
func (t *Counter) Done() {
	t.Lock()
	defer t.Unlock()
	if t.current == 0 {
		panic("concurrencytracker.Done() lacks matching .Add()") // Someone goofed
	}
	t.current--
}

// Peak returns the peak concurrency count and optionally resets the peak down to the current
// concurrency value. The current counter is *not* reset by this call - only the high-water mark
// is. The reset occurs *after* the return value is set so its impact is not visible until a
// subsequent call to Peak().
func (t *Counter) Peak(resetCounters bool) (peak int) {
	t.Lock()
	defer t.Unlock()
	peak = t.peak
	if resetCounters {
		t.peak = t.current
	}

	return
}
