package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/markdingo/mdnscache/internal/dnsutil"
	"github.com/markdingo/mdnscache/internal/mdnscache"
	"github.com/markdingo/mdnscache/internal/record"
)

// inbound carries one parsed mDNS message from a listener to the cache manager.
type inbound struct {
	msg  *record.Message
	from string
}

type cmIndex int

const ( // cm = Cache Manager index into updateCounters
	cmMsgs cmIndex = iota
	cmRecords
	cmAdded
	cmChanged
	cmRefreshed
	cmGoodbyes
	cmBadRdata
	cmArraySize
)

type managerStats struct {
	updateCounters [cmArraySize]int
	expired        int // Records removed by cleanup passes
	clears         int // Overfill clear-all events
	size           int // Cache entries after the most recent operation
}

// manager owns the cache. The cache has no internal locking so all access is funneled through the
// manager's run() go-routine: listeners deliver parsed messages on updateCh and cleanup runs off
// an internal ticker. Stats are mirrored under a mutex so Report() can run from any go-routine.
type manager struct {
	stdout   io.Writer
	cache    *mdnscache.Cache
	updateCh chan *inbound
	doneCh   chan struct{}

	mu sync.RWMutex // Protects everything below here
	managerStats
}

func newManager(stdout io.Writer, entryLimit int) *manager {
	return &manager{
		stdout:   stdout,
		cache:    mdnscache.New(entryLimit),
		updateCh: make(chan *inbound, 16),
		doneCh:   make(chan struct{}),
	}
}

// run applies updates and periodic cleanups until updateCh is closed. Cleanup also runs after
// every message as the call costs next to nothing when no record can have expired yet.
func (t *manager) run(cleanupInterval time.Duration) {
	defer close(t.doneCh)
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case in, ok := <-t.updateCh:
			if !ok {
				t.cleanup(time.Now()) // Final sweep so expiry stats are complete
				return
			}
			t.apply(in)
			t.cleanup(time.Now())

		case <-ticker.C:
			t.cleanup(time.Now())
		}
	}
}

// stop shuts the run() go-routine down and waits for it. All listeners writing to updateCh must
// have exited before this call.
func (t *manager) stop() {
	close(t.updateCh)
	<-t.doneCh
}

// apply feeds every record of one message into the cache and tallies the outcomes.
func (t *manager) apply(in *inbound) {
	var counts [cmArraySize]int
	counts[cmMsgs] = 1
	counts[cmBadRdata] = in.msg.BadRdata
	for _, rec := range in.msg.Records {
		counts[cmRecords]++
		if rec.TTL() == 0 {
			counts[cmGoodbyes]++
		}
		switch t.cache.UpdateDnsRecord(rec) {
		case mdnscache.RecordAdded:
			counts[cmAdded]++
			if cfg.logUpdates {
				fmt.Fprintln(t.stdout, "CA:"+in.from, rec.Name(), dnsutil.CompactRecordString(rec))
			}
		case mdnscache.RecordChanged:
			counts[cmChanged]++
			if cfg.logUpdates {
				fmt.Fprintln(t.stdout, "CC:"+in.from, rec.Name(), dnsutil.CompactRecordString(rec))
			}
		case mdnscache.NoChange:
			counts[cmRefreshed]++
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for ix := 0; ix < len(counts); ix++ {
		t.updateCounters[ix] += counts[ix]
	}
	t.size = t.cache.Len()
}

// cleanup runs one expiry pass over the cache. An overfilled cache empties completely which is
// counted as a clear rather than routine expiry.
func (t *manager) cleanup(now time.Time) {
	overfilled := t.cache.IsCacheOverfilled()
	removed := 0
	t.cache.CleanupRecords(now, func(rec *record.Parsed) {
		removed++
		if cfg.logExpiry {
			fmt.Fprintln(t.stdout, "CX:", rec.Name(), dnsutil.CompactRecordString(rec))
		}
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	t.expired += removed
	if overfilled && removed > 0 {
		t.clears++
	}
	t.size = t.cache.Len()
}

func (t *manager) Name() string {
	return "Cache"
}

/*

Reporter Output:

msgs=12 recs=40 (5/1/30/2/2) expired=3 clears=0 size=37
                 ^ ^  ^ ^ ^
                 | |  | | +--BadRdata records skipped by the parser
                 | |  | +--Goodbye records (TTL=0)
                 | |  +--Refreshed (no change)
                 | +--Changed
                 +--Added

*/

func (t *manager) Report(resetCounters bool) string {
	if resetCounters {
		t.mu.Lock()
		defer t.mu.Unlock()
	} else {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}

	s := fmt.Sprintf("msgs=%d recs=%d (%s) expired=%d clears=%d size=%d",
		t.updateCounters[cmMsgs], t.updateCounters[cmRecords],
		formatCounters("%d", "/", t.updateCounters[cmAdded:]),
		t.expired, t.clears, t.size)

	if resetCounters {
		size := t.size
		t.managerStats = managerStats{}
		t.size = size
	}

	return s
}

// formatCounters returns a nice %d/%d/%d format for an array of ints. This is less error-prone
// than hard-coding one big ol' Sprintf string but obviously slower. Not relevant in this context.
func formatCounters(vfmt string, delim string, vals []int) string {
	res := ""
	for ix, v := range vals {
		if ix > 0 {
			res += delim
		}
		res += fmt.Sprintf(vfmt, v)
	}

	return res
}
