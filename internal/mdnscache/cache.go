/*
Package mdnscache is an ordered, TTL-governed store of parsed mDNS resource records. Records are
keyed by (lowercased owner name, type, disambiguator) with the name as the primary sort field so
that all records for one name - any type - sit contiguously and can be served by a single ordered
scan.

Expiry is lazy. Nothing here runs a timer or a goroutine: the owner calls CleanupRecords whenever
it likes (every network-read tick is fine - the call is a cheap no-op until the cached
next-expiration bound passes) and expired entries simply stop being returned by FindDnsRecords in
the meantime.

The cache is deliberately not safe for concurrent use. Every method must be called from a single
logical owner, exactly as a per-listener network stack would. Adding internal locking would
silently change the cost model that makes call-on-every-tick cleanup reasonable, so callers
needing cross-goroutine access must serialize externally.
*/
package mdnscache

import (
	"sort"
	"strings"
	"time"

	"github.com/markdingo/mdnscache/internal/rdata"
	"github.com/markdingo/mdnscache/internal/record"
)

// UpdateType classifies what a record did to the cache. UpdateDnsRecord returns RecordAdded,
// RecordChanged or NoChange; RecordRemoved exists only to classify removal notifications during
// cleanup - removal is only ever a side effect of cleanup, never of an update.
type UpdateType int

const (
	NoChange UpdateType = iota
	RecordAdded
	RecordChanged
	RecordRemoved
)

func (u UpdateType) String() string {
	switch u {
	case NoChange:
		return "NoChange"
	case RecordAdded:
		return "Added"
	case RecordChanged:
		return "Changed"
	case RecordRemoved:
		return "Removed"
	}

	return "?"
}

// Key identifies one cache slot. Name is the lowercased owner name - mDNS names compare
// case-insensitively - and Disambiguator separates records that legitimately share a (name, type)
// pair: for PTR records it is the pointed-to domain, for everything else it is empty.
type Key struct {
	Name          string
	Type          uint16
	Disambiguator string
}

// KeyFor derives the cache key for a record.
func KeyFor(rec *record.Parsed) Key {
	key := Key{Name: strings.ToLower(rec.Name()), Type: rec.Type()}
	if ptr, ok := rec.Rdata().(*rdata.PTR); ok {
		key.Disambiguator = ptr.PtrDomain()
	}

	return key
}

// keyLess orders keys by (Name, Type, Disambiguator). Name first is what makes the
// FindDnsRecords range scan possible.
func keyLess(a, b Key) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}

	return a.Disambiguator < b.Disambiguator
}

// Cache is the store itself. The zero value is not usable - call New.
type Cache struct {
	entryLimit int
	records    map[Key]*record.Parsed
	keys       []Key // Sorted by keyLess; always in lockstep with records

	// nextExpiration is a lower bound (not necessarily tight) on the earliest expiry across
	// all entries. The zero time means "unknown or empty". Updates only ever pull it
	// earlier; CleanupRecords recomputes it exactly.
	nextExpiration time.Time
}

// New creates a cache that considers itself overfilled beyond entryLimit entries. Overfill does
// not reject updates - it arms the next CleanupRecords call to clear everything.
func New(entryLimit int) *Cache {
	return &Cache{
		entryLimit: entryLimit,
		records:    make(map[Key]*record.Parsed),
	}
}

// Len returns the number of cached records, expired-but-uncleaned entries included.
func (t *Cache) Len() int {
	return len(t.records)
}

// IsCacheOverfilled reports whether the entry count has passed the limit, which arms the
// clear-everything path of the next CleanupRecords call.
func (t *Cache) IsCacheOverfilled() bool {
	return len(t.records) > t.entryLimit
}

// NextExpiration returns the cached lower bound on the earliest expiry, or the zero time when
// unknown or empty. Owners can use it to schedule their next cleanup call.
func (t *Cache) NextExpiration() time.Time {
	return t.nextExpiration
}

// UpdateDnsRecord folds one announced record into the cache and classifies the effect. The stored
// record is replaced even on NoChange so that a re-announcement refreshes TTL and creation time.
//
// A TTL-zero "goodbye" for a key that is not cached is a no-op: there is nothing to say goodbye
// to, and inserting it would only create pointless churn. A goodbye for a cached key replaces the
// entry as usual and the one-second grace expiry takes it from there.
func (t *Cache) UpdateDnsRecord(rec *record.Parsed) UpdateType {
	key := KeyFor(rec)

	existing, found := t.records[key]
	if !found && rec.TTL() == 0 {
		return NoChange
	}

	newExpiration := rec.ExpiresAt()
	if !t.nextExpiration.IsZero() && t.nextExpiration.Before(newExpiration) {
		newExpiration = t.nextExpiration // The bound only ever moves earlier here
	}

	result := NoChange
	if !found {
		t.insertKey(key)
		result = RecordAdded
	} else if rec.TTL() != 0 && !rec.IsEqual(existing, true) {
		result = RecordChanged
	}
	t.records[key] = rec
	t.nextExpiration = newExpiration

	return result
}

// LookupKey returns the record stored under key, or nil. Expiry is not consulted - an expired
// record that cleanup hasn't visited yet is still returned. Only FindDnsRecords and
// CleanupRecords care about expiry.
//
// The returned record is borrowed: it is valid only until the next mutating call on this cache.
func (t *Cache) LookupKey(key Key) *record.Parsed {
	return t.records[key]
}

// FindDnsRecords returns all unexpired records for name (case-insensitive) in key order. An
// rrtype of zero is a wildcard matching every type. Expired entries are skipped but not removed -
// that remains CleanupRecords' job.
//
// The returned records are borrowed: they are valid only until the next mutating call.
func (t *Cache) FindDnsRecords(rrtype uint16, name string, now time.Time) []*record.Parsed {
	var found []*record.Parsed
	lowered := strings.ToLower(name)

	seek := Key{Name: lowered, Type: rrtype}
	ix := sort.Search(len(t.keys), func(i int) bool { return !keyLess(t.keys[i], seek) })

	for ; ix < len(t.keys); ix++ {
		key := t.keys[ix]
		if key.Name != lowered || (rrtype != 0 && key.Type != rrtype) {
			break // Sorted order guarantees no later key can match
		}
		rec := t.records[key]
		if !rec.ExpiresAt().After(now) {
			continue
		}
		found = append(found, rec)
	}

	return found
}

// RemoveRecord removes rec from the cache and hands its ownership back, but only if the stored
// entry is this exact record - pointer identity, not value equality - so a caller holding a stale
// borrow cannot remove a newer record that happens to share the key. Returns nil when the key is
// absent or holds a different record; both are ordinary "already gone" outcomes, not errors.
func (t *Cache) RemoveRecord(rec *record.Parsed) *record.Parsed {
	key := KeyFor(rec)
	stored, found := t.records[key]
	if !found || stored != rec {
		return nil
	}

	delete(t.records, key)
	t.removeKey(key)

	return stored
}

// CleanupRecords evicts what needs evicting and recomputes the next-expiration bound. When the
// cache is overfilled *everything* goes - deliberately coarse, see the package notes - otherwise
// only entries whose expiry has passed. onRemoved, if non-nil, is invoked for each evicted record
// before it is dropped.
//
// When now is still ahead of the cached bound and the cache is not overfilled this returns
// immediately, which is what makes calling it on every tick affordable.
func (t *Cache) CleanupRecords(now time.Time, onRemoved func(*record.Parsed)) {
	clearAll := t.IsCacheOverfilled()
	if !clearAll && !t.nextExpiration.IsZero() && now.Before(t.nextExpiration) {
		return
	}

	var nextExpiration time.Time
	survivors := t.keys[:0]
	for _, key := range t.keys {
		rec := t.records[key]
		expiry := rec.ExpiresAt()
		if clearAll || !expiry.After(now) {
			delete(t.records, key)
			if onRemoved != nil {
				onRemoved(rec)
			}
			continue
		}
		if nextExpiration.IsZero() || expiry.Before(nextExpiration) {
			nextExpiration = expiry
		}
		survivors = append(survivors, key)
	}
	t.keys = survivors
	t.nextExpiration = nextExpiration
}

// insertKey adds key to the sorted slice. The caller has already established it is absent.
func (t *Cache) insertKey(key Key) {
	ix := sort.Search(len(t.keys), func(i int) bool { return !keyLess(t.keys[i], key) })
	t.keys = append(t.keys, Key{})
	copy(t.keys[ix+1:], t.keys[ix:])
	t.keys[ix] = key
}

// removeKey drops key from the sorted slice.
func (t *Cache) removeKey(key Key) {
	ix := sort.Search(len(t.keys), func(i int) bool { return !keyLess(t.keys[i], key) })
	if ix < len(t.keys) && t.keys[ix] == key {
		t.keys = append(t.keys[:ix], t.keys[ix+1:]...)
	}
}
