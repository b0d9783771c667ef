/*
Package record turns one DNS resource-record envelope off the wire into an immutable Parsed value:
owner name, type, class, TTL, creation time and - when the type is one the rdata package
understands - a decoded payload. Parsed records are what the cache stores and what the daemon's
read loop produces.

The strictness split matters here: a record of an *unrecognized* type parses fine with a nil
payload (the envelope is still useful), whereas a *recognized* type whose payload fails its
type-specific validation rejects the whole record. Half-understood payloads of a known type are a
correctness risk; ignorance of an unknown type is not.
*/
package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/markdingo/mdnscache/internal/constants"
	"github.com/markdingo/mdnscache/internal/dnswire"
	"github.com/markdingo/mdnscache/internal/rdata"
)

var (
	consts = constants.Get()
)

// ErrBadRdata marks a record whose envelope parsed but whose recognized-type payload did not. The
// cursor has been advanced past the record, so a caller scanning a multi-record message can
// errors.Is for this and carry on with the next record.
var ErrBadRdata = errors.New("record: recognized type with malformed rdata")

// Parsed is one parsed resource record. It never mutates after Read returns it - the cache and
// every borrower rely on that.
type Parsed struct {
	name    string // Dotted form, case preserved for display
	rrtype  uint16
	class   uint16
	ttl     uint32
	rd      rdata.Rdata // nil when rrtype is unrecognized
	created time.Time
}

// Read consumes one resource record from the cursor. created becomes the record's creation time;
// callers normally pass the packet arrival time.
//
// If the envelope itself is malformed an error is returned and the cursor position is undefined.
// If the envelope is fine the cursor always finishes just past the record - even when a
// recognized type's payload fails validation, in which case the returned error wraps ErrBadRdata
// and the caller may continue scanning.
func Read(c *dnswire.Cursor, created time.Time) (*Parsed, error) {
	name, err := c.ReadName()
	if err != nil {
		return nil, fmt.Errorf("record: owner name: %w", err)
	}
	rrtype, err := c.Uint16()
	if err != nil {
		return nil, fmt.Errorf("record: type: %w", err)
	}
	class, err := c.Uint16()
	if err != nil {
		return nil, fmt.Errorf("record: class: %w", err)
	}
	ttl, err := c.Uint32()
	if err != nil {
		return nil, fmt.Errorf("record: ttl: %w", err)
	}
	rdLength, err := c.Uint16()
	if err != nil {
		return nil, fmt.Errorf("record: rdlength: %w", err)
	}
	rdOffset := c.Offset()
	data, err := c.Bytes(int(rdLength)) // Advances past the rdata regardless of what's in it
	if err != nil {
		return nil, fmt.Errorf("record: rdata of %d octets overruns message", rdLength)
	}

	rd, err := rdata.Parse(rrtype, data, c.At(rdOffset))
	if err != nil {
		return nil, fmt.Errorf("%w: type %d for %q: %s", ErrBadRdata, rrtype, name, err.Error())
	}

	return &Parsed{
		name:    name,
		rrtype:  rrtype,
		class:   class,
		ttl:     ttl,
		rd:      rd,
		created: created,
	}, nil
}

// New constructs a record directly rather than off the wire. Tests and local responders use this;
// the daemon path always goes through Read.
func New(name string, rrtype uint16, class uint16, ttl uint32, rd rdata.Rdata, created time.Time) *Parsed {
	return &Parsed{name: name, rrtype: rrtype, class: class, ttl: ttl, rd: rd, created: created}
}

// Name returns the owner name in dotted form with original case.
func (t *Parsed) Name() string {
	return t.name
}

// Type returns the IANA RR type number.
func (t *Parsed) Type() uint16 {
	return t.rrtype
}

// Class returns the RR class as it appeared on the wire, cache-flush bit included.
func (t *Parsed) Class() uint16 {
	return t.class
}

// TTL returns the time-to-live in seconds. Zero is the mDNS "goodbye" announcement.
func (t *Parsed) TTL() uint32 {
	return t.ttl
}

// Rdata returns the decoded payload, or nil when the record type is unrecognized.
func (t *Parsed) Rdata() rdata.Rdata {
	return t.rd
}

// Created returns when this record was parsed or constructed.
func (t *Parsed) Created() time.Time {
	return t.created
}

// ExpiresAt returns the moment this record ceases to be a valid answer. A goodbye record (TTL
// zero) still gets a one-second grace window per RFC6762 s10.1 rather than expiring at its own
// creation instant.
func (t *Parsed) ExpiresAt() time.Time {
	ttl := t.ttl
	if ttl == 0 {
		ttl = 1
	}

	return t.created.Add(time.Duration(ttl) * time.Second)
}

// IsEqual compares name, class, type and payload. TTL and creation time are deliberately left
// out: a re-announcement with a fresher TTL is still the "same" record.
//
// With isMDns set, both class fields are masked with ClassMask first so that two records
// differing only in the cache-flush bit compare equal (RFC6762 s10.2). Two records of the same
// unrecognized type compare equal on the envelope alone - neither carries a payload to disagree
// over.
func (t *Parsed) IsEqual(other *Parsed, isMDns bool) bool {
	thisClass, otherClass := t.class, other.class
	if isMDns {
		thisClass &= consts.ClassMask
		otherClass &= consts.ClassMask
	}
	if t.name != other.name || thisClass != otherClass || t.rrtype != other.rrtype {
		return false
	}
	if t.rd == nil || other.rd == nil {
		return t.rd == nil && other.rd == nil
	}

	return t.rd.IsEqual(other.rd)
}
