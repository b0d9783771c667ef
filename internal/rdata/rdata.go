/*
Package rdata decodes the type-specific payload of a DNS resource record into a comparable Go
value. The set of record types is closed - it is fixed by the DNS standards this package cares
about (RFC1035 and the mDNS profile of RFC6762) - so dispatch is a plain switch on the IANA type
number rather than anything extensible.

Every parser treats malformed input as routine: hostile or buggy senders are a fact of life on a
multicast segment, so a structural violation produces an error return, never a panic and never a
partially populated value.
*/
package rdata

import (
	"github.com/markdingo/mdnscache/internal/dnswire"
)

// IANA RR type numbers for the types this package decodes.
const (
	TypeA     uint16 = 1
	TypeCNAME uint16 = 5
	TypePTR   uint16 = 12
	TypeTXT   uint16 = 16
	TypeAAAA  uint16 = 28
	TypeSRV   uint16 = 33
	TypeOPT   uint16 = 41
	TypeNSEC  uint16 = 47
)

// Rdata is a decoded record payload. Implementations are immutable once parsed, with the single
// exception of OPT which is also built up incrementally during query construction.
type Rdata interface {

	// Type returns the IANA RR type number this payload decodes.
	Type() uint16

	// IsEqual reports whether other carries the same decoded payload. It is false whenever
	// the types differ.
	IsEqual(other Rdata) bool
}

// Parse decodes the rdata payload for the given record type. data is exactly the RDLENGTH octets
// of the record and c is a cursor into the full message positioned at the first of them - the
// cursor matters because CNAME, PTR, SRV and NSEC payloads embed domain names whose compression
// pointers can only be resolved against the whole message.
//
// A recognized type with a malformed payload returns a non-nil error. An unrecognized type
// returns (nil, nil): the caller still has a usable record envelope, there is just no payload
// interpretation to offer.
func Parse(rrtype uint16, data []byte, c *dnswire.Cursor) (Rdata, error) {
	switch rrtype {
	case TypeA:
		return parseA(data)
	case TypeAAAA:
		return parseAAAA(data)
	case TypeCNAME:
		return parseCNAME(c)
	case TypePTR:
		return parsePTR(c)
	case TypeSRV:
		return parseSRV(data, c)
	case TypeTXT:
		return parseTXT(data)
	case TypeNSEC:
		return parseNSEC(data, c)
	case TypeOPT:
		return parseOPT(data)
	}

	return nil, nil
}
