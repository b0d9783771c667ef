/*
Package query builds binary DNS queries: the fixed 12-octet header, one question and optionally an
EDNS0 OPT pseudo-record in the additional section (RFC6891). The wire form is constructed eagerly
at New() time so a Query is immutable and Message() costs nothing, which suits retransmission.
*/
package query

import (
	"fmt"

	"github.com/markdingo/mdnscache/internal/constants"
	"github.com/markdingo/mdnscache/internal/dnswire"
	"github.com/markdingo/mdnscache/internal/rdata"
)

var (
	consts = constants.Get()
)

// Config carries the optional knobs for New. The zero value of everything bar Name and Qtype is
// sensible: class defaults to IN, no recursion, no EDNS0.
type Config struct {
	ID     uint16
	Name   string // Dotted form; trailing dot accepted
	Qtype  uint16
	Qclass uint16 // Defaults to IN

	RecursionDesired bool // Set RD - never wanted for mDNS, often wanted for unicast DNS

	EDNS            *rdata.OPT // When non-nil an OPT pseudo-record is appended
	UDPPayloadSize  uint16     // Requestor's payload size for the OPT; defaulted when zero
}

// Query is one immutable, pre-packed DNS query.
type Query struct {
	id    uint16
	qname string
	qtype uint16
	msg   []byte
}

// New validates the config and packs the message.
func New(cfg Config) (*Query, error) {
	encodedName, err := dnswire.EncodeName(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	qclass := cfg.Qclass
	if qclass == 0 {
		qclass = consts.ClassIN
	}
	var flags uint16
	if cfg.RecursionDesired {
		flags |= consts.FlagRD
	}
	arcount := uint16(0)
	if cfg.EDNS != nil {
		arcount = 1
	}

	var b dnswire.Builder
	b.Uint16(cfg.ID).Uint16(flags)
	b.Uint16(1).Uint16(0).Uint16(0).Uint16(arcount) // qd/an/ns/ar
	b.Bytes(encodedName).Uint16(cfg.Qtype).Uint16(qclass)

	if cfg.EDNS != nil {
		payloadSize := cfg.UDPPayloadSize
		if payloadSize == 0 {
			payloadSize = consts.EDNSPayloadSize
		}
		optData := cfg.EDNS.Buf()
		b.Uint8(0)                  // Owner name is the root
		b.Uint16(rdata.TypeOPT)     // TYPE
		b.Uint16(payloadSize)       // CLASS carries the requestor's UDP payload size
		b.Uint32(0)                 // TTL carries extended RCODE 0, version 0, flags 0
		b.Uint16(uint16(len(optData))).Bytes(optData)
	}

	return &Query{id: cfg.ID, qname: cfg.Name, qtype: cfg.Qtype, msg: b.Message()}, nil
}

// ID returns the query id.
func (t *Query) ID() uint16 {
	return t.id
}

// Qname returns the question name as supplied.
func (t *Query) Qname() string {
	return t.qname
}

// Qtype returns the question type.
func (t *Query) Qtype() uint16 {
	return t.qtype
}

// Message returns the packed wire form. The caller must not modify it.
func (t *Query) Message() []byte {
	return t.msg
}
