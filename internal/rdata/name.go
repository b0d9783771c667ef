package rdata

import (
	"fmt"

	"github.com/markdingo/mdnscache/internal/dnswire"
)

// CNAME is a canonical-name record payload (RFC1035 s3.3.1).
type CNAME struct {
	target string
}

func parseCNAME(c *dnswire.Cursor) (*CNAME, error) {
	name, err := c.ReadName()
	if err != nil {
		return nil, fmt.Errorf("rdata: CNAME target: %w", err)
	}

	return &CNAME{target: name}, nil
}

func (t *CNAME) Type() uint16 {
	return TypeCNAME
}

// Target returns the canonical name in dotted form.
func (t *CNAME) Target() string {
	return t.target
}

func (t *CNAME) IsEqual(other Rdata) bool {
	o, ok := other.(*CNAME)

	return ok && t.target == o.target
}

// PTR is a domain-name-pointer record payload (RFC1035 s3.3.12). In mDNS this carries the service
// instance name under a service-type owner name, which is why the cache treats the pointed-to
// domain as part of the record's identity.
type PTR struct {
	ptrDomain string
}

func parsePTR(c *dnswire.Cursor) (*PTR, error) {
	name, err := c.ReadName()
	if err != nil {
		return nil, fmt.Errorf("rdata: PTR domain: %w", err)
	}

	return &PTR{ptrDomain: name}, nil
}

func (t *PTR) Type() uint16 {
	return TypePTR
}

// PtrDomain returns the pointed-to domain in dotted form.
func (t *PTR) PtrDomain() string {
	return t.ptrDomain
}

func (t *PTR) IsEqual(other Rdata) bool {
	o, ok := other.(*PTR)

	return ok && t.ptrDomain == o.ptrDomain
}

// SRV is a service-location record payload (RFC2782).
type SRV struct {
	priority uint16
	weight   uint16
	port     uint16
	target   string
}

// parseSRV reads the three fixed fields then the target name. The name is read via the
// message-level cursor, not the bare payload, because the target may finish with a compression
// pointer back into the message.
func parseSRV(data []byte, c *dnswire.Cursor) (*SRV, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("rdata: SRV payload is %d octets, minimum is 6", len(data))
	}
	priority, _ := c.Uint16() // Cannot fail - the length check above covers all three
	weight, _ := c.Uint16()
	port, _ := c.Uint16()
	target, err := c.ReadName()
	if err != nil {
		return nil, fmt.Errorf("rdata: SRV target: %w", err)
	}

	return &SRV{priority: priority, weight: weight, port: port, target: target}, nil
}

func (t *SRV) Type() uint16 {
	return TypeSRV
}

func (t *SRV) Priority() uint16 {
	return t.priority
}

func (t *SRV) Weight() uint16 {
	return t.weight
}

func (t *SRV) Port() uint16 {
	return t.port
}

// Target returns the service host name in dotted form.
func (t *SRV) Target() string {
	return t.target
}

func (t *SRV) IsEqual(other Rdata) bool {
	o, ok := other.(*SRV)

	return ok &&
		t.priority == o.priority && t.weight == o.weight &&
		t.port == o.port && t.target == o.target
}
