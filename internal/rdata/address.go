package rdata

import (
	"fmt"
	"net"
)

// A is an IPv4 address record payload (RFC1035 s3.4.1).
type A struct {
	address net.IP
}

func parseA(data []byte) (*A, error) {
	if len(data) != net.IPv4len {
		return nil, fmt.Errorf("rdata: A payload is %d octets, must be %d", len(data), net.IPv4len)
	}

	return &A{address: append(net.IP{}, data...)}, nil
}

func (t *A) Type() uint16 {
	return TypeA
}

// Address returns the IPv4 address. The caller must not modify it.
func (t *A) Address() net.IP {
	return t.address
}

func (t *A) IsEqual(other Rdata) bool {
	o, ok := other.(*A)

	return ok && t.address.Equal(o.address)
}

// AAAA is an IPv6 address record payload (RFC3596).
type AAAA struct {
	address net.IP
}

func parseAAAA(data []byte) (*AAAA, error) {
	if len(data) != net.IPv6len {
		return nil, fmt.Errorf("rdata: AAAA payload is %d octets, must be %d", len(data), net.IPv6len)
	}

	return &AAAA{address: append(net.IP{}, data...)}, nil
}

func (t *AAAA) Type() uint16 {
	return TypeAAAA
}

// Address returns the IPv6 address. The caller must not modify it.
func (t *AAAA) Address() net.IP {
	return t.address
}

func (t *AAAA) IsEqual(other Rdata) bool {
	o, ok := other.(*AAAA)

	return ok && t.address.Equal(o.address)
}
