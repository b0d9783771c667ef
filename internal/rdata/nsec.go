package rdata

import (
	"bytes"
	"fmt"

	"github.com/markdingo/mdnscache/internal/dnswire"
)

// NSEC is the simplified mDNS form of the next-secure record (RFC6762 s6.1): the "next domain
// name" field is consumed but its content ignored, and exactly one type bitmap block with block
// number zero is accepted. Block zero covers RR types 0-255 so the bitmap is 1 to 32 octets.
type NSEC struct {
	bitmap []byte
}

func parseNSEC(data []byte, c *dnswire.Cursor) (*NSEC, error) {
	start := c.Offset()
	if _, err := c.ReadName(); err != nil { // Next domain name: consumed, content ignored
		return nil, fmt.Errorf("rdata: NSEC next domain name: %w", err)
	}
	consumed := c.Offset() - start
	if consumed > len(data) {
		return nil, fmt.Errorf("rdata: NSEC next domain name overruns payload")
	}

	rest := data[consumed:]
	if len(rest) < 2 {
		return nil, fmt.Errorf("rdata: NSEC bitmap header is %d octets, minimum is 2", len(rest))
	}
	blockNumber := rest[0]
	bitmapLength := int(rest[1])
	if blockNumber != 0 {
		return nil, fmt.Errorf("rdata: NSEC block number %d unsupported, only block 0 accepted",
			blockNumber)
	}
	if bitmapLength < 1 || bitmapLength > 32 {
		return nil, fmt.Errorf("rdata: NSEC bitmap of %d octets is not in range 1-32", bitmapLength)
	}
	if len(rest) != 2+bitmapLength {
		return nil, fmt.Errorf("rdata: NSEC bitmap declares %d octets but %d follow",
			bitmapLength, len(rest)-2)
	}

	return &NSEC{bitmap: append([]byte{}, rest[2:]...)}, nil
}

func (t *NSEC) Type() uint16 {
	return TypeNSEC
}

// BitmapLength returns the number of bits the bitmap covers.
func (t *NSEC) BitmapLength() int {
	return len(t.bitmap) * 8
}

// GetBit reports whether bit i of the type bitmap is set. Bits are most-significant first within
// each octet (RFC4034 s4.1.2). Out-of-range indexes are simply unset, not an error.
func (t *NSEC) GetBit(i int) bool {
	if i < 0 || i >= t.BitmapLength() {
		return false
	}

	return t.bitmap[i/8]&(1<<uint(7-i%8)) != 0
}

func (t *NSEC) IsEqual(other Rdata) bool {
	o, ok := other.(*NSEC)

	return ok && bytes.Equal(t.bitmap, o.bitmap)
}
