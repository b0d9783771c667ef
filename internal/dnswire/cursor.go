/*
Package dnswire provides the low-level DNS wire-format plumbing shared by the record and query
packages: big-endian field readers over a message, RFC1035 domain-name encoding and decoding
(including compression pointers) and a small append-only builder for constructing messages.

All multi-octet fields are big-endian per RFC1035 s4. A Cursor always carries the complete message
rather than a sub-slice because domain-name compression pointers are offsets from the start of the
message and can only be resolved with the full message in hand.
*/
package dnswire

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a read position within a complete DNS message. Read methods advance the cursor and
// return an error, leaving the cursor unchanged, if the requested field would run past the end of
// the message. Malformed messages off the wire are routine so none of these methods panic.
type Cursor struct {
	msg []byte
	off int
}

// NewCursor returns a cursor over msg positioned at offset. The offset is not validated here - the
// first read from an out-of-range cursor fails instead.
func NewCursor(msg []byte, offset int) *Cursor {
	return &Cursor{msg: msg, off: offset}
}

// At returns a new cursor into the same message at the supplied offset. Rdata parsers use this to
// re-enter the message at an interior offset so that compression pointers still resolve.
func (t *Cursor) At(offset int) *Cursor {
	return &Cursor{msg: t.msg, off: offset}
}

// Offset returns the current read position as an offset from the start of the message.
func (t *Cursor) Offset() int {
	return t.off
}

// Remaining returns how many unread octets follow the current position.
func (t *Cursor) Remaining() int {
	if t.off >= len(t.msg) {
		return 0
	}

	return len(t.msg) - t.off
}

// Uint8 reads one octet.
func (t *Cursor) Uint8() (uint8, error) {
	if t.Remaining() < 1 {
		return 0, fmt.Errorf("dnswire: Uint8 wants 1 octet, %d remain", t.Remaining())
	}
	v := t.msg[t.off]
	t.off++

	return v, nil
}

// Uint16 reads a big-endian 16bit field.
func (t *Cursor) Uint16() (uint16, error) {
	if t.Remaining() < 2 {
		return 0, fmt.Errorf("dnswire: Uint16 wants 2 octets, %d remain", t.Remaining())
	}
	v := binary.BigEndian.Uint16(t.msg[t.off:])
	t.off += 2

	return v, nil
}

// Uint32 reads a big-endian 32bit field.
func (t *Cursor) Uint32() (uint32, error) {
	if t.Remaining() < 4 {
		return 0, fmt.Errorf("dnswire: Uint32 wants 4 octets, %d remain", t.Remaining())
	}
	v := binary.BigEndian.Uint32(t.msg[t.off:])
	t.off += 4

	return v, nil
}

// Bytes reads the next n octets. The returned slice aliases the message - callers that retain it
// beyond the life of the message must copy.
func (t *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || t.Remaining() < n {
		return nil, fmt.Errorf("dnswire: Bytes wants %d octets, %d remain", n, t.Remaining())
	}
	v := t.msg[t.off : t.off+n]
	t.off += n

	return v, nil
}

// Skip advances past n octets without looking at them.
func (t *Cursor) Skip(n int) error {
	if n < 0 || t.Remaining() < n {
		return fmt.Errorf("dnswire: Skip wants %d octets, %d remain", n, t.Remaining())
	}
	t.off += n

	return nil
}
