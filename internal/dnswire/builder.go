package dnswire

import (
	"encoding/binary"
)

// Builder accumulates a DNS message (or a fragment of one, such as an rdata payload) in wire
// order. It never fails - length policing is the caller's business - it merely keeps the
// big-endian fiddling in one place.
type Builder struct {
	buf []byte
}

// Uint8 appends one octet.
func (t *Builder) Uint8(v uint8) *Builder {
	t.buf = append(t.buf, v)

	return t
}

// Uint16 appends a big-endian 16bit field.
func (t *Builder) Uint16(v uint16) *Builder {
	t.buf = binary.BigEndian.AppendUint16(t.buf, v)

	return t
}

// Uint32 appends a big-endian 32bit field.
func (t *Builder) Uint32(v uint32) *Builder {
	t.buf = binary.BigEndian.AppendUint32(t.buf, v)

	return t
}

// Bytes appends raw octets verbatim.
func (t *Builder) Bytes(b []byte) *Builder {
	t.buf = append(t.buf, b...)

	return t
}

// Len returns the number of octets appended so far.
func (t *Builder) Len() int {
	return len(t.buf)
}

// Message returns the accumulated octets. The slice is the builder's own - append no more after
// taking it.
func (t *Builder) Message() []byte {
	return t.buf
}
