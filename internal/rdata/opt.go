package rdata

import (
	"bytes"
	"fmt"

	"github.com/markdingo/mdnscache/internal/dnswire"
)

// Opt is one EDNS0 option: a code and its opaque payload (RFC6891 s6.1.2).
type Opt struct {
	Code uint16
	Data []byte
}

// OPT is the EDNS0 pseudo-record payload: an ordered list of options. Unlike every other payload
// in this package it is also built incrementally - query construction creates an empty OPT and
// calls AddOpt - so it maintains the decoded option list and the verbatim wire octets side by
// side and the two never disagree.
type OPT struct {
	buf  []byte
	opts []Opt
}

func parseOPT(data []byte) (*OPT, error) {
	t := &OPT{}
	c := dnswire.NewCursor(data, 0)
	for c.Remaining() > 0 {
		code, err := c.Uint16()
		if err != nil {
			return nil, fmt.Errorf("rdata: OPT option code: %w", err)
		}
		length, err := c.Uint16()
		if err != nil {
			return nil, fmt.Errorf("rdata: OPT option length: %w", err)
		}
		optData, err := c.Bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("rdata: OPT option of %d octets overruns payload", length)
		}
		t.AddOpt(code, optData)
	}

	return t, nil
}

// AddOpt appends an option to both the decoded list and the wire octets. The data is copied so
// the caller keeps ownership of its slice.
func (t *OPT) AddOpt(code uint16, data []byte) {
	copied := append([]byte{}, data...)
	var b dnswire.Builder
	b.Uint16(code).Uint16(uint16(len(copied))).Bytes(copied)
	t.buf = append(t.buf, b.Message()...)
	t.opts = append(t.opts, Opt{Code: code, Data: copied})
}

// Opts returns the options in wire order. The caller must not modify them.
func (t *OPT) Opts() []Opt {
	return t.opts
}

// Buf returns the options in their verbatim wire form, ready to emit as RDATA.
func (t *OPT) Buf() []byte {
	return t.buf
}

func (t *OPT) Type() uint16 {
	return TypeOPT
}

func (t *OPT) IsEqual(other Rdata) bool {
	o, ok := other.(*OPT)
	if !ok || len(t.opts) != len(o.opts) {
		return false
	}
	for i := range t.opts {
		if t.opts[i].Code != o.opts[i].Code || !bytes.Equal(t.opts[i].Data, o.opts[i].Data) {
			return false
		}
	}

	return true
}
