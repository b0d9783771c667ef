package dnswire

import (
	"fmt"
	"strings"

	"github.com/markdingo/mdnscache/internal/constants"
)

var (
	consts = constants.Get()
)

// ReadName reads a length-prefixed label sequence starting at the cursor and returns it in dotted
// form without a trailing dot - the root name comes back as "". Case is preserved; callers wanting
// case-insensitive comparison fold for themselves.
//
// Compression pointers (top two label-length bits set, RFC1035 s4.1.4) are followed within the full
// message. The cursor is left immediately after the name in the *original* label stream, i.e. after
// the first pointer if one was followed. Pointer loops cannot run away because every label read
// counts towards the RFC1035 255-octet encoded-name limit and the read fails once that is breached.
func (t *Cursor) ReadName() (string, error) {
	var sb strings.Builder
	encodedLen := uint(0) // Octets the name would occupy uncompressed, bounds all work
	endOffset := -1       // Where the cursor lands once done; set by the first pointer
	pos := t.off

	for {
		if pos >= len(t.msg) {
			return "", fmt.Errorf("dnswire: name ran off the end of the message at offset %d", pos)
		}
		length := t.msg[pos]

		if length&consts.LabelPointerMask == consts.LabelPointerMask { // Compression pointer
			if pos+1 >= len(t.msg) {
				return "", fmt.Errorf("dnswire: truncated compression pointer at offset %d", pos)
			}
			if endOffset == -1 {
				endOffset = pos + 2
			}
			ptr := uint16(length)<<8 | uint16(t.msg[pos+1])
			pos = int(ptr & consts.PointerOffsetMask)
			encodedLen += 2 // A pointer still consumes space towards the limit
			if encodedLen > consts.MaxNameLength {
				return "", fmt.Errorf("dnswire: name exceeds %d octets (pointer loop?)",
					consts.MaxNameLength)
			}
			continue
		}

		if length&consts.LabelPointerMask != 0 { // 0x40 and 0x80 label types were never deployed
			return "", fmt.Errorf("dnswire: reserved label type 0x%02x at offset %d", length, pos)
		}

		if length == 0 { // Terminal zero label
			pos++
			encodedLen++
			break
		}

		labelEnd := pos + 1 + int(length)
		if labelEnd > len(t.msg) {
			return "", fmt.Errorf("dnswire: label of %d octets overruns message at offset %d",
				length, pos)
		}
		encodedLen += uint(length) + 1
		if encodedLen > consts.MaxNameLength {
			return "", fmt.Errorf("dnswire: name exceeds %d octets", consts.MaxNameLength)
		}

		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.Write(t.msg[pos+1 : labelEnd])
		pos = labelEnd
	}

	if endOffset == -1 {
		endOffset = pos
	}
	t.off = endOffset

	return sb.String(), nil
}

// EncodeName converts a dotted-form domain name into its uncompressed wire form: each label as a
// length octet followed by the label octets, terminated by a zero octet. A trailing dot is
// accepted; "" and "." both encode the root name. Fails if any label exceeds 63 octets or the
// encoded form exceeds 255 octets.
func EncodeName(name string) ([]byte, error) {
	name = strings.TrimSuffix(name, ".")
	if len(name) == 0 {
		return []byte{0}, nil
	}

	out := make([]byte, 0, len(name)+2)
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 {
			return nil, fmt.Errorf("dnswire: empty label in %q", name)
		}
		if uint(len(label)) > consts.MaxLabelLength {
			return nil, fmt.Errorf("dnswire: label %q exceeds %d octets",
				label, consts.MaxLabelLength)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)
	if uint(len(out)) > consts.MaxNameLength {
		return nil, fmt.Errorf("dnswire: name %q encodes to %d octets, limit is %d",
			name, len(out), consts.MaxNameLength)
	}

	return out, nil
}
