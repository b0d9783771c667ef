package rdata

import (
	"fmt"
)

// TXT is a text record payload (RFC1035 s3.3.14): an ordered sequence of length-prefixed
// character-strings. A zero-length character-string is legitimate and preserved as an empty
// entry.
type TXT struct {
	texts []string
}

func parseTXT(data []byte) (*TXT, error) {
	t := &TXT{}
	for i := 0; i < len(data); {
		length := int(data[i])
		i++
		if i+length > len(data) {
			return nil, fmt.Errorf("rdata: TXT character-string of %d octets overruns payload", length)
		}
		t.texts = append(t.texts, string(data[i:i+length]))
		i += length
	}

	return t, nil
}

func (t *TXT) Type() uint16 {
	return TypeTXT
}

// Texts returns the character-strings in wire order. The caller must not modify the slice.
func (t *TXT) Texts() []string {
	return t.texts
}

func (t *TXT) IsEqual(other Rdata) bool {
	o, ok := other.(*TXT)
	if !ok || len(t.texts) != len(o.texts) {
		return false
	}
	for i := range t.texts {
		if t.texts[i] != o.texts[i] {
			return false
		}
	}

	return true
}
