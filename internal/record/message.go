package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/markdingo/mdnscache/internal/dnswire"
)

// Question is one entry from a message's question section. The daemon doesn't answer questions
// but the diagnostic tools like to show them.
type Question struct {
	Name   string
	Qtype  uint16
	Qclass uint16
}

// Message is the record-level view of one DNS message: header fields, questions and every
// resource record from the answer, authority and additional sections flattened in wire order.
type Message struct {
	ID    uint16
	Flags uint16

	Questions []Question
	Records   []*Parsed

	BadRdata int // Records dropped for recognized-type payload failures
}

// ReadMessage parses a complete message, stamping every record with created. Records whose
// envelope parsed but whose recognized-type payload did not are counted in BadRdata and skipped -
// one sender's garbage answer must not poison the rest of the message. A malformed envelope, on
// the other hand, ends the scan with an error because nothing after it can be located.
func ReadMessage(msg []byte, created time.Time) (*Message, error) {
	c := dnswire.NewCursor(msg, 0)
	m := &Message{}

	var err error
	if m.ID, err = c.Uint16(); err != nil {
		return nil, fmt.Errorf("record: message id: %w", err)
	}
	if m.Flags, err = c.Uint16(); err != nil {
		return nil, fmt.Errorf("record: message flags: %w", err)
	}
	var counts [4]uint16 // qdcount, ancount, nscount, arcount
	for i := range counts {
		if counts[i], err = c.Uint16(); err != nil {
			return nil, fmt.Errorf("record: section count: %w", err)
		}
	}

	for i := uint16(0); i < counts[0]; i++ {
		var q Question
		if q.Name, err = c.ReadName(); err != nil {
			return nil, fmt.Errorf("record: question %d name: %w", i, err)
		}
		if q.Qtype, err = c.Uint16(); err != nil {
			return nil, fmt.Errorf("record: question %d type: %w", i, err)
		}
		if q.Qclass, err = c.Uint16(); err != nil {
			return nil, fmt.Errorf("record: question %d class: %w", i, err)
		}
		m.Questions = append(m.Questions, q)
	}

	total := int(counts[1]) + int(counts[2]) + int(counts[3])
	for i := 0; i < total; i++ {
		rec, err := Read(c, created)
		if err != nil {
			if errors.Is(err, ErrBadRdata) { // Envelope was fine, scanning can continue
				m.BadRdata++
				continue
			}
			return nil, err
		}
		m.Records = append(m.Records, rec)
	}

	return m, nil
}
