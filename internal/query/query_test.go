package query

import (
	"bytes"
	"testing"
	"time"

	"github.com/markdingo/mdnscache/internal/rdata"
	"github.com/markdingo/mdnscache/internal/record"
)

func TestNewPlainQuery(t *testing.T) {
	q, err := New(Config{ID: 0xbeef, Name: "host.local", Qtype: rdata.TypeA})
	if err != nil {
		t.Fatal("Unexpected New error:", err)
	}

	expect := []byte{
		0xbe, 0xef, // id
		0x00, 0x00, // flags: nothing set
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // counts: one question
		0x04, 'h', 'o', 's', 't', 0x05, 'l', 'o', 'c', 'a', 'l', 0x00,
		0x00, 0x01, // qtype A
		0x00, 0x01, // qclass IN
	}
	if !bytes.Equal(q.Message(), expect) {
		t.Errorf("Packed query is\n% x, expected\n% x", q.Message(), expect)
	}
}

func TestNewRecursionDesired(t *testing.T) {
	q, err := New(Config{Name: "example.com", Qtype: rdata.TypeAAAA, RecursionDesired: true})
	if err != nil {
		t.Fatal("Unexpected New error:", err)
	}
	flags := uint16(q.Message()[2])<<8 | uint16(q.Message()[3])
	if flags != 0x0100 {
		t.Errorf("Expected only RD set, flags are %#04x", flags)
	}
}

// An EDNS0 query gets the OPT pseudo-record: root owner, TYPE 41, payload size in CLASS and the
// option octets verbatim in RDATA.
func TestNewWithEDNS(t *testing.T) {
	opt := &rdata.OPT{}
	opt.AddOpt(1, []byte{0xde, 0xad})
	opt.AddOpt(255, []byte{0xde, 0xad, 0xbe, 0xef})

	q, err := New(Config{ID: 1, Name: "host.local", Qtype: rdata.TypeA, EDNS: opt})
	if err != nil {
		t.Fatal("Unexpected New error:", err)
	}

	expectTail := []byte{
		0x00,       // root owner name
		0x00, 0x29, // TYPE OPT
		0x10, 0x00, // CLASS = default 4096 payload size
		0x00, 0x00, 0x00, 0x00, // TTL = rcode/version/flags all zero
		0x00, 0x0e, // RDLENGTH 14
		0x00, 0x01, 0x00, 0x02, 0xde, 0xad,
		0x00, 0xff, 0x00, 0x04, 0xde, 0xad, 0xbe, 0xef,
	}
	msg := q.Message()
	if !bytes.HasSuffix(msg, expectTail) {
		t.Errorf("Message should end with the OPT record, got\n% x", msg)
	}
	if msg[10] != 0 || msg[11] != 1 {
		t.Error("arcount should be 1, got", msg[10], msg[11])
	}

	// The packed query must round-trip through our own message reader.
	m, err := record.ReadMessage(msg, time.Time{})
	if err != nil {
		t.Fatal("Our own reader rejected the query:", err)
	}
	if len(m.Questions) != 1 || m.Questions[0].Name != "host.local" {
		t.Error("Question did not survive the round trip:", m.Questions)
	}
	if len(m.Records) != 1 {
		t.Fatal("Expected the OPT record back, got", len(m.Records))
	}
	back, ok := m.Records[0].Rdata().(*rdata.OPT)
	if !ok {
		t.Fatal("Additional record should decode as OPT, got", m.Records[0].Rdata())
	}
	if !back.IsEqual(opt) {
		t.Error("OPT options did not survive the round trip")
	}
	if m.Records[0].Class() != 4096 {
		t.Error("OPT class should carry the payload size 4096, got", m.Records[0].Class())
	}
}

func TestNewPayloadSizeOverride(t *testing.T) {
	q, err := New(Config{Name: "a.local", Qtype: rdata.TypeA, EDNS: &rdata.OPT{}, UDPPayloadSize: 1232})
	if err != nil {
		t.Fatal("Unexpected New error:", err)
	}
	m, err := record.ReadMessage(q.Message(), time.Time{})
	if err != nil {
		t.Fatal("Reader rejected the query:", err)
	}
	if len(m.Records) != 1 || m.Records[0].Class() != 1232 {
		t.Error("OPT class should carry the override 1232")
	}
}

func TestNewBadName(t *testing.T) {
	if _, err := New(Config{Name: "bad..name", Qtype: rdata.TypeA}); err == nil {
		t.Error("An invalid qname should be rejected")
	}
}
