package dnswire

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadNameSimple(t *testing.T) {
	msg := []byte{
		0x03, 'w', 'w', 'w',
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		0x03, 'c', 'o', 'm',
		0x00,
	}
	c := NewCursor(msg, 0)
	name, err := c.ReadName()
	if err != nil {
		t.Fatal("Unexpected ReadName error:", err)
	}
	if name != "www.example.com" {
		t.Error("Expected www.example.com, got", name)
	}
	if c.Offset() != len(msg) {
		t.Error("Cursor should sit after the terminal zero, offset is", c.Offset())
	}
}

func TestReadNameRoot(t *testing.T) {
	c := NewCursor([]byte{0x00, 0xde}, 0)
	name, err := c.ReadName()
	if err != nil {
		t.Fatal("Unexpected ReadName error:", err)
	}
	if name != "" {
		t.Error("Root name should decode to the empty string, got", name)
	}
	if c.Offset() != 1 {
		t.Error("Cursor should advance exactly one octet, offset is", c.Offset())
	}
}

// A name that finishes via a compression pointer must leave the cursor just after the pointer, not
// after the pointed-to labels.
func TestReadNameCompressed(t *testing.T) {
	msg := []byte{
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e', // offset 0
		0x03, 'c', 'o', 'm', // offset 8
		0x00,                // offset 12
		0x03, 'f', 't', 'p', // offset 13
		0xc0, 0x00, // offset 17: pointer back to offset 0
		0xaa, // offset 19: trailing goop that must not be consumed
	}
	c := NewCursor(msg, 13)
	name, err := c.ReadName()
	if err != nil {
		t.Fatal("Unexpected ReadName error:", err)
	}
	if name != "ftp.example.com" {
		t.Error("Expected ftp.example.com, got", name)
	}
	if c.Offset() != 19 {
		t.Error("Cursor should stop after the pointer at 19, offset is", c.Offset())
	}
}

func TestReadNamePointerChain(t *testing.T) {
	msg := []byte{
		0x03, 'c', 'o', 'm', 0x00, // offset 0
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 0xc0, 0x00, // offset 5, points to 0
		0x03, 'w', 'w', 'w', 0xc0, 0x05, // offset 15, points to 5
	}
	c := NewCursor(msg, 15)
	name, err := c.ReadName()
	if err != nil {
		t.Fatal("Unexpected ReadName error:", err)
	}
	if name != "www.example.com" {
		t.Error("Expected www.example.com, got", name)
	}
}

func TestReadNameFailures(t *testing.T) {
	cases := []struct {
		why string
		msg []byte
		off int
	}{
		{"label overruns message", []byte{0x05, 'a', 'b'}, 0},
		{"missing terminal zero", []byte{0x01, 'a'}, 0},
		{"truncated pointer", []byte{0xc0}, 0},
		{"pointer loop", []byte{0xc0, 0x00}, 0},
		{"mutual pointer loop", []byte{0xc0, 0x02, 0xc0, 0x00}, 0},
		{"reserved label type", []byte{0x80, 'a', 0x00}, 0},
		{"offset beyond message", []byte{0x00}, 4},
	}
	for _, tc := range cases {
		c := NewCursor(tc.msg, tc.off)
		if _, err := c.ReadName(); err == nil {
			t.Error("ReadName should have failed for case:", tc.why)
		}
	}
}

// A self-referencing pointer generates an infinite label stream. The 255-octet cap is what stops
// it, so a legitimate name just under the cap has to still work.
func TestReadNameLengthBound(t *testing.T) {
	var msg []byte
	for i := 0; i < 4; i++ { // 4 x (63+1) = 256 > 255, trimmed below to sit just under
		msg = append(msg, 63)
		msg = append(msg, bytes.Repeat([]byte{'a'}, 63)...)
	}
	over := append(append([]byte{}, msg...), 0x00) // 4 full labels + terminator = 257 octets
	c := NewCursor(over, 0)
	if _, err := c.ReadName(); err == nil {
		t.Error("A 257 octet name should exceed the 255 limit")
	}

	under := []byte{}
	for i := 0; i < 3; i++ { // 3 x 64 + 61+1 + 1 = 255 exactly
		under = append(under, 63)
		under = append(under, bytes.Repeat([]byte{'b'}, 63)...)
	}
	under = append(under, 61)
	under = append(under, bytes.Repeat([]byte{'b'}, 61)...)
	under = append(under, 0x00)
	c = NewCursor(under, 0)
	name, err := c.ReadName()
	if err != nil {
		t.Fatal("A 255 octet name is legitimate:", err)
	}
	if len(name) != 63*3+61+3 {
		t.Error("Unexpected decoded length", len(name))
	}
}

func TestEncodeName(t *testing.T) {
	b, err := EncodeName("www.example.com")
	if err != nil {
		t.Fatal("Unexpected EncodeName error:", err)
	}
	expect := []byte{
		0x03, 'w', 'w', 'w',
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		0x03, 'c', 'o', 'm',
		0x00,
	}
	if !bytes.Equal(b, expect) {
		t.Errorf("EncodeName produced % x, expected % x", b, expect)
	}

	dotted, err := EncodeName("www.example.com.") // Trailing dot is equivalent
	if err != nil || !bytes.Equal(dotted, expect) {
		t.Error("Trailing-dot form should encode identically", err)
	}

	root, err := EncodeName("")
	if err != nil || !bytes.Equal(root, []byte{0}) {
		t.Error("Root should encode to a single zero octet, got", root, err)
	}
	root, err = EncodeName(".")
	if err != nil || !bytes.Equal(root, []byte{0}) {
		t.Error("\".\" should encode to a single zero octet, got", root, err)
	}
}

func TestEncodeNameFailures(t *testing.T) {
	if _, err := EncodeName(strings.Repeat("a", 64) + ".com"); err == nil {
		t.Error("A 64 octet label should be rejected")
	}
	if _, err := EncodeName("a..com"); err == nil {
		t.Error("An empty interior label should be rejected")
	}
	long := strings.Repeat("abcdefgh.", 32) + "toolong" // Encodes well past 255
	if _, err := EncodeName(long); err == nil {
		t.Error("An over-length name should be rejected")
	}
}

// Encode and decode are inverses for ordinary names.
func TestNameRoundTrip(t *testing.T) {
	for _, name := range []string{"a", "a.b", "ghs.l.google.com", "x-y.example"} {
		b, err := EncodeName(name)
		if err != nil {
			t.Fatal("EncodeName failed for", name, err)
		}
		got, err := NewCursor(b, 0).ReadName()
		if err != nil {
			t.Fatal("ReadName failed for", name, err)
		}
		if got != name {
			t.Error("Round trip mismatch:", name, "->", got)
		}
	}
}
