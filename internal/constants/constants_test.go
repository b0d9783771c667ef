package constants

import (
	"testing"
)

func TestPostGet(t *testing.T) {
	if readOnlyConstants == nil {
		t.Error("Expected readOnlyConstants to be set by init() prior to me")
	}
}

// TestValues tests that at least a few of the constants have been
// initialized. Too tiresome to test them all and obviously of limited
// value.
func TestValues(t *testing.T) {
	consts := Get()
	if len(consts.DaemonProgramName) == 0 {
		t.Error("consts.DaemonProgramName should be set but it's zero length")
	}
	if len(consts.RFC) == 0 {
		t.Error("consts.RFC should be set but it's zero length")
	}

	if consts.MaxNameLength != 255 {
		t.Error("consts.MaxNameLength should be the RFC1035 255, not", consts.MaxNameLength)
	}
	if consts.ClassMask != 0x7fff {
		t.Error("consts.ClassMask should strip only the top bit, not", consts.ClassMask)
	}

	if len(consts.MDnsPort) == 0 {
		t.Error("consts.MDnsPort should be set but it's zero length")
	}
	if consts.DefaultEntryLimit == 0 {
		t.Error("consts.DefaultEntryLimit should be set but it's zero")
	}
}
