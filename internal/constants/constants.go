/*
Package constants provides common values used across all mdnscache packages. Usage is to call the
global Get() function which returns the Constants by value ensuring that any modifications made
(accidental or otherwise) will not affect other modules when they call Get().

Typically usage:

    consts := constants.Get()
    fmt.Println("I am", consts.DaemonProgramName, "based on", consts.RFC)

The primary reason for making this a constructed struct rather than the more typical const () block
is so that it can be fed directly into templating packages for printing usage messages.
*/
package constants

// Constants contains the system-wide constants
type Constants struct {
	DaemonProgramName string // Package related constants
	DigProgramName    string
	Version           string
	PackageName       string
	PackageURL        string
	RFC               string

	MaxNameLength    uint // DNS wire-format limits (RFC1035)
	MaxLabelLength   uint
	MaxUDPSize       uint // Largest plain-UDP DNS message
	MaxMulticastSize uint // Largest mDNS message (RFC6762)
	HeaderSize       uint // Fixed DNS header octets

	FlagResponse uint16 // Header flag bits
	FlagTC       uint16
	FlagRD       uint16

	ClassIN       uint16 // RR classes and mDNS class handling
	CacheFlushBit uint16 // Top bit of the mDNS class field (RFC6762 s10.2)
	ClassMask     uint16 // Masks CacheFlushBit out for comparisons

	LabelPointerMask  uint8  // Top two bits mark a compression pointer (RFC1035 s4.1.4)
	PointerOffsetMask uint16 // Remaining 14 bits are the message offset

	EDNSPayloadSize uint16 // Requestor's UDP payload size advertised in OPT

	DefaultEntryLimit int // Cache entries before the overfill clear-all kicks in

	MDnsIPv4Address string // Multicast groups and port (RFC6762)
	MDnsIPv6Address string
	MDnsPort        string
}

var readOnlyConstants *Constants

// createReadOnlyConstants creates a read-only copy of the Constants which is copied whenever a
// caller asks for the constants set. The main reason for returning a struct is so that callers can
// inspect and/or use packages that introspect - particularly */template packages.
func createReadOnlyConstants() {
	readOnlyConstants = &Constants{
		DaemonProgramName: "mdnscached",
		DigProgramName:    "mdnscache-dig",
		Version:           "v0.1.0",
		PackageName:       "mDNS Record Cache",
		PackageURL:        "https://github.com/markdingo/mdnscache",
		RFC:               "RFC6762",

		MaxNameLength:    255,
		MaxLabelLength:   63,
		MaxUDPSize:       512,
		MaxMulticastSize: 9000,
		HeaderSize:       12,

		FlagResponse: 0x8000,
		FlagTC:       0x0200,
		FlagRD:       0x0100,

		ClassIN:       1,
		CacheFlushBit: 0x8000,
		ClassMask:     0x7fff,

		LabelPointerMask:  0xc0,
		PointerOffsetMask: 0x3fff,

		EDNSPayloadSize: 4096,

		DefaultEntryLimit: 100000,

		MDnsIPv4Address: "224.0.0.251",
		MDnsIPv6Address: "ff02::fb",
		MDnsPort:        "5353",
	}
}

func init() {
	createReadOnlyConstants()
}

// Get returns a copy of the Constant struct. Return by value so internal values cannot be
// inadvertently changed by callers.
func Get() Constants {
	return *readOnlyConstants
}
