/*
Package dnsutil bridges our parsed records to the wider DNS world: compact single-line
representations suited to log files, and conversion into "github.com/miekg/dns" RR values for
pretty-printing and cross-validation against an independent implementation.
*/
package dnsutil

import (
	"fmt"

	"github.com/markdingo/mdnscache/internal/rdata"
	"github.com/markdingo/mdnscache/internal/record"

	"github.com/miekg/dns"
)

// CompactMessageString generates a relatively compact single-line, printable representation of
// the useful data in a parsed message. The output is intended to be well suited to printing to a
// log or trace file.
//
// The generated format is: ID/flags qname QCount/RCount/BadCount Records
func CompactMessageString(m *record.Message) string {
	qName := "?"
	if len(m.Questions) > 0 {
		qName = m.Questions[0].Name
	}
	s := fmt.Sprintf("%d/%04x %s %d/%d/%d",
		m.ID, m.Flags, qName, len(m.Questions), len(m.Records), m.BadRdata)

	return s + " R:" + CompactRecordsString(m.Records)
}

// CompactRecordsString generates a compact String() representation of an array of parsed records.
func CompactRecordsString(recs []*record.Parsed) string {
	s := ""
	sep := ""
	for _, rec := range recs {
		s += sep + CompactRecordString(rec)
		sep = "/"
	}

	return s
}

// CompactRecordString renders one record as type*payload, leaning on the rdata accessors for the
// interesting types and falling back to the numeric type for the rest.
func CompactRecordString(rec *record.Parsed) string {
	switch rd := rec.Rdata().(type) {
	case *rdata.A:
		return "A*" + rd.Address().String()
	case *rdata.AAAA:
		return "AAAA*" + rd.Address().String()
	case *rdata.CNAME:
		return "CNAME*" + rd.Target()
	case *rdata.PTR:
		return "PTR*" + rd.PtrDomain()
	case *rdata.SRV:
		return fmt.Sprintf("SRV*%d-%d-%s:%d", rd.Priority(), rd.Weight(), rd.Target(), rd.Port())
	case *rdata.TXT:
		return fmt.Sprintf("TXT*%d", len(rd.Texts()))
	case *rdata.NSEC:
		return fmt.Sprintf("NSEC*%d", rd.BitmapLength())
	case *rdata.OPT:
		return fmt.Sprintf("OPT*%d", len(rd.Opts()))
	}

	if s, ok := dns.TypeToString[rec.Type()]; ok { // Unknown to us may still be known to miekg
		return s
	}

	return fmt.Sprintf("TYPE%d", rec.Type())
}
