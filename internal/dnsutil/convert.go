package dnsutil

import (
	"fmt"

	"github.com/markdingo/mdnscache/internal/rdata"
	"github.com/markdingo/mdnscache/internal/record"

	"github.com/miekg/dns"
)

// ToMiekgRR converts one of our parsed records into the equivalent "github.com/miekg/dns" RR.
// The conversion exists for two reasons: miekg's String() output is the de facto presentation
// format people expect from DNS tooling, and converting through an independent implementation is
// a cheap cross-check that our decoder and theirs agree. Unrecognized types come back as RFC3597
// unknown-type RRs with no payload (we never kept the raw octets for types we don't decode).
func ToMiekgRR(rec *record.Parsed) (dns.RR, error) {
	hdr := dns.RR_Header{
		Name:   dns.Fqdn(rec.Name()),
		Rrtype: rec.Type(),
		Class:  rec.Class(),
		Ttl:    rec.TTL(),
	}

	switch rd := rec.Rdata().(type) {
	case *rdata.A:
		return &dns.A{Hdr: hdr, A: rd.Address()}, nil

	case *rdata.AAAA:
		return &dns.AAAA{Hdr: hdr, AAAA: rd.Address()}, nil

	case *rdata.CNAME:
		return &dns.CNAME{Hdr: hdr, Target: dns.Fqdn(rd.Target())}, nil

	case *rdata.PTR:
		return &dns.PTR{Hdr: hdr, Ptr: dns.Fqdn(rd.PtrDomain())}, nil

	case *rdata.SRV:
		return &dns.SRV{Hdr: hdr, Priority: rd.Priority(), Weight: rd.Weight(),
			Port: rd.Port(), Target: dns.Fqdn(rd.Target())}, nil

	case *rdata.TXT:
		return &dns.TXT{Hdr: hdr, Txt: append([]string{}, rd.Texts()...)}, nil

	case *rdata.NSEC:
		nsec := &dns.NSEC{Hdr: hdr, NextDomain: dns.Fqdn(rec.Name())}
		for i := 0; i < rd.BitmapLength(); i++ {
			if rd.GetBit(i) {
				nsec.TypeBitMap = append(nsec.TypeBitMap, uint16(i))
			}
		}
		return nsec, nil

	case *rdata.OPT:
		opt := &dns.OPT{Hdr: dns.RR_Header{
			Name: ".", Rrtype: dns.TypeOPT, Class: rec.Class(), Ttl: rec.TTL()}}
		for _, o := range rd.Opts() {
			opt.Option = append(opt.Option, &dns.EDNS0_LOCAL{Code: o.Code,
				Data: append([]byte{}, o.Data...)})
		}
		return opt, nil
	}

	if rec.Rdata() != nil { // A decoded type this function forgot about
		return nil, fmt.Errorf("dnsutil: no miekg conversion for type %d", rec.Type())
	}

	return &dns.RFC3597{Hdr: hdr}, nil
}
