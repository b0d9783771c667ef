package dnsutil

import (
	"net"
	"testing"

	"github.com/markdingo/mdnscache/internal/rdata"
	"github.com/markdingo/mdnscache/internal/record"

	"github.com/miekg/dns"
)

func TestToMiekgRRAddress(t *testing.T) {
	rec := record.New("host.local", rdata.TypeA, 1, 120,
		mustRdata(t, rdata.TypeA, []byte{10, 0, 0, 1}), t0)
	rr, err := ToMiekgRR(rec)
	if err != nil {
		t.Fatal("Unexpected conversion error:", err)
	}
	a, ok := rr.(*dns.A)
	if !ok {
		t.Fatal("Expected *dns.A, got", rr)
	}
	if a.Hdr.Name != "host.local." || a.Hdr.Ttl != 120 {
		t.Error("Header wrong:", a.Hdr)
	}
	if !a.A.Equal(net.IPv4(10, 0, 0, 1)) {
		t.Error("Address wrong:", a.A)
	}
	if len(rr.String()) == 0 {
		t.Error("miekg String() should render something")
	}
}

func TestToMiekgRRSRV(t *testing.T) {
	payload := []byte{0x00, 0x05, 0x00, 0x01, 0x1f, 0x90, 0x04, 'h', 'o', 's', 't', 0x00}
	rec := record.New("svc.local", rdata.TypeSRV, 1, 120,
		mustRdata(t, rdata.TypeSRV, payload), t0)
	rr, err := ToMiekgRR(rec)
	if err != nil {
		t.Fatal("Unexpected conversion error:", err)
	}
	srv, ok := rr.(*dns.SRV)
	if !ok {
		t.Fatal("Expected *dns.SRV, got", rr)
	}
	if srv.Priority != 5 || srv.Weight != 1 || srv.Port != 8080 || srv.Target != "host." {
		t.Error("SRV fields wrong:", srv)
	}
}

func TestToMiekgRRNSEC(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x01, 0x22} // root next-name, block 0, bits 2 and 6 (NS and SOA)
	rec := record.New("host.local", rdata.TypeNSEC, 1, 120,
		mustRdata(t, rdata.TypeNSEC, payload), t0)
	rr, err := ToMiekgRR(rec)
	if err != nil {
		t.Fatal("Unexpected conversion error:", err)
	}
	nsec, ok := rr.(*dns.NSEC)
	if !ok {
		t.Fatal("Expected *dns.NSEC, got", rr)
	}
	if len(nsec.TypeBitMap) != 2 || nsec.TypeBitMap[0] != 2 || nsec.TypeBitMap[1] != 6 {
		t.Error("Type bitmap wrong:", nsec.TypeBitMap)
	}
}

func TestToMiekgRRUnknown(t *testing.T) {
	rec := record.New("odd.local", 4242, 1, 120, nil, t0)
	rr, err := ToMiekgRR(rec)
	if err != nil {
		t.Fatal("Unexpected conversion error:", err)
	}
	if _, ok := rr.(*dns.RFC3597); !ok {
		t.Error("Unknown types should convert to RFC3597, got", rr)
	}
}
