package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/markdingo/mdnscache/internal/dnsutil"
	"github.com/markdingo/mdnscache/internal/record"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

type lerIndex int

const ( // ler = Listener ERror index into failureCounters
	lerReadFailed  lerIndex = iota // ReadFrom returned an error
	lerParseFailed                 // Packet did not parse as a DNS message
	lerQuery                       // Valid message but a query - nothing cacheable
	lerArraySize
)

type listenerStats struct {
	packets         int
	octets          int
	failureCounters [lerArraySize]int
}

// listener joins the mDNS multicast group for one protocol family and feeds every response
// message it reads to the cache manager.
type listener struct {
	stdout   io.Writer
	network  string // "udp4" or "udp6"
	updateCh chan<- *inbound

	conn net.PacketConn // Kept solely for the stop() method

	mu sync.RWMutex // Protects everything below here
	listenerStats
}

// start binds the mDNS port, joins the multicast group on each supplied interface and kicks off
// the read loop. Socket errors after start-up are written to errorChan.
func (t *listener) start(ifaces []*net.Interface, errorChan chan error, wg *sync.WaitGroup) error {
	conn, err := net.ListenPacket(t.network, ":"+consts.MDnsPort)
	if err != nil {
		return err
	}
	t.conn = conn

	switch t.network {
	case "udp4":
		pc := ipv4.NewPacketConn(conn)
		group := &net.UDPAddr{IP: net.ParseIP(consts.MDnsIPv4Address)}
		for _, ifc := range ifaces {
			if err := pc.JoinGroup(ifc, group); err != nil {
				conn.Close()
				return fmt.Errorf("join %s on %s: %w", group.IP, ifc.Name, err)
			}
		}

	default:
		pc := ipv6.NewPacketConn(conn)
		group := &net.UDPAddr{IP: net.ParseIP(consts.MDnsIPv6Address)}
		for _, ifc := range ifaces {
			if err := pc.JoinGroup(ifc, group); err != nil {
				conn.Close()
				return fmt.Errorf("join %s on %s: %w", group.IP, ifc.Name, err)
			}
		}
	}

	wg.Add(1)
	go func() {
		t.readLoop(errorChan)
		wg.Done()
	}()

	return nil
}

func (t *listener) readLoop(errorChan chan error) {
	buf := make([]byte, consts.MaxMulticastSize)
	for {
		n, from, err := t.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) { // stop() was called
				return
			}
			t.bumpFailure(lerReadFailed)
			errorChan <- err
			return
		}
		t.handlePacket(buf[:n], from.String(), time.Now())
	}
}

// handlePacket parses one datagram and forwards it to the manager if it holds cacheable records.
// Split out from the read loop so tests can drive it without sockets.
func (t *listener) handlePacket(data []byte, from string, now time.Time) {
	t.mu.Lock()
	t.packets++
	t.octets += len(data)
	t.mu.Unlock()

	m, err := record.ReadMessage(data, now)
	if err != nil {
		t.bumpFailure(lerParseFailed)
		if cfg.logMsgIn {
			fmt.Fprintln(t.stdout, "ME:"+from, err)
		}
		return
	}
	if cfg.logMsgIn {
		fmt.Fprintln(t.stdout, "MI:"+from, dnsutil.CompactMessageString(m))
	}
	if m.Flags&consts.FlagResponse == 0 { // Queries carry nothing cacheable
		t.bumpFailure(lerQuery)
		return
	}

	t.updateCh <- &inbound{msg: m, from: from}
}

func (t *listener) bumpFailure(ix lerIndex) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failureCounters[ix]++
}

// stop closes the socket which unblocks the read loop.
func (t *listener) stop() {
	if t.conn != nil {
		t.conn.Close()
	}
}

func (t *listener) Name() string {
	return "Listener"
}

func (t *listener) listenName() string {
	return "(" + t.network + " on :" + consts.MDnsPort + ")"
}

/*

Reporter Output:

pkts=31 octets=4120 skips=2 (0/1/1) (udp4 on :5353)
                             ^ ^ ^
                             | | +--Queries (nothing cacheable)
                             | +--Parse failures
                             +--Read failures

*/

func (t *listener) Report(resetCounters bool) string {
	if resetCounters {
		t.mu.Lock()
		defer t.mu.Unlock()
	} else {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}

	skips := 0
	for _, v := range t.failureCounters {
		skips += v
	}
	s := fmt.Sprintf("pkts=%d octets=%d skips=%d (%s) %s",
		t.packets, t.octets, skips,
		formatCounters("%d", "/", t.failureCounters[:]), t.listenName())

	if resetCounters {
		t.listenerStats = listenerStats{}
	}

	return s
}
