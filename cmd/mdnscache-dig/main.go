// Issue a DNS query with our own wire codec and display the response
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/markdingo/mdnscache/internal/concurrencytracker"
	"github.com/markdingo/mdnscache/internal/constants"
	"github.com/markdingo/mdnscache/internal/dnsutil"
	"github.com/markdingo/mdnscache/internal/mdnscache"
	"github.com/markdingo/mdnscache/internal/query"
	"github.com/markdingo/mdnscache/internal/rdata"
	"github.com/markdingo/mdnscache/internal/record"

	"github.com/miekg/dns"
)

// Program-wide variables
var (
	consts = constants.Get()
	cfg    *config

	stdout io.Writer
	stderr io.Writer

	cct     concurrencytracker.Counter // Track peak concurrent queries with -p
	flagSet *flag.FlagSet
)

//////////////////////////////////////////////////////////////////////

func fatal(args ...interface{}) int {
	fmt.Fprint(stderr, "Fatal: ", consts.DigProgramName, ": ")
	fmt.Fprintln(stderr, args...)

	return 1
}

//////////////////////////////////////////////////////////////////////
// main is a wrapper for mainExecute() so tests can call mainExecute()
//////////////////////////////////////////////////////////////////////

func mainInit(out io.Writer, err io.Writer) {
	cfg = &config{}
	stdout = out
	stderr = err
	cct = concurrencytracker.Counter{}
}

func main() {
	mainInit(os.Stdout, os.Stderr)
	os.Exit(mainExecute(os.Args))
}

func mainExecute(args []string) int {
	flagSet = flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	err := parseCommandLine(args)
	if err != nil {
		return 1 // Error already printed by the flag package
	}
	if cfg.help {
		usage(stdout)
		return 0
	}
	if cfg.version {
		fmt.Fprintln(stdout, consts.DigProgramName, "Version:", consts.Version)
		return 0
	}

	// Validate repeat count and payload size

	if cfg.repeatCount < 0 {
		return fatal("Repeat count (-r) must be GE zero, not", cfg.repeatCount)
	}
	if cfg.payloadSize > 65535 {
		return fatal("Payload size (--payload-size) cannot exceed 65535, not", cfg.payloadSize)
	}

	// Setting a payload size only means anything with an OPT record so it implies --edns

	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "payload-size" {
			cfg.edns = true
		}
	})

	remainingOptions := flagSet.NArg() // Track command line options
	optionIndex := 0

	// Validate server from command line: server[:port] qName [qType]

	if remainingOptions < 1 {
		return fatal("Require a server address on the command line. Consider -h")
	}
	server := flagSet.Arg(optionIndex)
	if len(server) == 0 {
		return fatal("Server address cannot be an empty string")
	}
	optionIndex++
	remainingOptions--

	ip := net.ParseIP(server) // We have to wrap unadorned ipv6 addresses so we can append port
	if ip != nil && ip.To4() == nil {
		server = "[" + server + "]" // It's naked, so wrap it
	}
	if !(strings.LastIndex(server, ":") > strings.LastIndex(server, "]")) {
		server += ":" + consts.MDnsPort
	}

	// Validate qName

	if remainingOptions < 1 {
		return fatal("Require qName on command line. Consider -h")
	}
	qName := flagSet.Arg(optionIndex)
	optionIndex++
	remainingOptions--

	// Validate qType - if present

	qTypeString := dns.TypeToString[dns.TypeA] // Default to an "A" query
	if remainingOptions > 0 {
		qTypeString = strings.ToUpper(flagSet.Arg(optionIndex))
		optionIndex++
		remainingOptions--
	}
	qType, ok := dns.StringToType[qTypeString] // Does miekg know about this type?
	if !ok {
		return fatal("Unrecognized qType of", qTypeString)
	}

	// Make sure there is no residual goop on the command line

	if remainingOptions > 0 {
		return fatal("Don't know what to do with residual goop on command line:", flagSet.Arg(optionIndex))
	}

	// Issue the query the requested number of times

	chOut := make(chan string, 1) // Queries write to a chan so we can parallelize
	chErr := make(chan string, 1) // and reap and print the outputs without interleaving.
	if cfg.parallel {
		for qx := 0; qx < cfg.repeatCount; qx++ {
			go doQuery(chOut, chErr, server, qName, qType)
		}
		for qx := 0; qx < cfg.repeatCount; qx++ {
			s := <-chOut
			fmt.Fprint(stdout, s)
			s = <-chErr
			fmt.Fprint(stderr, s)
		}
		if !cfg.short {
			fmt.Fprintln(stdout, ";; Peak Concurrency:", cct.Peak(false))
		}
	} else {
		for qx := 0; qx < cfg.repeatCount; qx++ {
			doQuery(chOut, chErr, server, qName, qType)
			s := <-chOut
			fmt.Fprint(stdout, s)
			s = <-chErr
			fmt.Fprint(stderr, s)
		}
	}

	return 0
}

//////////////////////////////////////////////////////////////////////

// doQuery packs one query, sends it over unicast UDP and renders the response. All output goes to
// local buffers which are flushed to the channels on return so parallel queries never interleave.
func doQuery(chOut, chErr chan string, server, qName string, qType uint16) {
	cct.Add()
	defer cct.Done()
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	defer func() {
		chOut <- outBuf.String()
		chErr <- errBuf.String()
	}()

	var opt *rdata.OPT
	if cfg.edns {
		opt = &rdata.OPT{}
	}
	q, err := query.New(query.Config{ID: dns.Id(), Name: qName, Qtype: qType,
		RecursionDesired: cfg.rd, EDNS: opt, UDPPayloadSize: uint16(cfg.payloadSize)})
	if err != nil {
		fmt.Fprintln(errBuf, "Error:", err)
		return
	}

	conn, err := net.Dial("udp", server)
	if err != nil {
		fmt.Fprintln(errBuf, "Error:", err)
		return
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(cfg.requestTimeout))

	startTime := time.Now()
	if _, err = conn.Write(q.Message()); err != nil {
		fmt.Fprintln(errBuf, "Error:", err)
		return
	}

	buf := make([]byte, consts.MaxMulticastSize)
	n, err := conn.Read(buf)
	if err != nil {
		fmt.Fprintln(errBuf, "Error:", err)
		return
	}
	duration := time.Now().Sub(startTime)
	raw := buf[:n]

	m, err := record.ReadMessage(raw, time.Now())
	if err != nil {
		fmt.Fprintln(errBuf, "Error: response did not parse:", err)
		return
	}
	if m.ID != q.ID() {
		fmt.Fprintf(errBuf, "Error: response Id %d does not match query Id %d\n", m.ID, q.ID())
		return
	}

	if cfg.short {
		for _, rec := range m.Records {
			fmt.Fprintln(outBuf, dnsutil.CompactRecordString(rec))
		}
	} else {
		fmt.Fprintln(outBuf, ";;", dnsutil.CompactMessageString(m))

		// Run the answers through a throwaway cache purely to show how a caching consumer
		// would classify each one - repeated records show up as refreshes.

		cache := mdnscache.New(consts.DefaultEntryLimit)
		for _, rec := range m.Records {
			ut := cache.UpdateDnsRecord(rec)
			rr, cerr := dnsutil.ToMiekgRR(rec)
			if cerr != nil {
				fmt.Fprintln(outBuf, ";", rec.Name(), cerr)
				continue
			}
			fmt.Fprintf(outBuf, "%s ; %s\n", rr.String(), ut.String())
		}

		fmt.Fprintf(outBuf, ";; Query Time: %s\n", duration.Truncate(time.Millisecond).String())
		fmt.Fprintf(outBuf, ";; Server: %s\n", server)
		fmt.Fprintf(outBuf, ";; Payload Size: %d\n", n)
		if m.BadRdata > 0 {
			fmt.Fprintf(outBuf, ";; Bad Rdata skipped: %d\n", m.BadRdata)
		}
		fmt.Fprintln(outBuf)
	}

	if cfg.verify {
		verify(outBuf, errBuf, raw, m)
	}
}

// verify re-unpacks the raw response with miekg/dns and reports any disagreement with our own
// codec. The two parsers count differently on purpose: we drop recognized-type records with
// malformed payloads rather than fail, so BadRdata makes up the difference.
func verify(outBuf, errBuf io.Writer, raw []byte, m *record.Message) {
	their := &dns.Msg{}
	if err := their.Unpack(raw); err != nil {
		fmt.Fprintln(errBuf, "Verify: github.com/miekg/dns rejected the response:", err)
		return
	}

	theirs := len(their.Answer) + len(their.Ns) + len(their.Extra)
	ours := len(m.Records) + m.BadRdata
	if theirs != ours {
		fmt.Fprintf(errBuf, "Verify: record count disagreement: ours=%d theirs=%d\n", ours, theirs)
		return
	}
	if len(their.Question) != len(m.Questions) {
		fmt.Fprintf(errBuf, "Verify: question count disagreement: ours=%d theirs=%d\n",
			len(m.Questions), len(their.Question))
		return
	}

	fmt.Fprintln(outBuf, ";; Verify: github.com/miekg/dns agrees:", theirs, "records")
}
