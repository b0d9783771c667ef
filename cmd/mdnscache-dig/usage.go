package main

import (
	"fmt"
	"io"
	"text/template"
	"time"
)

// The "flag" package is not tty aware so we've arbitrarily picked 100 columns as a conservative tty
// width for the usage output.

const usageMessageTemplate = `
NAME
          {{.DigProgramName}} -- a one-shot DNS query and codec diagnostic program

SYNOPSIS
          {{.DigProgramName}} [options] server[:port] qName [qType]

DESCRIPTION
          {{.DigProgramName}} packs a DNS query with the same wire codec used by {{.DaemonProgramName}},
          sends it to the nominated server over unicast UDP and prints the parsed response. The
          default port is the mDNS port {{.MDnsPort}} as the usual target is an {{.RFC}} responder
          answering unicast queries. Only qClass=IN is supported. If a qType is not supplied then
          qType=A is used.

          Each answer is also fed through a throwaway record cache and annotated with the
          classification a caching consumer would see (Added, Changed or NoChange).

          **********
          Production Use Alert: {{.DigProgramName}} is a diagnostic program which will almost certainly
          change with each new package release. Please do not rely on its current behaviour
          or output format and definitely do not use it in a shell script.
          **********

EXAMPLES
          Query an mDNS responder directly:

            $ {{.DigProgramName}} 192.168.1.20 myprinter.local ANY

          Query a regular DNS server with EDNS0 and verify our decoder against an independent
          implementation:

            $ {{.DigProgramName}} --edns --verify 8.8.8.8:53 yahoo.com MX

OPTIONS
          [-h] [-p] [--short]

          [-r repeat count] [-t request timeout]

          [--rd]
          [--edns] [--payload-size octets]
          [--verify]

          [--version]
`

//////////////////////////////////////////////////////////////////////

func usage(out io.Writer) {
	tmpl, err := template.New("usage").Parse(usageMessageTemplate)
	if err != nil {
		panic(err) // We've messed up our template
	}
	err = tmpl.Execute(out, consts)
	if err != nil {
		panic(err) // We've messed up our template
	}
	flagSet.SetOutput(out)
	flagSet.PrintDefaults()
	fmt.Fprintln(out, "\nVersion:", consts.Version)
}

// parseCommandLine sets up the flags-to-config mapping and parses the supplied command line
// arguments. It starts from scratch each time to make it easier for test wrappers to use.
func parseCommandLine(args []string) error {
	flagSet.BoolVar(&cfg.help, "h", false, "Print usage message to Stdout then exit(0)")
	flagSet.BoolVar(&cfg.parallel, "p", false, "Issue all queries in parallel")
	flagSet.IntVar(&cfg.repeatCount, "r", 1, "`Number` of times to issue the query (GE zero)")

	flagSet.BoolVar(&cfg.short, "short", false, "Generate short output showing only compact answer records")

	flagSet.DurationVar(&cfg.requestTimeout, "t", time.Second*5, "Request `timeout`")

	flagSet.BoolVar(&cfg.rd, "rd", false, "Set the Recursion Desired header flag")
	flagSet.BoolVar(&cfg.edns, "edns", false, "Append an EDNS0 OPT record to the query")
	flagSet.UintVar(&cfg.payloadSize, "payload-size", uint(consts.EDNSPayloadSize),
		"EDNS0 requestor's UDP payload `size` - implies --edns")

	flagSet.BoolVar(&cfg.verify, "verify", false,
		"Cross-check the response against github.com/miekg/dns unpacking")

	flagSet.BoolVar(&cfg.version, "version", false, "Print version and exit")

	return flagSet.Parse(args[1:])
}
