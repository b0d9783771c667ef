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
          {{.DaemonProgramName}} -- a passive mDNS record cache daemon

SYNOPSIS
          {{.DaemonProgramName}} [options]

DESCRIPTION
          {{.DaemonProgramName}} joins the {{.RFC}} multicast groups ({{.MDnsIPv4Address}} and
          {{.MDnsIPv6Address}} on port {{.MDnsPort}}) and maintains a cache of the resource records
          announced on the local network. Records are keyed by name and type, refreshed or replaced
          as new announcements arrive, removed when their TTL expires and removed one second after
          a "goodbye" announcement (TTL=0) for a known record.

          The cache is bounded by an entry limit (-e). Should the limit ever be exceeded the next
          cleanup pass empties the cache completely and the network is relied on to repopulate it.

          All interfaces which are up and multicast-capable are joined if no -i options are
          supplied.

INVOCATION
          The simplest invocation is:

              # {{.DaemonProgramName}} -v

          which prints periodic cache and listener statistics. Send SIGUSR1 for an immediate
          statistics report. SIGINT, SIGHUP and SIGTERM cause an orderly exit.

          Binding port {{.MDnsPort}} normally requires elevated privileges. The --user, --group
          and --chroot options let the daemon shed those privileges once the sockets are open.

OPTIONS
          [-h] [-v] [-4 | -6]
          [-i interface-name ...]

          [-e cache-entry-limit]
          [-s status-report-interval] [-C cleanup-interval]

          [--log-msg-in] [--log-updates] [--log-expiry]
          [--log-all]

          [--gops] [--cpu-profile file] [--mem-profile file]

          [--user userName] [--group groupName] [--chroot directory]

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
	flagSet.SetOutput(out) // This is permanent so we assume an exit summarily
	flagSet.PrintDefaults()
	fmt.Fprintln(out, "\nVersion:", consts.Version)
}

// parseCommandLine sets up the flags-to-config mapping and parses the supplied command line
// arguments. It starts from scratch each time to make it easier for test wrappers to use.
func parseCommandLine(args []string) error {
	flagSet.BoolVar(&cfg.help, "h", false, "Print usage message to Stdout then exit(0)")
	flagSet.BoolVar(&cfg.verbose, "v", false, "Verbose status and stats - otherwise only errors are output")

	flagSet.BoolVar(&cfg.ipv4Only, "4", false, "Listen for IPv4 multicast only")
	flagSet.BoolVar(&cfg.ipv6Only, "6", false, "Listen for IPv6 multicast only")
	flagSet.Var(&cfg.interfaces, "i",
		"Listen `interface` to join the mDNS groups on (default all up multicast interfaces)")

	flagSet.IntVar(&cfg.entryLimit, "e", consts.DefaultEntryLimit,
		"Cache `entry-limit` before the overfill clear-all kicks in (GE one)")
	flagSet.DurationVar(&cfg.statusInterval, "s", time.Minute*15,
		"Periodic Status Report `interval` (needs -v set)")
	flagSet.DurationVar(&cfg.cleanupInterval, "C", time.Second*5,
		"Cache cleanup `interval` (GE 1s)")

	flagSet.BoolVar(&cfg.logAll, "log-all", false, "Turns on all other --log-* options")
	flagSet.BoolVar(&cfg.logMsgIn, "log-msg-in", false, "Compact print of each inbound mDNS message")
	flagSet.BoolVar(&cfg.logUpdates, "log-updates", false, "Print cache adds and changes")
	flagSet.BoolVar(&cfg.logExpiry, "log-expiry", false, "Print records removed by cleanup passes")

	// gops and go pprof settings

	flagSet.BoolVar(&cfg.gops, "gops", false, "Start github.com/google/gops agent")
	flagSet.StringVar(&cfg.cpuprofile, "cpu-profile", "", "write cpu profile to `file`")
	flagSet.StringVar(&cfg.memprofile, "mem-profile", "", "write mem profile to `file`")

	// Process Constraint parameters

	flagSet.StringVar(&cfg.setuidName, "user", "", "setuid `username` to constrain process after start-up (disabled for Linux)")
	flagSet.StringVar(&cfg.setgidName, "group", "", "setgid `groupname` to constrain process after start-up (disabled for Linux)")
	flagSet.StringVar(&cfg.chrootDir, "chroot", "", "chroot `directory` to constrain process after start-up")

	flagSet.BoolVar(&cfg.version, "version", false, "Print version and exit")

	return flagSet.Parse(args[1:])
}
