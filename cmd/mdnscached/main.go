// Listen for mDNS multicast responses and maintain a cache of the records they carry
package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/markdingo/mdnscache/internal/constants"
	"github.com/markdingo/mdnscache/internal/osutil"
	"github.com/markdingo/mdnscache/internal/reporter"

	"github.com/google/gops/agent"
)

// Program-wide variables
var (
	consts = constants.Get()
	cfg    *config

	stdout io.Writer // All I/O goes via these writers
	stderr io.Writer

	startTime   = time.Now()
	stopChannel chan os.Signal
	flagSet     *flag.FlagSet
)

//////////////////////////////////////////////////////////////////////

func fatal(args ...interface{}) int {
	fmt.Fprint(stderr, "Fatal: ", consts.DaemonProgramName, ": ")
	fmt.Fprintln(stderr, args...)

	return 1
}

func stopMain() {
	stopChannel <- syscall.SIGINT
}

//////////////////////////////////////////////////////////////////////
// main wrappers make it easy for test programs
//////////////////////////////////////////////////////////////////////

// mainInit resets everything such that mainExecute() can be called multiple times in one program
// execution. stopChannel is buffered as the reader may disappear if there is a fatal error and
// multiple writers may try and write to the channel and we don't want those writers to stall
// forever.
func mainInit(out io.Writer, err io.Writer) {
	cfg = &config{}
	stdout = out
	stderr = err
	mainState(initial)
	stopChannel = make(chan os.Signal, 4) // All reasonable signals cause us to quit or stats report
	osutil.SignalNotify(stopChannel)
}

func main() {
	mainInit(os.Stdout, os.Stderr)
	os.Exit(mainExecute(os.Args))
}

func mainExecute(args []string) int {
	defer mainState(stopped) // Tell testers we've stopped even on error returns
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
		fmt.Fprintln(stdout, consts.DaemonProgramName, "Version:", consts.Version)
		return 0
	}

	if flagSet.NArg() > 0 {
		return fatal("Unexpected parameters on the command line", strings.Join(flagSet.Args(), " "))
	}

	if cfg.logAll {
		cfg.logMsgIn = true
		cfg.logUpdates = true
		cfg.logExpiry = true
	}

	if cfg.ipv4Only && cfg.ipv6Only {
		return fatal("-4 and -6 are mutually exclusive")
	}
	if cfg.entryLimit < 1 {
		return fatal("Entry limit (-e) must be GE one, not", cfg.entryLimit)
	}
	if cfg.cleanupInterval < time.Second {
		return fatal("Cleanup interval (-C) must be GE 1s, not", cfg.cleanupInterval)
	}
	if cfg.statusInterval < time.Second {
		return fatal("Status interval (-s) must be GE 1s, not", cfg.statusInterval)
	}

	ifaces, err := selectInterfaces(cfg.interfaces.Args())
	if err != nil {
		return fatal(err)
	}
	if len(ifaces) == 0 {
		return fatal("No multicast-capable interfaces to listen on")
	}

	// Start the gops diagnostic agent if requested

	if cfg.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fatal(err)
		}
		defer agent.Close()
	}

	// Start CPU profiling now that most error checking is complete

	if len(cfg.cpuprofile) > 0 {
		f, err := os.Create(cfg.cpuprofile)
		if err != nil {
			return fatal(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	// Memory profile is triggered at the end of the program but we open the output file and
	// hold it open prior to any possible chroot/setuid/setgid action.

	var memProfileFile *os.File
	if len(cfg.memprofile) > 0 {
		memProfileFile, err = os.Create(cfg.memprofile)
		if err != nil {
			return fatal(err)
		}
		defer memProfileFile.Close()
	}

	if cfg.verbose {
		fmt.Fprintln(stdout, consts.DaemonProgramName, consts.Version, "Starting")
		for _, ifc := range ifaces {
			fmt.Fprintln(stdout, "Interface:", ifc.Name)
		}
	}

	// The manager owns the cache - everything reaches it via the updates channel.

	mgr := newManager(stdout, cfg.entryLimit)
	go mgr.run(cfg.cleanupInterval)

	var reporters []reporter.Reporter // Track all reportables for periodic reporting
	var listeners []*listener         // Track all listeners so we can shut them down
	reporters = append(reporters, mgr)

	networks := []string{"udp4", "udp6"}
	if cfg.ipv4Only {
		networks = networks[:1]
	}
	if cfg.ipv6Only {
		networks = networks[1:]
	}

	errorChannel := make(chan error, len(networks))
	wg := &sync.WaitGroup{} // Wait on all listener read loops

	for _, network := range networks {
		l := &listener{stdout: stdout, network: network, updateCh: mgr.updateCh}
		if err := l.start(ifaces, errorChannel, wg); err != nil {
			for _, prev := range listeners {
				prev.stop()
			}
			return fatal(err)
		}
		if cfg.verbose {
			fmt.Fprintln(stdout, "Listening:", l.listenName())
		}
		listeners = append(listeners, l)
		reporters = append(reporters, l)
	}

	// Constrain the process via setuid/setgid/chroot. This is a no-op call if all parameters
	// are empty strings. Unlike servers which open their sockets from a go-routine at some
	// indeterminate point after start-up, our listen sockets are all open by now so there is no
	// need to delay the privilege drop.

	err = osutil.Constrain(cfg.setuidName, cfg.setgidName, cfg.chrootDir)
	if err != nil {
		for _, l := range listeners {
			l.stop()
		}
		return fatal(err)
	}
	if cfg.verbose {
		fmt.Fprintf(stdout, "Constraints: %s\n", osutil.ConstraintReport())
	}

	// Loop forever giving periodic status reports and checking for a termination event.

	mainState(started) // Tell testers we're up and running
	nextStatusIn := nextInterval(time.Now(), cfg.statusInterval)

Running:
	for {
		select {
		case s := <-stopChannel:
			if osutil.IsSignalUSR1(s) {
				statusReport("User1", false, reporters)
				break
			}
			if cfg.verbose {
				fmt.Fprintln(stdout, "\nSignal", s)
			}
			break Running // All signals bar USR1 cause loop exit

		case err := <-errorChannel:
			return fatal(err) // No cleanup if a listener dies

		case <-time.After(nextStatusIn):
			if cfg.verbose {
				statusReport("Status", true, reporters)
			}
			nextStatusIn = nextInterval(time.Now(), cfg.statusInterval)
		}
	}

	// Shutting down. Listeners first as they write to the manager's channel.

	for _, l := range listeners {
		l.stop()
	}
	mainState(stopped) // Tell testers we've stopped accepting messages
	wg.Wait()          // Wait for all read loops to completely shut down
	mgr.stop()

	if cfg.verbose {
		statusReport("Status", true, reporters) // One last report prior to exiting
		fmt.Fprintln(stdout, consts.DaemonProgramName, consts.Version, "Exiting after", uptime())
	}

	// Memory profile is written at the end of the program

	if memProfileFile != nil {
		runtime.GC() // get up-to-date statistics
		err := pprof.WriteHeapProfile(memProfileFile)
		if err != nil {
			return fatal(err)
		}
	}

	return 0
}

// selectInterfaces converts -i names into interfaces or, with no names supplied, every interface
// that is up and multicast-capable.
func selectInterfaces(names []string) ([]*net.Interface, error) {
	if len(names) > 0 {
		ifaces := make([]*net.Interface, 0, len(names))
		for _, name := range names {
			ifc, err := net.InterfaceByName(name)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			ifaces = append(ifaces, ifc)
		}
		return ifaces, nil
	}

	all, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var ifaces []*net.Interface
	for ix := range all {
		ifc := &all[ix]
		if ifc.Flags&net.FlagUp != 0 && ifc.Flags&net.FlagMulticast != 0 {
			ifaces = append(ifaces, ifc)
		}
	}

	return ifaces, nil
}

// nextInterval calculates the duration to now+modulo interval. If now is 00:01:17 and the interval
// is 15m then the returned duration is 13m43s which is the distance to the 00:15:00. The idea is to
// provide a wait/sleep value which gets the caller to the next interval tick-over.
func nextInterval(now time.Time, interval time.Duration) time.Duration {
	return now.Truncate(interval).Add(interval).Sub(now)
}

// uptime calculates how long this daemon has been running and returns a log-friendly and
// granularity-appropriate representation of that duration.
func uptime() string {
	return time.Now().Sub(startTime).Truncate(time.Second).String()
}

// statusReport prints stats about the daemon and all known reporters
func statusReport(what string, resetCounters bool, reporters []reporter.Reporter) {
	fmt.Fprintln(stdout, "Status Up:", consts.DaemonProgramName, consts.Version, uptime())
	for _, r := range reporters {
		reps := strings.Split(r.Report(resetCounters), "\n")
		for _, s := range reps {
			if len(s) > 0 {
				fmt.Fprintf(stdout, "%s %s: %s\n", what, r.Name(), s)
			}
		}
	}
}
