package main

import (
	"time"

	"github.com/markdingo/mdnscache/internal/flagutil"
)

type config struct {
	gops    bool
	help    bool
	verbose bool
	version bool

	ipv4Only bool // -4 and -6 restrict the multicast listeners
	ipv6Only bool

	interfaces flagutil.StringValue // Interfaces to join the mDNS groups on

	entryLimit      int
	statusInterval  time.Duration
	cleanupInterval time.Duration

	logAll     bool // Turns on all other log options
	logMsgIn   bool // Compact print of each mDNS message received
	logUpdates bool // Print cache update classifications (added/changed)
	logExpiry  bool // Print records removed by cleanup passes

	cpuprofile, memprofile string

	setuidName, setgidName, chrootDir string // Process constraint settings
}
