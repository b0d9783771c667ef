package main

import (
	"time"
)

type config struct {
	edns     bool
	help     bool
	parallel bool
	rd       bool
	short    bool
	verify   bool
	version  bool

	repeatCount    int
	payloadSize    uint // EDNS0 requestor's UDP payload size
	requestTimeout time.Duration
}
