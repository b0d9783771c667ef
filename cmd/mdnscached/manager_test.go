package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/markdingo/mdnscache/internal/dnswire"
	"github.com/markdingo/mdnscache/internal/rdata"
	"github.com/markdingo/mdnscache/internal/record"
)

func newARecord(t *testing.T, name string, ttl uint32, lastOctet byte, created time.Time) *record.Parsed {
	t.Helper()
	payload := []byte{10, 0, 0, lastOctet}
	rd, err := rdata.Parse(rdata.TypeA, payload, dnswire.NewCursor(payload, 0))
	if err != nil {
		t.Fatal("A record fixture failed to parse:", err)
	}

	return record.New(name, rdata.TypeA, 1, ttl, rd, created)
}

func TestManagerApply(t *testing.T) {
	out := &bytes.Buffer{}
	mainInit(out, out)
	cfg.logUpdates = true
	now := time.Now()

	mgr := newManager(out, 100)
	mgr.apply(&inbound{from: "10.0.0.9:5353", msg: &record.Message{
		Flags:    consts.FlagResponse,
		BadRdata: 1,
		Records: []*record.Parsed{
			newARecord(t, "one.local", 120, 1, now),
			newARecord(t, "two.local", 120, 2, now),
		},
	}})

	if mgr.updateCounters[cmMsgs] != 1 || mgr.updateCounters[cmRecords] != 2 {
		t.Error("Message/record counters wrong:", mgr.updateCounters)
	}
	if mgr.updateCounters[cmAdded] != 2 || mgr.updateCounters[cmBadRdata] != 1 {
		t.Error("Added/bad counters wrong:", mgr.updateCounters)
	}
	if mgr.size != 2 {
		t.Error("Cache size should be 2, not", mgr.size)
	}
	if !strings.Contains(out.String(), "CA:10.0.0.9:5353 one.local A*10.0.0.1") {
		t.Error("Expected an add log line, got", out.String())
	}

	// The same records again is a refresh, a different payload is a change and a goodbye for an
	// absent name is neither.

	out.Reset()
	mgr.apply(&inbound{from: "10.0.0.9:5353", msg: &record.Message{
		Flags: consts.FlagResponse,
		Records: []*record.Parsed{
			newARecord(t, "one.local", 120, 1, now),
			newARecord(t, "two.local", 120, 99, now),
			newARecord(t, "absent.local", 0, 3, now),
		},
	}})

	if mgr.updateCounters[cmRefreshed] != 2 { // one.local plus the ignored goodbye
		t.Error("Refreshed counter wrong:", mgr.updateCounters)
	}
	if mgr.updateCounters[cmChanged] != 1 || mgr.updateCounters[cmGoodbyes] != 1 {
		t.Error("Changed/goodbye counters wrong:", mgr.updateCounters)
	}
	if mgr.size != 2 {
		t.Error("Cache size should still be 2, not", mgr.size)
	}
	if !strings.Contains(out.String(), "CC:10.0.0.9:5353 two.local A*10.0.0.99") {
		t.Error("Expected a change log line, got", out.String())
	}
}

func TestManagerCleanup(t *testing.T) {
	out := &bytes.Buffer{}
	mainInit(out, out)
	cfg.logExpiry = true
	now := time.Now()

	mgr := newManager(out, 100)
	mgr.apply(&inbound{from: "peer", msg: &record.Message{
		Flags: consts.FlagResponse,
		Records: []*record.Parsed{
			newARecord(t, "short.local", 5, 1, now),
			newARecord(t, "long.local", 7200, 2, now),
		},
	}})

	mgr.cleanup(now) // Nothing can have expired yet
	if mgr.expired != 0 || mgr.size != 2 {
		t.Error("Premature expiry:", mgr.expired, mgr.size)
	}

	mgr.cleanup(now.Add(6 * time.Second))
	if mgr.expired != 1 || mgr.size != 1 {
		t.Error("Expected exactly the short record to expire:", mgr.expired, mgr.size)
	}
	if mgr.clears != 0 {
		t.Error("Routine expiry should not count as a clear")
	}
	if !strings.Contains(out.String(), "CX: short.local A*10.0.0.1") {
		t.Error("Expected an expiry log line, got", out.String())
	}
}

// An overfilled cache empties completely on the next cleanup pass and counts as a clear.
func TestManagerOverfillClear(t *testing.T) {
	out := &bytes.Buffer{}
	mainInit(out, out)
	now := time.Now()

	mgr := newManager(out, 2)
	mgr.apply(&inbound{from: "peer", msg: &record.Message{
		Flags: consts.FlagResponse,
		Records: []*record.Parsed{
			newARecord(t, "one.local", 7200, 1, now),
			newARecord(t, "two.local", 7200, 2, now),
			newARecord(t, "three.local", 7200, 3, now),
		},
	}})

	mgr.cleanup(now)
	if mgr.size != 0 {
		t.Error("Overfilled cache should empty on cleanup, size is", mgr.size)
	}
	if mgr.clears != 1 || mgr.expired != 3 {
		t.Error("Clear accounting wrong:", mgr.clears, mgr.expired)
	}
}

func TestManagerRunStop(t *testing.T) {
	out := &bytes.Buffer{}
	mainInit(out, out)
	now := time.Now()

	mgr := newManager(out, 100)
	go mgr.run(time.Hour) // Ticker never fires during the test

	mgr.updateCh <- &inbound{from: "peer", msg: &record.Message{
		Flags:   consts.FlagResponse,
		Records: []*record.Parsed{newARecord(t, "one.local", 120, 1, now)},
	}}
	mgr.stop() // Returns only after run() has drained the channel and exited

	if mgr.updateCounters[cmAdded] != 1 || mgr.size != 1 {
		t.Error("Update did not land before shutdown:", mgr.updateCounters, mgr.size)
	}
}

func TestManagerReport(t *testing.T) {
	out := &bytes.Buffer{}
	mainInit(out, out)
	now := time.Now()

	mgr := newManager(out, 100)
	if mgr.Name() != "Cache" {
		t.Error("Wrong reporter name", mgr.Name())
	}
	mgr.apply(&inbound{from: "peer", msg: &record.Message{
		Flags:   consts.FlagResponse,
		Records: []*record.Parsed{newARecord(t, "one.local", 120, 1, now)},
	}})

	rep := mgr.Report(true)
	if !strings.Contains(rep, "msgs=1 recs=1 (1/0/0/0/0)") || !strings.Contains(rep, "size=1") {
		t.Error("Unexpected report", rep)
	}

	rep = mgr.Report(false) // Counters reset but size survives
	if !strings.Contains(rep, "msgs=0 recs=0") || !strings.Contains(rep, "size=1") {
		t.Error("Report should be reset bar size", rep)
	}
}
