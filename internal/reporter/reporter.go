/*
Package reporter defines the interface that periodically reported components implement. The cache,
the multicast listeners and similar long-lived structs each accumulate counters and render them on
demand as a printable report.

The string returned by Report() is one or more newline separated lines suitable for a log file.
Callers normally split multiple lines up and prefix each with timestamps and the reporter's Name()
so single-line reporters should not append a trailing newline.
*/
package reporter

// Reporter is the sole package interface
type Reporter interface {

	// Name returns the name of the reportable struct. This is normally used
	// as a prefix for reportable output.
	Name() string

	// Report returns one or more printable lines separated by newlines. If
	// 'resetCounters' is true, any internal values used to produce the
	// report are reset to zero *after* the report is produced. An
	// implementation has to manage concurrent access as Report() may be
	// called by multiple go-routines.
	Report(resetCounters bool) string
}
