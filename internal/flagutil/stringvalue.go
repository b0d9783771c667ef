// Package flagutil provides additional support around the flag package. Currently that consists
// solely of the StringValue struct which conforms to the flag.Value interface for flags that can
// occur multiple times on the command line, such as:
//
// $command -i eth0 -i eth1 -i wlan0
//
// Usage follows the flag package conventions:
//
//	var ifs flagutil.StringValue
//	flagSet.Var(&ifs, "i", "Interface to listen on (repeatable)")
//	names := ifs.Args() // Return an array of strings
package flagutil

import (
	"strings"
)

// StringValue is the type provided to flag.Var()
type StringValue struct {
	strings []string
}

// Set appends a string to the internal array - it is called by the flag package for each occurrence
// of the corresponding option on the command line. Part of the flag.Value interface.
func (t *StringValue) Set(s string) error {
	t.strings = append(t.strings, s)

	return nil
}

// String returns a space separated string of all the arguments provided by Set. Part of the
// flag.Value interface.
func (t *StringValue) String() string {
	return strings.Join(t.strings, " ")
}

// Args returns a copy of the accumulated strings. Callers can safely modify the returned array
// without changing the internal data.
func (t *StringValue) Args() []string {
	return append([]string{}, t.strings...)
}

// NArg returns the number of strings accumulated by Set
func (t *StringValue) NArg() int {
	return len(t.strings)
}
