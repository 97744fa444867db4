package output

import (
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences from external data before terminal output.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Cell prepares server-supplied text for a single table cell or plain record:
// escape sequences are stripped and tabs and newlines collapse to spaces.
func Cell(s string) string {
	s = StripANSI(s)
	return strings.Join(strings.Fields(s), " ")
}
