package wsl

import (
	"github.com/alessio/shellescape"
)

// ShellJoin renders program and args as one POSIX sh command line. Safe words
// stay bare, everything else is single-quoted.
func ShellJoin(program string, args ...string) string {
	words := make([]string, 0, len(args)+1)
	words = append(words, program)
	words = append(words, args...)
	return shellescape.QuoteCommand(words)
}

func ShellQuote(s string) string {
	return shellescape.Quote(s)
}
