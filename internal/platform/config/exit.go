package config

import (
	"fmt"
	"log"
	"os"
)

// Exitf writes a formatted message to stderr after the standard logger's
// prefix (e.g. "[ROLL] ") and exits with status 1. Replies stay on stdout, so
// a caller piping expressions through the CLI only sees failures on stderr.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s"+format+"\n", append([]any{log.Prefix()}, args...)...)
	os.Exit(1)
}
