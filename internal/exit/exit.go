// Package exit models process termination the way grep does: distinct
// codes for matched, matched nothing, bad usage and runtime failure, so
// scripts can branch on the outcome of a query.
package exit

import (
	"fmt"
	"io"
	"os"
)

const (
	CodeMatched = 0
	CodeNoMatch = 1
	CodeUsage   = 2
	CodeRuntime = 3
)

// Status holds the final message, its destination and the process exit
// code for a finished run.
type Status struct {
	Output  io.Writer
	Code    int
	Message string
}

// Print writes the message, newline-terminated, to the configured
// destination. A status without a message prints nothing.
func (s *Status) Print() {
	if s.Message == "" {
		return
	}
	fmt.Fprintln(s.Output, s.Message)
}

// Matched reports a run that produced at least one match.
func Matched() *Status {
	return &Status{Output: os.Stdout, Code: CodeMatched}
}

// Success reports a run that finished by printing message, such as help
// output.
func Success(message string) *Status {
	return &Status{Output: os.Stdout, Code: CodeMatched, Message: message}
}

// NoMatches reports a run that completed but matched nothing.
func NoMatches() *Status {
	return &Status{Output: os.Stderr, Code: CodeNoMatch}
}

// Usagef reports a flag, argument or expression error.
func Usagef(format string, a ...any) *Status {
	return &Status{Output: os.Stderr, Code: CodeUsage, Message: fmt.Sprintf(format, a...)}
}

// Runtimef reports a source or decode failure.
func Runtimef(format string, a ...any) *Status {
	return &Status{Output: os.Stderr, Code: CodeRuntime, Message: fmt.Sprintf(format, a...)}
}
