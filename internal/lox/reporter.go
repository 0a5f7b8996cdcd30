package lox

import (
	"fmt"
	"io"
)

// Reporter defines the interface for structures that surface diagnostics to
// the user. Separating error reporting from error display lets the scanner,
// parser, resolver and interpreter all funnel through one sink.
type Reporter interface {
	Report(err error)
	HadError() bool
	HadRuntimeError() bool
	Reset()
}

// SimpleReporter writes every error, one per line, to an underlying writer.
// It classifies RuntimeError separately so a caller can distinguish a
// compile-time failure (exit 64) from a runtime failure (exit 70).
type SimpleReporter struct {
	writer        io.Writer
	hadErr        bool
	hadRuntimeErr bool
}

// NewSimpleReporter creates a reporter that writes to writer.
func NewSimpleReporter(writer io.Writer) Reporter {
	return &SimpleReporter{writer: writer}
}

func (r *SimpleReporter) Report(err error) {
	if _, ok := err.(*RuntimeError); ok {
		r.hadRuntimeErr = true
	} else {
		r.hadErr = true
	}
	fmt.Fprintln(r.writer, err)
}

func (r *SimpleReporter) HadError() bool {
	return r.hadErr
}

func (r *SimpleReporter) HadRuntimeError() bool {
	return r.hadRuntimeErr
}

// Reset clears both error flags so a REPL session can continue after a bad
// line without tainting subsequent ones.
func (r *SimpleReporter) Reset() {
	r.hadErr = false
	r.hadRuntimeErr = false
}
