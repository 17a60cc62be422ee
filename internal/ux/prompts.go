package ux

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LinePrompter asks yes/no questions on a plain line-based terminal or pipe.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading answers from in. Nil streams
// default to stdin and stderr.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints query and reads one line. Only "y" or "yes" accept. Input
// that ends before a newline still counts as an answer, and end of input
// with nothing typed declines. Only read failures are errors.
func (p *LinePrompter) Confirm(query string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s\nTrust? (y/N): ", query); err != nil {
		return false, err
	}

	response, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading trust answer: %w", err)
	}
	if response == "" {
		// Keep the next line of output off the prompt line.
		fmt.Fprintln(p.out)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
