// Package cli holds terminal helpers shared by the command line tools.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	file *os.File
}

// NewPrompter returns a Prompter over in and out. Passwords are read without
// echo only when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		p.file = f
	}
	return p
}

// Text prints prompt and returns the trimmed line typed by the user.
func (p *Prompter) Text(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prints prompt and reads a secret without echo when the input is a
// terminal. Otherwise it falls back to reading a plain line.
func (p *Prompter) Password(prompt string) (string, error) {
	if p.file == nil || !isTerminal(int(p.file.Fd())) {
		return p.Text(prompt)
	}
	fd := int(p.file.Fd())
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
