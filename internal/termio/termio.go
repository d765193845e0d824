// Package termio wraps TTY detection and raw-mode switching for stdin,
// stdout and stderr: the collision prompt (spec §4.5) needs all three to be
// a TTY before it will ask a question, and the OSC-52 remote backend (spec
// §4.7.3) needs to flip stdin briefly into raw mode to read a terminal
// response that isn't newline-terminated.
//
// Grounded on the `Hanaasagi-magonote` manifest's adoption of
// golang.org/x/term for a terminal-driven CLI tool; no teacher file does
// anything like this, so the term.MakeRaw/term.Restore calls follow that
// package's documented usage shape directly.
package termio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/berrythewa/clipman-daemon/pkg/utils"
	"golang.org/x/term"
)

// IO bundles the three standard streams' TTY state, gathered once at
// startup so the rest of the program can treat it as an immutable value
// (spec §9's "represent globals as one context value" guidance extends to
// this ambient concern too).
type IO struct {
	In, Out, Err *os.File
}

// Std returns an IO wrapping the process's real standard streams.
func Std() IO { return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr} }

// IsTTYIn reports whether stdin is attached to a terminal, honoring the
// CLIPBOARD_FORCETTY override.
func (io IO) IsTTYIn() bool { return isTTY(io.In) }

// IsTTYOut reports whether stdout is attached to a terminal.
func (io IO) IsTTYOut() bool { return isTTY(io.Out) }

// IsTTYErr reports whether stderr is attached to a terminal.
func (io IO) IsTTYErr() bool { return isTTY(io.Err) }

// IsRobot reports the "user is a robot" condition used to skip interactive
// prompts: CI is truthy, or any of the three streams isn't a terminal.
func (io IO) IsRobot() bool {
	if utils.EnvTruthy("CI") {
		return true
	}
	return !io.IsTTYIn() || !io.IsTTYOut() || !io.IsTTYErr()
}

func isTTY(f *os.File) bool {
	if utils.EnvTruthy("CLIPBOARD_FORCETTY") {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}

// Prompter adapts an IO to copyengine.Prompter: asking a question on stderr
// and reading one line from stdin.
type Prompter struct {
	io     IO
	reader *bufio.Reader
}

// NewPrompter builds a Prompter over io's stdin/stderr.
func NewPrompter(io IO) *Prompter {
	return &Prompter{io: io, reader: bufio.NewReader(io.In)}
}

// IsTTY reports whether the prompt can actually be shown interactively —
// all three streams must be a terminal and the process must not be a robot.
func (p *Prompter) IsTTY() bool {
	return !p.io.IsRobot()
}

// Ask writes prompt to stderr and reads one line of response from stdin.
func (p *Prompter) Ask(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.io.Err, prompt); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}

// RawMode switches f into raw mode for the duration of fn, always restoring
// the previous terminal state afterward — used by the OSC-52 backend to
// read a response that has no line terminator it can rely on.
func RawMode(f *os.File, fn func() error) error {
	oldState, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(int(f.Fd()), oldState)
	return fn()
}
