// Package platform abstracts the host facilities the evaluator and the
// built-in library rely on: the clock, standard output and line input. A
// deterministic implementation yields deterministic evaluation outcomes.
package platform

import (
	"bufio"
	"io"
	"os"
	"time"
)

// Platform is the host abstraction handed to the runtime.
type Platform interface {
	// Now returns the current time, in the platform's timezone.
	Now() time.Time

	// Stdout returns the writer for program output.
	Stdout() io.Writer

	// ReadLine reads one line from the platform input, without the trailing
	// newline.
	ReadLine() (string, error)
}

// OS is the Platform backed by the host operating system.
type OS struct {
	// Loc is the timezone used by Now; defaults to the local timezone.
	Loc *time.Location

	// Out defaults to os.Stdout, In to os.Stdin.
	Out io.Writer
	In  io.Reader

	scanner *bufio.Scanner
}

// Now implements Platform.
func (p *OS) Now() time.Time {
	if p.Loc != nil {
		return time.Now().In(p.Loc)
	}
	return time.Now()
}

// Stdout implements Platform.
func (p *OS) Stdout() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

// ReadLine implements Platform.
func (p *OS) ReadLine() (string, error) {
	if p.scanner == nil {
		in := p.In
		if in == nil {
			in = os.Stdin
		}
		p.scanner = bufio.NewScanner(in)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Fake is a deterministic Platform for tests: a fixed clock, an in-memory
// output buffer and scripted input lines.
type Fake struct {
	// Time is returned by Now.
	Time time.Time

	// Out receives program output; defaults to io.Discard.
	Out io.Writer

	// Lines are returned by ReadLine, in order.
	Lines []string
}

// Now implements Platform.
func (p *Fake) Now() time.Time { return p.Time }

// Stdout implements Platform.
func (p *Fake) Stdout() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return io.Discard
}

// ReadLine implements Platform.
func (p *Fake) ReadLine() (string, error) {
	if len(p.Lines) == 0 {
		return "", io.EOF
	}
	line := p.Lines[0]
	p.Lines = p.Lines[1:]
	return line, nil
}

var (
	_ Platform = (*OS)(nil)
	_ Platform = (*Fake)(nil)
)
