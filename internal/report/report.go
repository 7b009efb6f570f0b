// Package report prints per-input check results.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/terawatthour/htmlcheck"
	"github.com/terawatthour/htmlcheck/internal/config"
)

// Entry is the outcome of checking one named input.
type Entry struct {
	Name   string
	Result htmlcheck.Result
}

type Reporter struct {
	out   io.Writer
	quiet bool

	ok   func(string, ...any) string
	fail func(string, ...any) string
	dim  func(string, ...any) string

	mu     sync.Mutex
	passed int
	failed int
}

// New returns a Reporter writing to out. colorMode is one of the
// config.Color* constants.
func New(out io.Writer, colorMode string, quiet bool) *Reporter {
	r := &Reporter{out: out, quiet: quiet}
	if useColor(out, colorMode) {
		r.ok = colorFunc(color.FgGreen, color.Bold)
		r.fail = colorFunc(color.FgRed, color.Bold)
		r.dim = colorFunc(color.Faint)
	} else {
		r.ok, r.fail, r.dim = fmt.Sprintf, fmt.Sprintf, fmt.Sprintf
	}
	return r
}

func colorFunc(attrs ...color.Attribute) func(string, ...any) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintfFunc()
}

func useColor(out io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report writes one line for e and records it in the summary.
func (r *Reporter) Report(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Result.Balanced {
		r.passed++
		if r.quiet {
			return nil
		}
		_, err := fmt.Fprintf(r.out, "%s %s\n", r.ok("OK  "), e.Name)
		return err
	}

	r.failed++
	v := e.Result.Violation
	if v == nil {
		_, err := fmt.Fprintf(r.out, "%s %s\n", r.fail("FAIL"), e.Name)
		return err
	}
	_, err := fmt.Fprintf(r.out, "%s %s:%s: %s %s\n",
		r.fail("FAIL"), e.Name, v.Location, v.Error(), r.dim("(%s)", v.Kind))
	return err
}

// Error reports an input that could not be read at all.
func (r *Reporter) Error(name string, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failed++
	_, werr := fmt.Fprintf(r.out, "%s %s: %v\n", r.fail("ERR "), name, err)
	return werr
}

// Summary returns the number of passed and failed inputs so far.
func (r *Reporter) Summary() (passed, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passed, r.failed
}
