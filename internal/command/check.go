package command

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/terawatthour/htmlcheck"
	"github.com/terawatthour/htmlcheck/internal/report"
)

const stdinName = "-"

func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "check files, directories or stdin (the default command)",
		ArgsUsage: "[file|dir|-]...",
		Action:    runCheck,
	}
}

// outcome is the result of checking one input; err is set when it could not be read.
type outcome struct {
	entry report.Entry
	err   error
}

func runCheck(c *cli.Context) error {
	s := getSession(c)

	inputs, err := expandInputs(s, c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), ExitError)
	}

	results := checkAll(c, s, inputs)

	readErrors := 0
	for _, r := range results {
		if r.err != nil {
			readErrors++
			if err := s.reporter.Error(r.entry.Name, r.err); err != nil {
				return err
			}
			continue
		}
		if err := s.reporter.Report(r.entry); err != nil {
			return err
		}
	}

	passed, failed := s.reporter.Summary()
	s.log.Info("check finished", "passed", passed, "failed", failed, "unreadable", readErrors)

	switch {
	case readErrors > 0:
		return cli.Exit("", ExitError)
	case failed > 0:
		return cli.Exit("", ExitUnbalanced)
	}
	return nil
}

// checkAll validates every input with at most cfg.Check.Workers goroutines.
// Results keep the order of inputs.
func checkAll(c *cli.Context, s *session, inputs []string) []outcome {
	results := make([]outcome, len(inputs))

	var g errgroup.Group
	g.SetLimit(s.cfg.Check.Workers)
	for i, name := range inputs {
		g.Go(func() error {
			results[i] = checkOne(c, s, name)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func checkOne(c *cli.Context, s *session, name string) outcome {
	data, err := readInput(c, name)
	if err != nil {
		s.log.Warn("cannot read input", "file", name, "error", err)
		return outcome{entry: report.Entry{Name: name}, err: err}
	}

	result := htmlcheck.Check(string(data))
	s.log.Debug("checked", "file", name, "bytes", len(data), "balanced", result.Balanced)
	return outcome{entry: report.Entry{Name: name, Result: result}}
}

func readInput(c *cli.Context, name string) ([]byte, error) {
	if name == stdinName {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(name)
}

// expandInputs replaces directories with the matching files beneath them.
// No arguments means stdin.
func expandInputs(s *session, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{stdinName}, nil
	}

	var inputs []string
	for _, arg := range args {
		if arg == stdinName {
			inputs = append(inputs, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Unreadable files are reported per input, not as a usage error.
			inputs = append(inputs, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && s.cfg.MatchesExtension(path) {
				inputs = append(inputs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	if len(inputs) == 0 {
		return nil, errors.New("no matching files found")
	}
	return inputs, nil
}
