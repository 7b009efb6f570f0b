package command

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/terawatthour/htmlcheck/internal/logger"
	"github.com/terawatthour/htmlcheck/internal/watch"
)

func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "check once, then re-check files whenever they change (new subdirectories included)",
		ArgsUsage: "file|dir...",
		Action:    runWatch,
	}
}

func runWatch(c *cli.Context) error {
	s := getSession(c)
	args := c.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("watch: at least one file or directory is required", ExitError)
	}

	w, err := watch.New(
		watch.WithLogger(logger.Slog(s.log)),
		watch.WithMatch(s.cfg.MatchesExtension),
	)
	if err != nil {
		return cli.Exit("watch: "+err.Error(), ExitError)
	}
	for _, arg := range args {
		if err := addWatch(w, arg); err != nil {
			_ = w.Close()
			return cli.Exit("watch: "+err.Error(), ExitError)
		}
	}

	// The initial pass only reports; its exit code does not stop the watch.
	if err := runCheck(c); err != nil {
		var exit cli.ExitCoder
		if !errors.As(err, &exit) {
			return err
		}
	}

	s.log.Info("watching for changes", "inputs", len(args))
	err = w.Run(c.Context, func(path string) {
		r := checkOne(c, s, path)
		if r.err != nil {
			_ = s.reporter.Error(path, r.err)
			return
		}
		_ = s.reporter.Report(r.entry)
	})
	if c.Context.Err() != nil {
		s.log.Info("watch stopped", "reason", context.Cause(c.Context))
		return nil
	}
	return err
}

func addWatch(w *watch.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.AddFile(path)
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.AddDir(p)
		}
		return nil
	})
}
