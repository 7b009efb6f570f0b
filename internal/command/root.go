// Package command defines the htmlcheck command line using urfave/cli/v2.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/terawatthour/htmlcheck/internal/config"
	"github.com/terawatthour/htmlcheck/internal/logger"
	"github.com/terawatthour/htmlcheck/internal/report"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitUnbalanced = 1
	ExitError      = 2
)

const sessionKey = "session"

// session is built once per invocation in Before and shared by every command.
type session struct {
	cfg      config.Config
	log      logger.Logger
	reporter *report.Reporter
}

// App creates the CLI application. Exit codes are returned, not applied:
// the caller decides whether to call os.Exit.
func App() *cli.App {
	return &cli.App{
		Name:      "htmlcheck",
		Usage:     "report whether HTML tags are balanced and properly nested",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags:     globalFlags(),
		ArgsUsage: "[file|dir|-]...",
		Commands: []*cli.Command{
			CheckCommand(),
			WatchCommand(),
			TokensCommand(),
		},
		Action:         runCheck,
		Before:         before,
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"HTMLCHECK_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "text or json",
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "auto, always or never",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only print inputs that fail",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "number of files checked concurrently",
		},
	}
}

// overrides collects explicitly set flags as dotted config keys.
func overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-format") {
		m["log.format"] = c.String("log-format")
	}
	if c.IsSet("color") {
		m["output.color"] = c.String("color")
	}
	if c.IsSet("quiet") {
		m["output.quiet"] = c.Bool("quiet")
	}
	if c.IsSet("workers") {
		m["check.workers"] = c.Int("workers")
	}
	return m
}

func before(c *cli.Context) error {
	cfg, err := config.NewLoader(
		config.WithConfigFile(c.String("config")),
		config.WithOverrides(overrides(c)),
	).Load()
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), ExitError)
	}

	lc := cfg.LoggerConfig()
	lc.Output = c.App.ErrWriter
	log := logger.New(lc)
	log.Debug("configuration loaded",
		"workers", cfg.Check.Workers,
		"color", cfg.Output.Color,
		"extensions", cfg.Check.Extensions,
	)

	c.App.Metadata[sessionKey] = &session{
		cfg:      cfg,
		log:      log,
		reporter: report.New(c.App.Writer, cfg.Output.Color, cfg.Output.Quiet),
	}
	return nil
}

func getSession(c *cli.Context) *session {
	if s, ok := c.App.Metadata[sessionKey].(*session); ok {
		return s
	}
	return nil
}
