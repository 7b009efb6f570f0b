package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/terawatthour/htmlcheck"
)

func TokensCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "print the markup constructs the scanner recognises",
		ArgsUsage: "[file|-]",
		Action:    runTokens,
	}
}

func runTokens(c *cli.Context) error {
	name := stdinName
	if c.NArg() > 1 {
		return cli.Exit("tokens: expected at most one input", ExitError)
	}
	if c.NArg() == 1 {
		name = c.Args().First()
	}

	data, err := readInput(c, name)
	if err != nil {
		return cli.Exit(fmt.Sprintf("tokens: %v", err), ExitError)
	}

	out := c.App.Writer
	for token := range htmlcheck.Tokenize(string(data)) {
		if _, err := fmt.Fprintf(out, "%-16s %6d %6d %s\n", token.Category, token.Start, token.End, token.Name); err != nil {
			return err
		}
	}
	return nil
}
