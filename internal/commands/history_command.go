package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"lpr-console/internal/flow"
	"lpr-console/internal/service"
)

func GetHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect saved analyses",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List analyses, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "plate", Usage: "Only analyses that read this plate"},
					&cli.IntFlag{Name: "limit", Value: 50},
					&cli.IntFlag{Name: "offset"},
					&cli.BoolFlag{Name: "json"},
				},
				Action: func(c *cli.Context) error {
					return withConsole(c, func(console *service.ConsoleService) error {
						runs, err := console.ListHistory(c.Context, c.String("plate"), c.Int("limit"), c.Int("offset"))
						if err != nil {
							return err
						}
						if c.Bool("json") {
							return writeJSON(c, runs)
						}
						return writeRuns(c, runs)
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Print one analysis with its stored payload",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					return withConsole(c, func(console *service.ConsoleService) error {
						run, err := console.GetRun(c.Context, c.Args().First())
						if err != nil {
							return err
						}
						return writeJSON(c, run)
					})
				},
			},
			{
				Name:  "prune",
				Usage: "Delete analyses older than --days",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Value: 30},
				},
				Action: func(c *cli.Context) error {
					return withConsole(c, func(console *service.ConsoleService) error {
						deleted, err := console.PruneHistory(c.Context, c.Int("days"))
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "deleted %d analyses\n", deleted)
						return nil
					})
				},
			},
		},
	}
}

func withConsole(c *cli.Context, fn func(*service.ConsoleService) error) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	console, err := ctx.Console(flow.DefaultOptions())
	if err != nil {
		return err
	}
	return fn(console)
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRuns(c *cli.Context, runs []service.RunInfo) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tMODE\tFILE\tPLATES\tSTATUS")
	for _, r := range runs {
		plates := make([]string, 0, len(r.Plates))
		for _, p := range r.Plates {
			plates = append(plates, p.Number)
		}
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.Filename, strings.Join(plates, ","), status)
	}
	return tw.Flush()
}
