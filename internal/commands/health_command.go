package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"lpr-console/internal/flow"
)

func GetHealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the inference API is reachable",
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Close()

			console, err := ctx.Console(flow.DefaultOptions())
			if err != nil {
				return err
			}

			status, err := console.Health(c.Context)
			if err != nil {
				return cli.Exit(flow.ErrorMessage(err, ctx.Catalog()), 1)
			}

			fmt.Fprintf(c.App.Writer, "status: %s\n", status.Status)
			if status.ModelLoaded != nil {
				fmt.Fprintf(c.App.Writer, "model loaded: %t\n", *status.ModelLoaded)
			}
			return nil
		},
	}
}
