package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"lpr-console/internal/flow"
	"lpr-console/internal/i18n"
)

func GetKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Manage the stored API key",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Generate a new key and store it, replacing the current one",
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

					key, err := console.GenerateKey(c.Context)
					if err != nil {
						return cli.Exit(ctx.Catalog().T(i18n.ErrKeyCreate), 1)
					}

					fmt.Fprintln(c.App.Writer, ctx.Catalog().T(i18n.ToastKeyGenerated))
					fmt.Fprintf(c.App.Writer, "name: %s\n", key.Name)
					fmt.Fprintf(c.App.Writer, "key:  %s\n", key.Key)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Print the stored key, masked",
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

					info, err := console.CurrentKey(c.Context)
					if err != nil {
						return err
					}
					if !info.Present {
						fmt.Fprintln(c.App.Writer, "no key stored")
						return nil
					}
					fmt.Fprintln(c.App.Writer, info.Masked)
					return nil
				},
			},
		},
	}
}
