package commands

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"lpr-console/internal/auth"
)

func GetTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint an admin token for the history endpoints",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "admin", Usage: "Token subject"},
			&cli.DurationFlag{Name: "ttl", Usage: "Override auth.token_ttl"},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}

			ttl := ctx.Config.Auth.TokenTTL
			if c.IsSet("ttl") {
				ttl = c.Duration("ttl")
			}

			token, expires, err := auth.NewTokens(ctx.Config.Auth.JWTSecret, ttl).Issue(c.String("subject"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			ctx.Logger.Info().Str("subject", c.String("subject")).Time("expires_at", expires.UTC().Truncate(time.Second)).Msg("token issued")
			return nil
		},
	}
}
