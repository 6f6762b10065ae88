package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"lpr-console/internal/auth"
	"lpr-console/internal/flow"
	transport "lpr-console/internal/http"
)

func GetServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web console",
		Description: `Serve the JSON console API and the notification websocket.

Examples:
  lpr-console serve --port 8080
  LPR_API_BASE_URL=http://lpr.internal:8000 lpr-console serve`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server.host",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Run gin in debug mode",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Close()

			cfg := ctx.Config
			if c.IsSet("port") {
				cfg.Server.Port = c.Int("port")
			}
			if c.IsSet("host") {
				cfg.Server.Host = c.String("host")
			}
			if !c.Bool("debug") {
				gin.SetMode(gin.ReleaseMode)
			}

			console, err := ctx.Console(flow.DefaultOptions())
			if err != nil {
				return err
			}

			tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
			if cfg.Auth.JWTSecret == "" {
				ctx.Logger.Warn().Msg("auth.jwt_secret is empty, history endpoints will reject every request")
			}

			handler := transport.NewHandler(console, cfg, ctx.Logger)
			router := transport.NewRouter(handler, cfg.Server, transport.AdminAuth(tokens), ctx.Logger)

			srv := &http.Server{
				Addr:              cfg.Server.Addr(),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			runCtx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go pruneSessions(runCtx, console.PruneSessions, cfg.Server.SessionIdle)

			errCh := make(chan error, 1)
			go func() {
				ctx.Logger.Info().
					Str("addr", srv.Addr).
					Str("backend", cfg.API.BaseURL).
					Msg("starting lpr console")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-runCtx.Done():
			}

			ctx.Logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func pruneSessions(ctx context.Context, prune func(time.Duration) int, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune(idle)
		}
	}
}
