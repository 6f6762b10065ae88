package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"lpr-console/internal/config"
	"lpr-console/internal/credential"
	"lpr-console/internal/db"
	"lpr-console/internal/flow"
	"lpr-console/internal/i18n"
	"lpr-console/internal/inference"
	"lpr-console/internal/logger"
	"lpr-console/internal/repository"
	"lpr-console/internal/service"
)

// CommandContext is shared by every command: loaded config plus a logger writing to stderr.
type CommandContext struct {
	Logger zerolog.Logger
	Config *config.Config

	db *gorm.DB
}

func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if loc := c.String("locale"); loc != "" {
		cfg.Locale = loc
	}

	errWriter := c.App.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}

	return &CommandContext{
		Logger: logger.NewWithWriter(cfg.Log, errWriter),
		Config: cfg,
	}, nil
}

// DB opens the history database once per command.
func (ctx *CommandContext) DB() (*gorm.DB, error) {
	if ctx.db != nil {
		return ctx.db, nil
	}
	gdb, err := db.Open(ctx.Config.Database, ctx.Logger)
	if err != nil {
		return nil, err
	}
	ctx.db = gdb
	return gdb, nil
}

func (ctx *CommandContext) Close() {
	if ctx.db != nil {
		if err := db.Close(ctx.db); err != nil {
			ctx.Logger.Warn().Err(err).Msg("failed to close database")
		}
		ctx.db = nil
	}
}

func (ctx *CommandContext) Catalog() *i18n.Catalog {
	return i18n.New(ctx.Config.Locale)
}

func (ctx *CommandContext) Store() (credential.Store, error) {
	switch ctx.Config.Credential.Backend {
	case "db":
		gdb, err := ctx.DB()
		if err != nil {
			return nil, err
		}
		return credential.NewDBStore(gdb), nil
	default:
		return credential.NewFileStore(ctx.Config.Credential.Path), nil
	}
}

func (ctx *CommandContext) Client(store credential.Store) *inference.Client {
	return inference.NewClient(ctx.Config.API.BaseURL, ctx.Config.API.Timeout, store, ctx.Catalog(), ctx.Logger)
}

// Console builds the service used by both the CLI and the web console. History is skipped
// with a warning when the database cannot be opened.
func (ctx *CommandContext) Console(opts flow.Options) (*service.ConsoleService, error) {
	store, err := ctx.Store()
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	var repo *repository.AnalysisRepository
	if gdb, err := ctx.DB(); err != nil {
		ctx.Logger.Warn().Err(err).Msg("history disabled")
	} else {
		repo = repository.NewAnalysisRepository(gdb)
	}

	return service.NewConsoleService(ctx.Client(store), store, repo, service.Options{
		Flow:           opts,
		NotifyDuration: ctx.Config.Notify.Duration,
		DefaultLocale:  ctx.Config.Locale,
	}, ctx.Logger), nil
}
