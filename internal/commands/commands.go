package commands

import (
	"github.com/urfave/cli/v2"
)

func GetCommands() []*cli.Command {
	return []*cli.Command{
		GetServeCommand(),
		GetHealthCommand(),
		GetKeyCommand(),
		GetAnalyzeCommand(),
		GetHistoryCommand(),
		GetTokenCommand(),
	}
}

// GlobalFlags are accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file",
			EnvVars: []string{"LPR_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Override log.level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "locale",
			Usage: "Override the message language (en, ar)",
		},
	}
}

func NewApp() *cli.App {
	return &cli.App{
		Name:     "lpr-console",
		Usage:    "Client and web console for the license plate recognition API",
		Flags:    GlobalFlags(),
		Commands: GetCommands(),
	}
}
