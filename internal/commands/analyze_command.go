package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/flow"
	"lpr-console/internal/render"
	"lpr-console/internal/service"
)

func GetAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Send an image or a video to the inference API and print the result",
		Subcommands: []*cli.Command{
			{
				Name:      "image",
				Usage:     "Analyze a still image",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overlay", Value: true, Usage: "Ask the backend for an annotated overlay image"},
					&cli.BoolFlag{Name: "json", Usage: "Print the raw backend response"},
				},
				Action: func(c *cli.Context) error {
					opts := flow.DefaultOptions()
					opts.Overlay = c.Bool("overlay")
					return runAnalyze(c, lpr.ModeImage, opts)
				},
			},
			{
				Name:      "video",
				Usage:     "Analyze a video clip",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "skip-frames", Value: lpr.DefaultSkipFrames, Usage: "Frames skipped between reads"},
					&cli.BoolFlag{Name: "json", Usage: "Print the raw backend response"},
				},
				Action: func(c *cli.Context) error {
					opts := flow.DefaultOptions()
					opts.SkipFrames = c.Int("skip-frames")
					return runAnalyze(c, lpr.ModeVideo, opts)
				},
			},
		},
	}
}

func runAnalyze(c *cli.Context, mode lpr.Mode, opts flow.Options) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("a file path is required", 2)
	}

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	file, err := readFile(path)
	if err != nil {
		return err
	}

	console, err := ctx.Console(opts)
	if err != nil {
		return err
	}

	sess := console.CreateSession(ctx.Config.Locale)
	defer console.CloseSession(sess.ID)

	if err := console.SetMode(sess.ID, string(mode)); err != nil {
		return err
	}
	if err := console.SelectFile(sess.ID, file); err != nil {
		return err
	}

	view, err := console.Analyze(c.Context, sess.ID)
	if err != nil {
		if view != nil && view.Snapshot.Error != "" {
			return cli.Exit(view.Snapshot.Error, 1)
		}
		return err
	}

	if toasts, err := console.Notifications(sess.ID); err == nil {
		for _, t := range toasts {
			fmt.Fprintln(c.App.ErrWriter, t.Message)
		}
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(view.Snapshot.Result.Record)
	}
	return writeView(c, view)
}

func writeView(c *cli.Context, view *service.SessionView) error {
	switch {
	case view.Image != nil:
		return render.WriteImage(c.App.Writer, *view.Image)
	case view.Video != nil:
		return render.WriteVideo(c.App.Writer, *view.Video)
	}
	return errors.New("no result to print")
}

func readFile(path string) (lpr.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lpr.File{}, fmt.Errorf("read %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return lpr.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
