package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aura-ai/aura/pkg/usecase/chat"
	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func synthesizeCommand() *cli.Command {
	var (
		cfg  config
		file string
		text string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Path to the content to summarize",
			Destination: &file,
		},
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Content to summarize (alternative to --file)",
			Destination: &text,
		},
		&cli.StringFlag{
			Name:        "language",
			Aliases:     []string{"l"},
			Usage:       "Language of the summary",
			Value:       "English",
			Sources:     cli.EnvVars("AURA_LANGUAGE"),
			Destination: &cfg.language,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, providerFlags(&cfg)...)

	return &cli.Command{
		Name:  "synthesize",
		Usage: "Summarize content in the target language",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}

			content := text
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return goerr.Wrap(err, "failed to read content", goerr.V("path", file))
				}
				content = string(data)
			}
			if content == "" {
				return goerr.New("either --file or --text is required")
			}

			manager, err := cfg.newProviderManager(ctx)
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " synthesizing..."
			sp.Start()
			summary, err := chat.Synthesize(ctx, manager, "", content, cfg.language)
			sp.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", summary)
			return nil
		},
	}
}
