package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func speakCommand() *cli.Command {
	var (
		cfg    config
		text   string
		output string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Text to synthesize",
			Destination: &text,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "File to write audio to",
			Value:       "aura-speech.mp3",
			Destination: &output,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, providerFlags(&cfg)...)

	return &cli.Command{
		Name:  "speak",
		Usage: "Convert text to speech",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}

			manager, err := cfg.newProviderManager(ctx)
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " synthesizing speech..."
			sp.Start()
			audio, provName, err := manager.Synthesize(ctx, "", text)
			sp.Stop()
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, audio, 0644); err != nil {
				return goerr.Wrap(err, "failed to write audio", goerr.V("path", output))
			}
			fmt.Fprintf(c.Root().Writer, "Speech generated by %s: %s\n", provName, output)
			return nil
		},
	}
}
