package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func imagineCommand() *cli.Command {
	var (
		cfg    config
		prompt string
		output string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"m"},
			Usage:       "Description of the image to generate",
			Destination: &prompt,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "File to write inline image data to",
			Value:       "aura-image.png",
			Destination: &output,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, providerFlags(&cfg)...)

	return &cli.Command{
		Name:  "imagine",
		Usage: "Generate an image from a prompt",
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
			sp.Suffix = " generating image..."
			sp.Start()
			img, provName, err := manager.GenerateImage(ctx, "", prompt)
			sp.Stop()
			if err != nil {
				return err
			}

			if img.URL != "" {
				fmt.Fprintf(c.Root().Writer, "Image generated by %s: %s\n", provName, img.URL)
				return nil
			}

			data, err := base64.StdEncoding.DecodeString(img.B64)
			if err != nil {
				return goerr.Wrap(err, "failed to decode image data")
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return goerr.Wrap(err, "failed to write image", goerr.V("path", output))
			}
			fmt.Fprintf(c.Root().Writer, "Image generated by %s: %s\n", provName, output)
			return nil
		},
	}
}
