package cli

import (
	"context"
	"fmt"

	"github.com/aura-ai/aura/pkg/usecase/chat"
	"github.com/urfave/cli/v3"
)

func intentCommand() *cli.Command {
	var (
		cfg     config
		message string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "message",
			Aliases:     []string{"m"},
			Usage:       "Message to classify",
			Destination: &message,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, providerFlags(&cfg)...)

	return &cli.Command{
		Name:  "intent",
		Usage: "Classify a message as TEXT, IMAGE, VIDEO or AUDIO",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}

			manager, err := cfg.newProviderManager(ctx)
			if err != nil {
				return err
			}

			intent := chat.DetectIntent(ctx, manager, "", message)
			fmt.Fprintf(c.Root().Writer, "%s\n", intent)
			return nil
		},
	}
}
