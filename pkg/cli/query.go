package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func queryCommand() *cli.Command {
	var (
		cfg   config
		query string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Keywords to search memory for",
			Destination: &query,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, memoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "query",
		Usage: "Search long-term memory and print the matching context",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}
			mem := cfg.newMemoryService(ctx, repo, storage)
			defer mem.Close()

			result := mem.Search(ctx, query)
			if result == "" {
				fmt.Fprintf(c.Root().Writer, "No relevant memory found\n")
				return nil
			}
			fmt.Fprintf(c.Root().Writer, "%s\n", result)
			return nil
		},
	}
}
