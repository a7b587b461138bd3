package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and manage chat histories",
		Commands: []*cli.Command{
			historyListCommand(),
			historyClearCommand(),
		},
	}
}

func historyListCommand() *cli.Command {
	var (
		cfg    config
		offset int64
		limit  int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Offset for pagination",
			Value:       0,
			Destination: &offset,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of histories to list",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List chat histories, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			histories, err := repo.ListHistories(ctx, int(offset), int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list histories")
			}
			if len(histories) == 0 {
				fmt.Fprintf(c.Root().Writer, "No chat histories\n")
				return nil
			}

			for _, h := range histories {
				fmt.Fprintf(c.Root().Writer, "%s  %s  [%s] %s\n",
					h.ID, h.UpdatedAt.Format("2006-01-02 15:04:05"), h.Provider, h.Title)
			}
			return nil
		},
	}
}

func historyClearCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all chat histories",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.ClearHistories(ctx); err != nil {
				return goerr.Wrap(err, "failed to clear histories")
			}
			fmt.Fprintf(c.Root().Writer, "Chat histories cleared\n")
			return nil
		},
	}
}
