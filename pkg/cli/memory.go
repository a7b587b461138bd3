package cli

import (
	"context"
	"fmt"

	"github.com/aura-ai/aura/pkg/model"
	"github.com/urfave/cli/v3"
)

func memoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "memory",
		Usage: "Inspect and manage stored memory records",
		Commands: []*cli.Command{
			memoryListCommand(),
			memoryDeleteCommand(),
		},
	}
}

func memoryListCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, memoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List stored memory records",
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

			records, err := mem.Records(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(c.Root().Writer, "No memory records\n")
				return nil
			}

			for _, rec := range records {
				text := rec.Text
				if len(text) > 80 {
					text = text[:80] + "..."
				}
				fmt.Fprintf(c.Root().Writer, "%s  %s  %s\n",
					rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"), text)
			}
			fmt.Fprintf(c.Root().Writer, "\n%d record(s)\n", len(records))
			return nil
		},
	}
}

func memoryDeleteCommand() *cli.Command {
	var (
		cfg config
		id  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Memory record ID to delete",
			Destination: &id,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, memoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a memory record",
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

			if err := mem.Forget(ctx, model.MemoryID(id)); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Deleted %s\n", id)
			return nil
		},
	}
}
