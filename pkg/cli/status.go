package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

func statusCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, providerFlags(&cfg)...)
	flags = append(flags, memoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "status",
		Usage: "Show provider availability and memory store state",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}

			manager, err := cfg.newProviderManager(ctx)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			infos := manager.Providers()
			if len(infos) == 0 {
				fmt.Fprintf(w, "Providers: none configured\n")
			} else {
				fmt.Fprintf(w, "Providers (primary: %s):\n", manager.Primary())
				for _, info := range infos {
					caps := make([]string, 0, len(info.Capabilities))
					for _, capability := range info.Capabilities {
						caps = append(caps, string(capability))
					}
					fmt.Fprintf(w, "  %-12s %s\n", info.Name, strings.Join(caps, ", "))
				}
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
				fmt.Fprintf(w, "Memory: unavailable (%s)\n", err)
				return nil
			}
			backend := "in-process"
			if cfg.project != "" {
				backend = "firestore"
			}
			fmt.Fprintf(w, "Memory: %d record(s), backend %s\n", len(records), backend)
			return nil
		},
	}
}
