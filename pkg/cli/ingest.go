package cli

import (
	"context"
	"fmt"

	"github.com/aura-ai/aura/pkg/usecase/ingest"
	"github.com/aura-ai/aura/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func ingestCommand() *cli.Command {
	var (
		cfg       config
		file      string
		chunkSize int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Path to the document to ingest",
			Destination: &file,
			Required:    true,
		},
		&cli.IntFlag{
			Name:        "chunk-size",
			Usage:       "Maximum chunk length in bytes",
			Value:       int64(memory.DefaultChunkSize),
			Sources:     cli.EnvVars("AURA_CHUNK_SIZE"),
			Destination: &chunkSize,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, memoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Split a document into chunks and commit them to memory",
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

			n, err := ingest.File(ctx, mem, file, int(chunkSize))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Ingested %s as %d chunk(s)\n", file, n)
			return nil
		},
	}
}
