package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/usecase/chat"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg       config
		historyID string
		localCtx  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "resume",
			Aliases:     []string{"r"},
			Usage:       "History ID of a conversation to continue",
			Sources:     cli.EnvVars("AURA_HISTORY_ID"),
			Destination: &historyID,
		},
		&cli.StringFlag{
			Name:        "context",
			Usage:       "Additional context prepended to the system prompt",
			Destination: &localCtx,
		},
		&cli.StringFlag{
			Name:        "language",
			Aliases:     []string{"l"},
			Usage:       "Language the assistant answers in",
			Sources:     cli.EnvVars("AURA_LANGUAGE"),
			Destination: &cfg.language,
		},
		&cli.StringFlag{
			Name:        "persona",
			Usage:       "System persona for the assistant",
			Sources:     cli.EnvVars("AURA_PERSONA"),
			Destination: &cfg.persona,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, providerFlags(&cfg)...)
	flags = append(flags, memoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive conversation with memory recall",
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

			manager, err := cfg.newProviderManager(ctx)
			if err != nil {
				return err
			}

			// mem.Close releases the shared repository client
			mem := cfg.newMemoryService(ctx, repo, storage)
			defer mem.Close()

			input := chat.NewInput{
				Repo:         repo,
				Provider:     manager,
				Memory:       mem,
				Storage:      storage,
				Persona:      cfg.persona,
				Language:     cfg.language,
				LocalContext: localCtx,
				UseMemory:    !cfg.noMemory,
			}
			if historyID != "" {
				id := model.HistoryID(historyID)
				input.HistoryID = &id
			}

			session, err := chat.New(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to create chat session")
			}

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Chat session started. Type 'exit' to quit.\n")
			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					continue
				}
				if err == io.EOF {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				message := strings.TrimSpace(line)
				if message == "" {
					continue
				}
				if message == "exit" {
					break
				}

				response, err := session.Send(ctx, message)
				if err != nil {
					return goerr.Wrap(err, "failed to send message")
				}
				fmt.Fprintf(c.Root().Writer, "%s\n", response)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed (history: %s)\n", session.History().ID)
			return nil
		},
	}
}
