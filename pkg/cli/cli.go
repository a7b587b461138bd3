package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "aura",
		Usage: "AI provider gateway with long-term memory",
		Commands: []*cli.Command{
			chatCommand(),
			ingestCommand(),
			queryCommand(),
			memoryCommand(),
			historyCommand(),
			synthesizeCommand(),
			intentCommand(),
			imagineCommand(),
			speakCommand(),
			statusCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
