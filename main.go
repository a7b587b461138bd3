package main

import (
	"context"
	"os"

	"github.com/aura-ai/aura/pkg/cli"
	"github.com/aura-ai/aura/pkg/utils/logging"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		logging.Default().Error(err.Message)
		os.Exit(err.Code)
	}
}
