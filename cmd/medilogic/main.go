package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/doeshing/medilogic/internal/infrastructure/cli"
	"github.com/doeshing/medilogic/internal/infrastructure/cli/commands"
)

func main() {
	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	ctx := context.Background()
	root := cli.NewRootCmd(cli.Options{Verbose: isVerbose()})

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("MEDILOGIC_DEBUG"), "1") || strings.EqualFold(os.Getenv("MEDILOGIC_DEBUG"), "true")
}
