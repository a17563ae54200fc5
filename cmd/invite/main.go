package main

import (
	"fmt"
	"os"
	"recipe_memo/internal/cli"
	"recipe_memo/internal/platform/config"
)

func main() {
	cfg := config.Load()

	cmd := cli.NewRootCommand(cfg.DatabasePath)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
