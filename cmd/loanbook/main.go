package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/cli"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/pkg/logger"
)

var (
	envFile = flag.String("env", "", "Path of a .env file. Defaults to ./.env when present.")
	verbose = flag.Bool("v", false, "Log debug diagnostics to stderr.")
)

func main() {
	cli.Completion().Complete("loanbook")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander)

	flag.Parse()

	if err := config.Load(cli.EnvPath(*envFile)); err != nil {
		fmt.Fprintf(os.Stderr, "loanbook: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	if err := logger.Configure(config.Get().LogEnv, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "loanbook: %v\n", err)
	}

	status := commander.Execute(context.Background())
	logger.Sync()
	os.Exit(int(status))
}
