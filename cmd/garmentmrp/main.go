package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/garmentmrp/pkg/infrastructure/auth"
	"github.com/vsinha/garmentmrp/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	// Command line flags
	var (
		scenarioFile  = flag.String("scenario", "", "Path to YAML scenario file")
		suppliersFile = flag.String("suppliers", "", "Path to suppliers CSV file")
		configFile    = flag.String("config", "", "Path to config file (optional)")
		outputDir     = flag.String("output", "", "Output directory for results (optional)")
		format        = flag.String("format", "text", "Output format: text, json, csv")
		verbose       = flag.Bool("verbose", false, "Enable verbose output")
		serve         = flag.Bool("serve", false, "Run the HTTP API")
		token         = flag.String("token", "", "Print an API token for this subject and exit")
		role          = flag.String("role", string(auth.RoleOperator), "Role of the minted token: admin, operator")
		help          = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioFile:  *scenarioFile,
		SuppliersFile: *suppliersFile,
		ConfigFile:    *configFile,
		OutputDir:     *outputDir,
		Format:        *format,
		Verbose:       *verbose,
		Help:          *help,
	}

	var cmd command
	switch {
	case *token != "":
		cmd = commands.NewTokenCommand(*configFile, *token, auth.Role(*role), os.Stdout)
	case *serve && !*help:
		cmd = commands.NewServeCommand(config)
	default:
		cmd = commands.NewPlanCommand(config)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
