// Package main provides the ontology binary: operator tooling for the
// knowledge-graph engine. It migrates the schema and answers one-shot
// validation, path and neighborhood queries against a running database.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/signalgraph/ontology/internal/util"
	"github.com/signalgraph/ontology/pkg/logger"
	"github.com/signalgraph/ontology/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	}))

	root := &cobra.Command{
		Use:           "ontology",
		Short:         "Knowledge graph engine tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCommand(),
		newStatsCommand(),
		newValidateCommand(),
		newPathCommand(),
		newNeighborsCommand(),
		newSweepCommand(),
	)

	if err := root.Execute(); err != nil {
		logger.Error("Command failed", "err", err)
		os.Exit(1)
	}
}
