package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/turbot/pipe-fittings/cmdconfig"
	"github.com/turbot/pipe-fittings/error_helpers"
	"github.com/turbot/pipe-fittings/utils"
)

var exitCode int

const (
	flagConfig = "config"
	flagBucket = "bucket"
	flagRoot   = "root"
)

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cleanse COMMAND [args]",
		Short: "Deduplicate, filter and enrich CSV files landing in object storage",
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			error_helpers.FailOnError(err)
		},
	}

	utils.LogTime("cmd.root.InitCmd start")
	defer utils.LogTime("cmd.root.InitCmd end")

	cmdconfig.OnCmd(rootCmd)

	rootCmd.AddCommand(
		lambdaCmd(),
		runCmd(),
		watchCmd(),
	)
	return rootCmd
}

func Execute() int {
	rootCmd := rootCommand()
	utils.LogTime("cmd.root.Execute start")
	defer utils.LogTime("cmd.root.Execute end")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		exitCode = -1
	}
	return exitCode
}
