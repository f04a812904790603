package main

import (
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/pipe-fittings/cmdconfig"
)

func lambdaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function triggered by S3 notifications",
		Run:   runLambdaCmd,
	}

	cmdconfig.OnCmd(cmd).
		AddStringFlag(flagConfig, "", "Path of the HCL config file")

	return cmd
}

func runLambdaCmd(cmd *cobra.Command, _ []string) {
	h, err := newHandler(cmd.Context(), viper.GetString(flagConfig))
	if err != nil {
		slog.Error("Failed to initialize handler", "error", err)
		exitCode = 1
		return
	}
	defer h.Store.Close()

	// lambda.Start does not return
	lambda.Start(h.HandleS3Event)
}
