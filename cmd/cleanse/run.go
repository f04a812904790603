package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/pipe-fittings/cmdconfig"
	"github.com/turbot/tailpipe-cleanse/handler"
	"github.com/turbot/tailpipe-cleanse/rate_limiter"
	"golang.org/x/sync/errgroup"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run KEY [KEY...]",
		Short: "Process one or more objects from a bucket",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRunCmd,
	}

	cmdconfig.OnCmd(cmd).
		AddStringFlag(flagConfig, "", "Path of the HCL config file").
		AddStringFlag(flagBucket, "", "Bucket containing the objects")

	return cmd
}

func runRunCmd(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	bucket := viper.GetString(flagBucket)
	if bucket == "" {
		fmt.Println("'bucket' must be specified.")
		exitCode = 1
		return
	}

	h, err := newHandler(ctx, viper.GetString(flagConfig))
	if err != nil {
		slog.Error("Failed to initialize handler", "error", err)
		exitCode = 1
		return
	}
	defer h.Store.Close()

	limiter := rate_limiter.NewLimiter(h.Config.BatchLimiter())
	results := make([]*handler.InvocationResult, len(args))
	var failedMut sync.Mutex
	failed := 0

	// invocations are independent, so a failure does not cancel the others
	g, gCtx := errgroup.WithContext(ctx)
	for i, key := range args {
		g.Go(func() error {
			return limiter.Do(gCtx, func(ctx context.Context) error {
				res, err := h.Handle(ctx, handler.Trigger{Bucket: bucket, Key: key})
				results[i] = res
				if err != nil {
					failedMut.Lock()
					failed++
					failedMut.Unlock()
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("Batch interrupted", "error", err)
		exitCode = 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		slog.Error("Failed to write results", "error", err)
		exitCode = 1
	}
	if failed > 0 {
		slog.Error("Some objects failed", "failed", failed, "total", len(args))
		exitCode = 1
	}
}
