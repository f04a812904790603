package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/go-kit/files"
	"github.com/turbot/pipe-fittings/cmdconfig"
	"github.com/turbot/tailpipe-cleanse/artifact_loader"
	"github.com/turbot/tailpipe-cleanse/errhandling"
	"github.com/turbot/tailpipe-cleanse/handler"
	"github.com/turbot/tailpipe-cleanse/object_store"
)

// settleDelay is how long a file must be unchanged before it is processed
const settleDelay = 500 * time.Millisecond

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process CSV files as they are written to a local directory",
		Run:   runWatchCmd,
	}

	cmdconfig.OnCmd(cmd).
		AddStringFlag(flagConfig, "", "Path of the HCL config file").
		AddStringFlag(flagRoot, ".", "Root directory of the file store").
		AddStringFlag(flagBucket, "", "Directory under the root to watch for new files")

	return cmd
}

func runWatchCmd(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	root := viper.GetString(flagRoot)
	bucket := viper.GetString(flagBucket)
	if root == "" || bucket == "" {
		fmt.Println("Both 'root' and 'bucket' must be specified.")
		exitCode = 1
		return
	}

	h, err := newHandler(ctx, viper.GetString(flagConfig))
	if err != nil {
		slog.Error("Failed to initialize handler", "error", err)
		exitCode = 1
		return
	}
	// the watched directory is always read through a file store
	store, err := object_store.NewFileStore(root)
	if err != nil {
		slog.Error("Failed to create file store", "error", err)
		exitCode = 1
		return
	}
	h.Store = store

	dir, err := store.BucketPath(bucket)
	if err != nil || !files.DirectoryExists(dir) {
		slog.Error("Watch directory does not exist", "root", root, "bucket", bucket)
		exitCode = 1
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("Failed to create watcher", "error", err)
		exitCode = 1
		return
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		slog.Error("Failed to watch directory", "dir", dir, "error", err)
		exitCode = 1
		return
	}
	slog.Info("Watching for files", "dir", dir)

	var timersMut sync.Mutex
	timers := make(map[string]*time.Timer)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if !isInputFile(name) {
				continue
			}

			timersMut.Lock()
			if t, exists := timers[name]; exists {
				t.Stop()
			}
			timers[name] = time.AfterFunc(settleDelay, func() {
				timersMut.Lock()
				delete(timers, name)
				timersMut.Unlock()

				_, err := h.Handle(ctx, handler.Trigger{Bucket: bucket, Key: name})
				switch {
				case errhandling.IsNotFound(err):
					// removed or renamed before it settled
					slog.Debug("File no longer exists", "file", name)
				case err != nil:
					slog.Error("Failed to process file", "file", name, "error", err)
				}
			})
			timersMut.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}

// isInputFile returns whether a file dropped into the watched directory should be processed:
// csv files, optionally gzip compressed, which are not hidden (the file store's temp files
// are hidden) and are not cleaned output
func isInputFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	lower := strings.ToLower(artifact_loader.Factory.GetLoader(name).TrimExtension(name))
	return strings.HasSuffix(lower, ".csv") && !strings.HasSuffix(lower, "_cleaned.csv")
}
