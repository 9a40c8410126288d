package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/herd/pkg/adapters/fs"
	lifecycleadapter "github.com/aretw0/herd/pkg/adapters/lifecycle"
	"github.com/aretw0/herd/pkg/collection"
)

var watchBuffer int

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Reconcile the data files and print collection events as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src, err := openSource(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Loaded %d items from %d files\n", src.Collection().Len(), len(src.Files()))

		events := lifecycleadapter.NewSource(src.Collection(), watchBuffer)
		if err := events.Start(ctx); err != nil {
			return err
		}

		watcher := fs.NewWatcher(src.Root(), src.Pattern(), slog.Default())
		files, err := watcher.Watch(ctx)
		if err != nil {
			return err
		}
		slog.Info("watching", "dir", src.Root(), "pattern", src.Pattern())

		changes := events.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case fe, ok := <-files:
				if !ok {
					return nil
				}
				if fe.Removed {
					src.Forget(fe.Path)
					continue
				}
				if err := src.Reload(fe.Path); err != nil {
					slog.Error("failed to reload", "file", fe.Path, "error", err)
				}
			case e, ok := <-changes:
				if !ok {
					return ctxErr(ctx)
				}
				fmt.Fprintln(out, e)
			}
		}
	},
}

// ctxErr hides the cancellation caused by an interrupt.
func ctxErr(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("event stream closed")
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVar(&watchBuffer, "buffer", collection.DefaultEventBuffer, "Events buffered before new ones are dropped")
}
