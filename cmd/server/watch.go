package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Grade transcripts dropped into an inbox directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := newLogger()
		a, err := newApplication(ctx, log, false)
		if err != nil {
			log.Error("starting the watcher", zap.Error(err))
			return err
		}
		defer a.Close()

		wc := a.cfg.Watcher
		inbox := watcher.NewInbox(wc.InboxDir, wc.Extensions, wc.Debounce, func(ctx context.Context, path string) error {
			res, err := a.transcripts.ProcessFile(ctx, path, wc.Position)
			if err != nil {
				return err
			}
			log.Info("transcript graded",
				zap.String("file", path),
				zap.String("session_id", res.Report.SessionID),
				zap.String("status", res.Report.Status),
			)
			return nil
		}, log.Named("watcher"))

		return inbox.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("dir", "", "inbox directory (default ./inbox)")
	watchCmd.Flags().String("position", "", "position recorded for graded sessions")
	_ = viper.BindPFlag("watch_dir", watchCmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("watch_position", watchCmd.Flags().Lookup("position"))
}
