package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errQueueDisabled = errors.New("RABBITMQ_URL is not set")

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Grade batches submitted through the RabbitMQ queue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := newLogger()
		a, err := newApplication(ctx, log, true)
		if err != nil {
			log.Error("starting the worker", zap.Error(err))
			return err
		}
		defer a.Close()

		if a.queue == nil {
			return errQueueDisabled
		}

		log.Info("worker consuming", zap.String("queue", a.cfg.RabbitMQ.Queue))
		err = a.queue.Consume(ctx, a.interviews.HandleJob)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
