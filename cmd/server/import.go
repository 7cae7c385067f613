package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import reference questions from a csv, json, yaml or xlsx file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reindex, _ := cmd.Flags().GetBool("reindex")
		if len(args) == 0 && !reindex {
			return fmt.Errorf("a file is required unless --reindex is set")
		}

		ctx := cmd.Context()
		log := newLogger()
		a, err := newApplication(ctx, log, false)
		if err != nil {
			log.Error("starting the importer", zap.Error(err))
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			res, err := a.questions.ImportFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions, skipped %d\n", res.Imported, res.Skipped)
		}

		if reindex {
			n, err := a.questions.Reindex(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "embedded %d questions\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("reindex", false, "embed stored questions that have no embedding")
}
