package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/dto"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.json>",
	Short: "Grade one interview session from a JSON file and print the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readBatchRequest(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		log := newLogger()
		a, err := newApplication(ctx, log, false)
		if err != nil {
			log.Error("starting the batch", zap.Error(err))
			return err
		}
		defer a.Close()

		report, err := a.interviews.ProcessBatch(ctx, req)
		if report != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				return encErr
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func readBatchRequest(path string) (dto.BatchRequest, error) {
	var req dto.BatchRequest
	b, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(b, &req); err != nil {
		return req, fmt.Errorf("decode %s: %w", path, err)
	}
	if errs := req.Validate(); errs != nil {
		return req, fmt.Errorf("invalid batch file: %v", errs)
	}
	return req, nil
}
