package main

import (
	"context"
	"fmt"

	"github.com/doumiao/listsync/internal/formatter"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList lists recent sync outcomes.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.historyRepo()
	if err != nil {
		return err
	}
	defer closeDB()

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if target := cmd.String("target"); target != "" {
		criteria["target"] = target
	}
	if backend := cmd.String("backend"); backend != "" {
		criteria["backend"] = backend
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(runs) == 0 {
		return r.writePlain("No sync history recorded yet.\n")
	}

	if cmd.Bool("csv") {
		data, err := formatter.HistoryToCSV(runs)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	_, err = r.output.Write(formatter.HistoryToText(runs))
	return err
}

// HistoryShow shows every row of one run.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	runID := cmd.StringArg("run-id")
	if runID == "" {
		return fmt.Errorf("%w: run-id argument is required", shared.ErrMissingArgument)
	}

	repo, closeDB, err := r.historyRepo()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := repo.ListByRunID(runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if len(runs) == 0 {
		return r.writePlain("No rows for run %s.\n", runID)
	}

	r.writePlainHeader(fmt.Sprintf("Run %s (%s)", runID, runs[0].CreatedAt().Format("2006-01-02 15:04")))
	_, err = r.output.Write(formatter.HistoryToText(runs))
	return err
}
