package main

import (
	"context"
	"fmt"

	"github.com/doumiao/listsync/internal/charts"
	"github.com/doumiao/listsync/internal/formatter"
	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/repositories"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// ChartsMovie shows the real-time movie box office board.
func (r *Runner) ChartsMovie(ctx context.Context, cmd *cli.Command) error {
	client := charts.NewMaoyanClient("", r.httpClient)

	top := int(cmd.Int("top"))
	if top == 0 {
		top = r.config.Charts.Top
	}

	entries, err := client.MovieBoxOffice(ctx, top)
	if err != nil {
		return fmt.Errorf("failed to fetch box office board: %w", err)
	}

	if err := r.renderChart(cmd, "Maoyan Box Office", "movie", entries); err != nil {
		return err
	}
	return nil
}

// ChartsWeb shows the web-heat board for series.
func (r *Runner) ChartsWeb(ctx context.Context, cmd *cli.Command) error {
	client := charts.NewMaoyanClient("", r.httpClient)

	top := int(cmd.Int("top"))
	if top == 0 {
		top = r.config.Charts.Top
	}

	entries, err := client.WebHeat(ctx, r.config.Charts.SeriesTypes, r.config.Charts.Platform, top)
	if err != nil {
		return fmt.Errorf("failed to fetch web-heat board: %w", err)
	}

	if err := r.renderChart(cmd, "Maoyan Web Heat", "web", entries); err != nil {
		return err
	}
	return nil
}

// renderChart prints the board and optionally stores a snapshot, reporting
// entries that were not on the previous one.
func (r *Runner) renderChart(cmd *cli.Command, title, category string, entries []models.ChartEntry) error {
	switch cmd.String("format") {
	case "csv":
		data, err := formatter.ChartToCSV(entries)
		if err != nil {
			return err
		}
		r.output.Write(data)
	case "markdown":
		r.output.Write(formatter.ChartToMarkdown(title, entries))
	case "text":
		r.output.Write(formatter.ChartToText(title, entries))
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, cmd.String("format"))
	}

	if !cmd.Bool("save") {
		return nil
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewChartSnapshotRepository(db)

	previous, err := repo.Latest(category)
	if err != nil {
		return fmt.Errorf("failed to load previous snapshot: %w", err)
	}

	if err := repo.Create(models.NewChartSnapshot(category, entries)); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	r.logger.Info("snapshot stored", "category", category, "entries", len(entries))

	var previousEntries []models.ChartEntry
	if previous != nil {
		previousEntries = previous.Entries()
	}
	fresh := charts.NewEntrants(entries, previousEntries)
	if len(fresh) > 0 {
		r.writePlain("\nNew entrants since last snapshot:\n")
		for _, entry := range fresh {
			r.writePlain("  + %s\n", entry.Title)
		}
	} else if previous != nil {
		r.writePlain("\nNo new entrants since last snapshot.\n")
	}

	return nil
}
