// package formatter renders sync outcomes, run history and chart boards to
// various formats (plain text, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/doumiao/listsync/internal/models"
)

// OutcomeToText renders one reconciliation outcome as a plain text report.
func OutcomeToText(outcome models.Outcome) []byte {
	var buf bytes.Buffer

	principal := string(outcome.Principal)
	if principal == "" {
		principal = "default"
	}

	buf.WriteString(fmt.Sprintf("Sync: %s/%s -> %s (%s, user %s)\n",
		outcome.Source, outcome.SourcePlaylist, outcome.Target, outcome.Backend, principal))
	buf.WriteString(fmt.Sprintf("Matched: %d  Already present: %d  Unmatchable: %d\n",
		len(outcome.Matched), len(outcome.AlreadyPresent), len(outcome.Unmatchable)))

	switch {
	case outcome.MutationErr != nil:
		buf.WriteString(fmt.Sprintf("Status: failed (%v)\n", outcome.MutationErr))
	case outcome.CreatedPlaylist:
		buf.WriteString("Status: playlist created\n")
	case outcome.Applied:
		buf.WriteString("Status: up to date\n")
	default:
		buf.WriteString("Status: preview only\n")
	}

	if len(outcome.Unmatchable) > 0 {
		buf.WriteString("\nUnmatchable tracks:\n")
		for i, track := range outcome.Unmatchable {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, track.Key))
		}
	}

	return buf.Bytes()
}

// HistoryToCSV converts history rows to CSV format with columns:
// RunID, Source, Playlist, Target, Backend, Principal, Matched, Present, Unmatchable, Created, Applied, Error, Time
func HistoryToCSV(runs []*models.SyncRun) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RunID", "Source", "Playlist", "Target", "Backend", "Principal",
		"Matched", "Present", "Unmatchable", "Created", "Applied", "Error", "Time"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		record := []string{
			run.RunID(),
			run.Source(),
			run.SourcePlaylist(),
			run.Target(),
			run.Backend(),
			run.Principal(),
			strconv.Itoa(run.MatchedCount()),
			strconv.Itoa(run.AlreadyPresentCount()),
			strconv.Itoa(run.UnmatchableCount()),
			strconv.FormatBool(run.CreatedPlaylist()),
			strconv.FormatBool(run.Applied()),
			run.ErrMsg(),
			run.CreatedAt().Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToText converts history rows to plain text format
func HistoryToText(runs []*models.SyncRun) []byte {
	var buf bytes.Buffer

	for i, run := range runs {
		status := "ok"
		if run.ErrMsg() != "" {
			status = "failed: " + run.ErrMsg()
		} else if !run.Applied() {
			status = "not applied"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s/%s -> %s (%s) matched=%d present=%d unmatchable=%d %s\n",
			i+1,
			run.CreatedAt().Format("2006-01-02 15:04"),
			run.Source(),
			run.SourcePlaylist(),
			run.Target(),
			run.Backend(),
			run.MatchedCount(),
			run.AlreadyPresentCount(),
			run.UnmatchableCount(),
			status,
		))
	}

	return buf.Bytes()
}

// ChartToText converts a chart board to plain text format
func ChartToText(title string, entries []models.ChartEntry) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s (%d entries)\n\n", title, len(entries)))
	for _, entry := range entries {
		line := fmt.Sprintf("%d. %s", entry.Rank, entry.Title)
		if entry.Metric != "" {
			line += fmt.Sprintf(" - %s", entry.Metric)
		}
		if entry.ReleaseInfo != "" {
			line += fmt.Sprintf(" (%s)", entry.ReleaseInfo)
		}
		if entry.Platform != "" {
			line += fmt.Sprintf(" [%s]", entry.Platform)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// ChartToMarkdown converts a chart board to a Markdown table
func ChartToMarkdown(title string, entries []models.ChartEntry) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString("| Rank | Title | Metric | Release | Platform |\n")
	buf.WriteString("| ---- | ----- | ------ | ------- | -------- |\n")
	for _, entry := range entries {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			entry.Rank, entry.Title, entry.Metric, entry.ReleaseInfo, entry.Platform))
	}

	return buf.Bytes()
}

// ChartToCSV converts a chart board to CSV format with columns: Rank, Title, Metric, Release, Platform
func ChartToCSV(entries []models.ChartEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Title", "Metric", "Release", "Platform"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			strconv.Itoa(entry.Rank),
			entry.Title,
			entry.Metric,
			entry.ReleaseInfo,
			entry.Platform,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
