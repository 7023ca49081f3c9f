package formatter

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/doumiao/listsync/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// StatusLine renders a one-line colorized summary of an outcome for terminal
// display.
func StatusLine(outcome models.Outcome) string {
	target := styles.title.Render(fmt.Sprintf("%s -> %s", outcome.SourcePlaylist, outcome.Target))
	counts := styles.help.Render(fmt.Sprintf("matched=%d present=%d unmatchable=%d",
		len(outcome.Matched), len(outcome.AlreadyPresent), len(outcome.Unmatchable)))

	var status string
	switch {
	case outcome.MutationErr != nil:
		status = styles.err.Render("failed")
	case len(outcome.Unmatchable) > 0:
		status = styles.warn.Render("partial")
	default:
		status = styles.ok.Render("ok")
	}

	return fmt.Sprintf("%s %s %s", target, status, counts)
}
