// Package report renders run reports for the terminal and persists them as
// JSON and as markdown notes that a later run can read back.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/lepinkainen/mixdl/internal/fetch"
)

var (
	downloadedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	noMatchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headingStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
)

// ShouldColorize reports whether w is a terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Print writes the outcome table followed by the summary line.
func Print(w io.Writer, r *fetch.RunReport) error {
	colorize := ShouldColorize(w)
	out := ""
	if title := Heading(r); title != "" {
		if colorize {
			title = headingStyle.Render(title)
		}
		out += title + "\n"
	}
	if len(r.Outcomes) > 0 {
		out += RenderTable(r, colorize) + "\n"
	}
	out += SummaryLine(r) + "\n"
	_, err := io.WriteString(w, out)
	return err
}

// Heading names the run's source for display.
func Heading(r *fetch.RunReport) string {
	switch {
	case r.SourceTitle != "":
		return r.SourceTitle
	default:
		return r.Source
	}
}

// RenderTable renders one row per outcome.
func RenderTable(r *fetch.RunReport, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Track", "Status", "Detail"})

	for i, o := range r.Outcomes {
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			o.Query.DisplayName,
			statusCell(o.Status, colorize),
			o.Detail,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, WidthMax: 60},
		{Number: 4, WidthMax: 50},
	})
	return tw.Render()
}

// SummaryLine is a one-line tally of the run.
func SummaryLine(r *fetch.RunReport) string {
	if r.NoTracklist {
		return "No tracklist found, nothing to download"
	}
	s := r.Summary()
	line := fmt.Sprintf("%d tracks: %d downloaded, %d no match, %d failed",
		s.Total, s.Downloaded, s.NoMatch, s.FetchFailed)
	if r.Interrupted {
		line += fmt.Sprintf(" (interrupted, %d not attempted)", len(r.Skipped))
	}
	if d := r.Duration(); d > 0 {
		line += fmt.Sprintf(" in %s", d.Round(time.Second))
	}
	return line
}

func statusCell(s fetch.Status, colorize bool) string {
	label := StatusLabel(s)
	if !colorize {
		return label
	}
	switch s {
	case fetch.StatusDownloaded:
		return downloadedStyle.Render(label)
	case fetch.StatusNoMatch:
		return noMatchStyle.Render(label)
	case fetch.StatusFetchFailed:
		return failedStyle.Render(label)
	}
	return label
}

// StatusLabel is the human-readable form of a status.
func StatusLabel(s fetch.Status) string {
	switch s {
	case fetch.StatusDownloaded:
		return "downloaded"
	case fetch.StatusNoMatch:
		return "no match"
	case fetch.StatusFetchFailed:
		return "failed"
	default:
		return string(s)
	}
}

// RenderRows renders a plain table; short rows are padded.
func RenderRows(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
