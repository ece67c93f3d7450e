package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
	"github.com/lepinkainen/mixdl/internal/report"
	"github.com/lepinkainen/mixdl/internal/tracklist"
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// TracklistCmd resolves a mix tracklist without searching or downloading
type TracklistCmd struct {
	URL  string `arg:"" help:"Mix video URL or ID"`
	JSON bool   `help:"Print the resolved queries as JSON"`
}

type tracklistOutput struct {
	Source    string                    `json:"source"`
	Title     string                    `json:"title"`
	Tracklist string                    `json:"tracklist,omitempty"`
	Queries   []tracklist.ResolvedQuery `json:"queries"`
}

func (t *TracklistCmd) Run(ctx context.Context) error {
	info, err := newMixSource().Info(ctx, t.URL)
	if err != nil {
		return err
	}

	out := tracklistOutput{Source: t.URL, Title: info.Title, Queries: []tracklist.ResolvedQuery{}}
	queries, src, err := newResolver().Resolve(info.TracklistInput())
	if err != nil && !mixerrors.IsNoTracklistError(err) {
		return err
	}
	if err == nil {
		out.Queries = queries
		out.Tracklist = src.String()
	}

	if t.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out.Queries) == 0 {
		_, err := fmt.Fprintf(stdout, "%s\nNo tracklist found\n", info.Title)
		return err
	}
	rows := make([][]string, 0, len(out.Queries))
	for i, q := range out.Queries {
		rows = append(rows, []string{strconv.Itoa(i + 1), q.DisplayName, q.SearchText})
	}
	_, err = fmt.Fprintf(stdout, "%s (%s)\n%s\n", info.Title, out.Tracklist,
		report.RenderRows([]string{"#", "File name", "Search"}, rows))
	return err
}
