package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lepinkainen/mixdl/internal/fetch"
	"github.com/lepinkainen/mixdl/internal/fileutil"
	"github.com/lepinkainen/mixdl/internal/frontmatter"
	"github.com/lepinkainen/mixdl/internal/tracklist"
)

const (
	// NoteFileName is the run note written into the destination folder.
	NoteFileName = "mixdl-report.md"
	// JSONFileName is the optional machine-readable report.
	JSONFileName = "mixdl-report.json"

	noteType = "mixdl-run"
)

type noteQuery struct {
	DisplayName string       `yaml:"display_name"`
	SearchText  string       `yaml:"search_text"`
	Status      fetch.Status `yaml:"status"`
	Detail      string       `yaml:"detail,omitempty"`
	Locator     string       `yaml:"locator,omitempty"`
}

type noteHeader struct {
	Type        string      `yaml:"type"`
	RunID       string      `yaml:"run_id"`
	Source      string      `yaml:"source"`
	SourceTitle string      `yaml:"source_title,omitempty"`
	Tracklist   string      `yaml:"tracklist,omitempty"`
	Destination string      `yaml:"destination"`
	StartedAt   time.Time   `yaml:"started_at"`
	FinishedAt  time.Time   `yaml:"finished_at"`
	Interrupted bool        `yaml:"interrupted"`
	NoTracklist bool        `yaml:"no_tracklist,omitempty"`
	Total       int         `yaml:"total"`
	Downloaded  int         `yaml:"downloaded"`
	NoMatch     int         `yaml:"no_match"`
	FetchFailed int         `yaml:"fetch_failed"`
	Queries     []noteQuery `yaml:"queries"`
}

// Note is a run note read back from disk.
type Note struct {
	RunID       string
	Source      string
	SourceTitle string
	Destination string
	// Pending are the queries that were not downloaded, in run order.
	Pending []tracklist.ResolvedQuery
}

// RenderNote builds the markdown note for a report.
func RenderNote(r *fetch.RunReport) ([]byte, error) {
	s := r.Summary()
	hdr := noteHeader{
		Type:        noteType,
		RunID:       r.RunID,
		Source:      r.Source,
		SourceTitle: r.SourceTitle,
		Tracklist:   r.Tracklist,
		Destination: r.Destination,
		StartedAt:   r.StartedAt.UTC(),
		FinishedAt:  r.FinishedAt.UTC(),
		Interrupted: r.Interrupted,
		NoTracklist: r.NoTracklist,
		Total:       s.Total + len(r.Skipped),
		Downloaded:  s.Downloaded,
		NoMatch:     s.NoMatch,
		FetchFailed: s.FetchFailed,
	}
	for _, o := range r.Outcomes {
		hdr.Queries = append(hdr.Queries, noteQuery{
			DisplayName: o.Query.DisplayName,
			SearchText:  o.Query.SearchText,
			Status:      o.Status,
			Detail:      o.Detail,
			Locator:     o.Locator,
		})
	}
	for _, q := range r.Skipped {
		hdr.Queries = append(hdr.Queries, noteQuery{DisplayName: q.DisplayName, SearchText: q.SearchText})
	}

	return frontmatter.Render(hdr, noteBody(r))
}

func noteBody(r *fetch.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Heading(r))
	if r.NoTracklist {
		b.WriteString("No tracklist found.\n")
		return b.String()
	}
	for _, o := range r.Outcomes {
		box := " "
		if o.Status == fetch.StatusDownloaded {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", box, o.Query.DisplayName)
		if o.Status != fetch.StatusDownloaded {
			fmt.Fprintf(&b, " (%s)", StatusLabel(o.Status))
		}
		b.WriteString("\n")
	}
	for _, q := range r.Skipped {
		fmt.Fprintf(&b, "- [ ] %s (not attempted)\n", q.DisplayName)
	}
	b.WriteString("\n" + SummaryLine(r) + "\n")
	return b.String()
}

// WriteNote writes the note for r to path, replacing any previous note.
func WriteNote(r *fetch.RunReport, path string) error {
	content, err := RenderNote(r)
	if err != nil {
		return err
	}
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report note: %w", err)
	}
	return nil
}

// WriteJSON writes r as indented JSON to path, replacing any previous report.
func WriteJSON(r *fetch.RunReport, path string) error {
	_, err := fileutil.WriteJSONFile(r, path, true)
	return err
}

// ParseNote reads a run note produced by RenderNote.
// Queries without a status were never attempted and count as pending.
func ParseNote(content []byte) (*Note, error) {
	parsed, err := frontmatter.ParseMarkdown(content)
	if err != nil {
		return nil, err
	}
	if kind := parsed.GetString("type"); kind != noteType {
		return nil, fmt.Errorf("not a mixdl run note (type %q)", kind)
	}

	var hdr noteHeader
	if err := parsed.Decode(&hdr); err != nil {
		return nil, err
	}

	note := &Note{
		RunID:       hdr.RunID,
		Source:      hdr.Source,
		SourceTitle: hdr.SourceTitle,
		Destination: hdr.Destination,
	}
	for _, q := range hdr.Queries {
		if q.Status == fetch.StatusDownloaded {
			continue
		}
		if strings.TrimSpace(q.SearchText) == "" {
			continue
		}
		note.Pending = append(note.Pending, tracklist.ResolvedQuery{
			DisplayName: q.DisplayName,
			SearchText:  q.SearchText,
		})
	}
	return note, nil
}

// ReadNote reads and parses the note at path.
func ReadNote(path string) (*Note, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report note: %w", err)
	}
	note, err := ParseNote(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return note, nil
}
