// Package fetch drives the per-track search and download loop and records
// one outcome per resolved query.
package fetch

import (
	"time"

	"github.com/lepinkainen/mixdl/internal/tracklist"
)

// Status is the terminal state of one query.
type Status string

const (
	StatusDownloaded  Status = "downloaded"
	StatusNoMatch     Status = "no_match"
	StatusFetchFailed Status = "fetch_failed"
)

// DetailAlreadyPresent marks a track whose file existed before the run.
const DetailAlreadyPresent = "already present"

// Outcome records what happened to one query.
type Outcome struct {
	Query      tracklist.ResolvedQuery `json:"query" yaml:"query"`
	Status     Status                  `json:"status" yaml:"status"`
	Detail     string                  `json:"detail,omitempty" yaml:"detail,omitempty"`
	Locator    string                  `json:"locator,omitempty" yaml:"locator,omitempty"`
	OutputPath string                  `json:"output_path,omitempty" yaml:"output_path,omitempty"`
}

// RunReport is the authoritative record of one run.
type RunReport struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Source      string    `json:"source" yaml:"source"`
	SourceTitle string    `json:"source_title,omitempty" yaml:"source_title,omitempty"`
	Tracklist   string    `json:"tracklist,omitempty" yaml:"tracklist,omitempty"`
	Destination string    `json:"destination" yaml:"destination"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Interrupted bool      `json:"interrupted" yaml:"interrupted"`
	// NoTracklist is set when resolution found nothing and no fetch was attempted.
	NoTracklist bool      `json:"no_tracklist,omitempty" yaml:"no_tracklist,omitempty"`
	Outcomes    []Outcome `json:"outcomes" yaml:"outcomes"`
	// Skipped holds the queries an interrupted run never reached.
	Skipped []tracklist.ResolvedQuery `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Summary counts outcomes per status.
type Summary struct {
	Total       int `json:"total"`
	Downloaded  int `json:"downloaded"`
	NoMatch     int `json:"no_match"`
	FetchFailed int `json:"fetch_failed"`
}

// Summary tallies the report's outcomes.
func (r *RunReport) Summary() Summary {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusDownloaded:
			s.Downloaded++
		case StatusNoMatch:
			s.NoMatch++
		case StatusFetchFailed:
			s.FetchFailed++
		}
	}
	return s
}

// Pending returns the queries that did not end in a download, followed by
// the ones an interrupted run never reached.
func (r *RunReport) Pending() []tracklist.ResolvedQuery {
	var pending []tracklist.ResolvedQuery
	for _, o := range r.Outcomes {
		if o.Status != StatusDownloaded {
			pending = append(pending, o.Query)
		}
	}
	return append(pending, r.Skipped...)
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
