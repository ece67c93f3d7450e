package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/mixdl/internal/deps"
	"github.com/lepinkainen/mixdl/internal/report"
	"github.com/lepinkainen/mixdl/internal/ytdl"
)

var (
	checkBinaries = func() []deps.Status { return deps.CheckBinaries(deps.DefaultRequirements()) }
	installYTDLP  = ytdl.Install
)

// DoctorCmd checks the external binaries downloads depend on
type DoctorCmd struct {
	Install bool `help:"Download yt-dlp when it is not on PATH"`
}

func (d *DoctorCmd) Run(ctx context.Context) error {
	statuses := checkBinaries()

	if d.Install {
		for i, s := range statuses {
			if s.Name != "yt-dlp" || s.Available {
				continue
			}
			slog.Info("Installing yt-dlp")
			if err := installYTDLP(ctx); err != nil {
				return err
			}
			statuses[i].Available = true
			statuses[i].Detail = "installed into the user cache"
		}
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "ok"
		if !s.Available {
			state = "missing"
			if s.Optional {
				state = "missing (optional)"
			}
		}
		detail := s.Detail
		if detail == "" {
			detail = s.Path
		}
		rows = append(rows, []string{s.Name, state, s.Description, detail})
	}
	if _, err := fmt.Fprintln(stdout, report.RenderRows([]string{"Binary", "Status", "Used for", "Detail"}, rows)); err != nil {
		return err
	}

	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
	}
	return nil
}
