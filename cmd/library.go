package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/lepinkainen/mixdl/internal/report"
	"github.com/lepinkainen/mixdl/internal/tagging"
)

// LibraryCmd lists the audio files of a download folder with their tags
type LibraryCmd struct {
	Dir string `arg:"" help:"Download folder of one set" type:"existingdir"`
}

func (l *LibraryCmd) Run() error {
	tracks, err := tagging.Scan(l.Dir)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		_, err := fmt.Fprintf(stdout, "No audio files in %s\n", l.Dir)
		return err
	}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		track := ""
		if t.Track > 0 {
			track = strconv.Itoa(t.Track)
		}
		cover := ""
		if t.HasCover {
			cover = "yes"
		}
		rows = append(rows, []string{track, t.Artist, t.Title, t.Album, cover, filepath.Base(t.Path)})
	}
	_, err = fmt.Fprintf(stdout, "%s\n%d files\n",
		report.RenderRows([]string{"#", "Artist", "Title", "Album", "Cover", "File"}, rows), len(tracks))
	return err
}
