package csvutil

import (
	"errors"
	"fmt"
	"strings"
)

// Column names accepted for track exports, compared case-insensitively.
// "Track Name" and "Artist Name(s)" are what playlist exporters write.
var (
	titleColumns  = []string{"track name", "title", "track", "name", "song"}
	artistColumns = []string{"artist name(s)", "artist names", "artist", "artists", "artist name"}
)

var errBlankTitle = errors.New("blank track title")

// ReadTrackTitles reads a playlist export and returns one "Artist - Title"
// string per row. Only the first of several comma separated artists is kept.
// Rows without a title are skipped.
func ReadTrackTitles(filename string) ([]string, error) {
	titleIdx, artistIdx := -1, -1

	opts := ProcessorOptions{
		// Exports sometimes carry ragged rows.
		FieldsPerRecord: -1,
		SkipInvalid:     true,
		OnHeader: func(header []string) error {
			titleIdx = columnIndex(header, titleColumns)
			artistIdx = columnIndex(header, artistColumns)
			if titleIdx < 0 {
				return fmt.Errorf("no track title column in %s (want one of %s)", filename, strings.Join(titleColumns, ", "))
			}
			return nil
		},
	}
	return ProcessCSV(filename, func(record []string) (string, error) {
		title := field(record, titleIdx)
		if title == "" {
			return "", errBlankTitle
		}
		artist := field(record, artistIdx)
		if first, _, ok := strings.Cut(artist, ","); ok {
			artist = strings.TrimSpace(first)
		}
		if artist == "" {
			return title, nil
		}
		return artist + " - " + title, nil
	}, opts)
}

func columnIndex(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
