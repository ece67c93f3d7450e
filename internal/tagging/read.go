package tagging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"
)

// audioExtensions are the files Scan looks at.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
}

// TrackTags is the tag summary of one audio file.
type TrackTags struct {
	Path       string
	Title      string
	Artist     string
	Album      string
	Track      int
	TrackTotal int
	Format     string
	HasCover   bool
}

// Read parses the tags of one file.
func Read(path string) (*TrackTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags of %s: %w", path, err)
	}

	track, total := m.Track()
	return &TrackTags{
		Path:       path,
		Title:      m.Title(),
		Artist:     m.Artist(),
		Album:      m.Album(),
		Track:      track,
		TrackTotal: total,
		Format:     string(m.Format()),
		HasCover:   m.Picture() != nil,
	}, nil
}

// Scan reads every audio file directly inside dir, ordered by track number
// then file name. Files without readable tags are returned with only Path set.
func Scan(dir string) ([]TrackTags, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var tracks []TrackTags
	for _, entry := range entries {
		if entry.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		t, err := Read(path)
		if err != nil {
			tracks = append(tracks, TrackTags{Path: path})
			continue
		}
		tracks = append(tracks, *t)
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].Track != tracks[j].Track {
			if tracks[i].Track == 0 || tracks[j].Track == 0 {
				return tracks[j].Track == 0
			}
			return tracks[i].Track < tracks[j].Track
		}
		return filepath.Base(tracks[i].Path) < filepath.Base(tracks[j].Path)
	})
	return tracks, nil
}
