// Package tracklist turns mix metadata into an ordered list of search queries.
//
// Extraction is a fixed priority chain: timestamped description lines, then
// chapter titles, then caption/music metadata. The first source that yields
// anything is used exclusively.
package tracklist

// Source identifies where a candidate title was extracted from.
type Source int

const (
	SourceDescription Source = iota
	SourceChapters
	SourceMusicMetadata
	SourcePlaylist
)

func (s Source) String() string {
	switch s {
	case SourceDescription:
		return "description"
	case SourceChapters:
		return "chapters"
	case SourceMusicMetadata:
		return "music_metadata"
	case SourcePlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// TrackCandidate is a not-yet-normalized track title.
type TrackCandidate struct {
	RawTitle string
	Source   Source
	Index    int
}

// ResolvedQuery is a normalized candidate ready for searching.
type ResolvedQuery struct {
	// DisplayName is used for filenames and logging
	DisplayName string `json:"display_name" yaml:"display_name"`
	// SearchText is sent to the search provider
	SearchText string `json:"search_text" yaml:"search_text"`
}

// Chapter is a single chapter marker of a video.
type Chapter struct {
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// CaptionEntry is one keyed entry of the caption/music metadata block.
type CaptionEntry struct {
	Key   string
	Title string
}
