package tracklist

import "strings"

// ExtractFromChapters returns one candidate per titled chapter.
func ExtractFromChapters(chapters []Chapter) []TrackCandidate {
	titles := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		titles = append(titles, ch.Title)
	}
	return fromTitles(titles, SourceChapters)
}

// ExtractFromCaptionMetadata returns one candidate per titled entry.
// Order follows the entries slice, which mirrors the order the metadata
// source delivered them in; it is not guaranteed to be chronological.
func ExtractFromCaptionMetadata(entries []CaptionEntry) []TrackCandidate {
	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, e.Title)
	}
	return fromTitles(titles, SourceMusicMetadata)
}

// ExtractFromPlaylist returns one candidate per playlist item title.
func ExtractFromPlaylist(titles []string) []TrackCandidate {
	return fromTitles(titles, SourcePlaylist)
}

// fromTitles skips blank titles so that every candidate yields a usable query.
func fromTitles(titles []string, source Source) []TrackCandidate {
	var candidates []TrackCandidate
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		candidates = append(candidates, TrackCandidate{
			RawTitle: t,
			Source:   source,
			Index:    len(candidates),
		})
	}
	return candidates
}
