package tracklist

import (
	"regexp"
	"strings"
)

// timestampLine matches an optional list marker ("1.", "2)", "#3"), a
// timestamp (M:SS, MM:SS, H:MM:SS, HH:MM:SS), whitespace, and the title.
var timestampLine = regexp.MustCompile(`^[\s\p{Zs}]*(?:(?:\d{1,3}[.)]|#\d{1,3})[\s\p{Zs}]*)?\d{1,2}:\d{2}(?::\d{2})?[\s\p{Zs}]+(.+)$`)

// ExtractFromText returns one candidate per timestamp-prefixed line, in line order.
// Lines without a leading timestamp are ignored.
func ExtractFromText(text string) []TrackCandidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var candidates []TrackCandidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		m := timestampLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}
		candidates = append(candidates, TrackCandidate{
			RawTitle: title,
			Source:   SourceDescription,
			Index:    len(candidates),
		})
	}
	return candidates
}
