package ytdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lepinkainen/mixdl/internal/tracklist"
)

const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

// VideoInfo is the subset of yt-dlp's info JSON the pipeline reads.
// Search results arrive as the Entries of a playlist-shaped object.
type VideoInfo struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	WebpageURL        string              `json:"webpage_url"`
	URL               string              `json:"url"`
	Thumbnail         string              `json:"thumbnail"`
	Uploader          string              `json:"uploader"`
	Duration          float64             `json:"duration"`
	Chapters          []tracklist.Chapter `json:"chapters"`
	AutomaticCaptions CaptionMetadata     `json:"automatic_captions"`
	Entries           []VideoInfo         `json:"entries"`
}

// Locator returns the canonical page URL of the item.
func (v VideoInfo) Locator() string {
	if v.WebpageURL != "" {
		return v.WebpageURL
	}
	if strings.HasPrefix(v.URL, "http://") || strings.HasPrefix(v.URL, "https://") {
		return v.URL
	}
	if v.ID != "" {
		return fmt.Sprintf(watchURLTemplate, v.ID)
	}
	return ""
}

// ParseVideoInfo decodes one --dump-single-json document.
func ParseVideoInfo(data []byte) (*VideoInfo, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty yt-dlp output")
	}
	var info VideoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp JSON: %w", err)
	}
	return &info, nil
}

// CaptionMetadata is the automatic_captions mapping decoded in document order.
type CaptionMetadata []tracklist.CaptionEntry

// UnmarshalJSON walks the object token by token so that key order survives.
// Values that are not objects with a title (e.g. caption format lists) are
// kept with an empty title and dropped later by the extractor.
func (c *CaptionMetadata) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("automatic_captions: expected object, got %v", tok)
	}

	var entries CaptionMetadata
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("automatic_captions[%s]: %w", key, err)
		}

		var item struct {
			Title string `json:"title"`
		}
		if len(raw) > 0 && raw[0] == '{' {
			if err := json.Unmarshal(raw, &item); err != nil {
				return fmt.Errorf("automatic_captions[%s]: %w", key, err)
			}
		}
		entries = append(entries, tracklist.CaptionEntry{Key: key, Title: item.Title})
	}

	*c = entries
	return nil
}
