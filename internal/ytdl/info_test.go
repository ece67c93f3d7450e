package ytdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/mixdl/internal/tracklist"
)

const mixJSON = `{
	"id": "vBCNlxFTkJk",
	"title": "Sunset Session 2024",
	"description": "Tracklist:\n00:00 Opener\n05:30 Second Track",
	"webpage_url": "https://www.youtube.com/watch?v=vBCNlxFTkJk",
	"thumbnail": "https://i.ytimg.com/vi/vBCNlxFTkJk/maxresdefault.webp",
	"uploader": "Some DJ",
	"chapters": [
		{"title": "Opener", "start_time": 0, "end_time": 330},
		{"title": "Second Track", "start_time": 330, "end_time": 600}
	],
	"automatic_captions": {
		"zz": {"title": "Last Key First"},
		"aa": {"title": "Second"},
		"en": [{"ext": "json3", "url": "https://example.invalid"}]
	}
}`

func TestParseVideoInfo(t *testing.T) {
	info, err := ParseVideoInfo([]byte(mixJSON))
	require.NoError(t, err)

	assert.Equal(t, "Sunset Session 2024", info.Title)
	assert.Equal(t, "Some DJ", info.Uploader)
	assert.Contains(t, info.Description, "05:30 Second Track")
	assert.Equal(t, []tracklist.Chapter{
		{Title: "Opener", StartTime: 0, EndTime: 330},
		{Title: "Second Track", StartTime: 330, EndTime: 600},
	}, info.Chapters)
	assert.Equal(t, "https://www.youtube.com/watch?v=vBCNlxFTkJk", info.Locator())
}

func TestCaptionMetadata_PreservesDocumentOrder(t *testing.T) {
	info, err := ParseVideoInfo([]byte(mixJSON))
	require.NoError(t, err)

	assert.Equal(t, CaptionMetadata{
		{Key: "zz", Title: "Last Key First"},
		{Key: "aa", Title: "Second"},
		{Key: "en", Title: ""},
	}, info.AutomaticCaptions)

	candidates := tracklist.ExtractFromCaptionMetadata(info.AutomaticCaptions)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Last Key First", candidates[0].RawTitle)
}

func TestCaptionMetadata_NullAndMissing(t *testing.T) {
	info, err := ParseVideoInfo([]byte(`{"title": "x", "automatic_captions": null}`))
	require.NoError(t, err)
	assert.Empty(t, info.AutomaticCaptions)

	info, err = ParseVideoInfo([]byte(`{"title": "x"}`))
	require.NoError(t, err)
	assert.Empty(t, info.AutomaticCaptions)
}

func TestCaptionMetadata_RejectsNonObject(t *testing.T) {
	_, err := ParseVideoInfo([]byte(`{"automatic_captions": [1, 2]}`))
	require.Error(t, err)
}

func TestParseVideoInfo_Errors(t *testing.T) {
	_, err := ParseVideoInfo([]byte("  \n"))
	require.Error(t, err)

	_, err = ParseVideoInfo([]byte("ERROR: not json"))
	require.Error(t, err)
}

func TestVideoInfo_Locator(t *testing.T) {
	testCases := []struct {
		name     string
		info     VideoInfo
		expected string
	}{
		{"webpage url wins", VideoInfo{ID: "a", URL: "https://x/1", WebpageURL: "https://x/2"}, "https://x/2"},
		{"http url", VideoInfo{ID: "a", URL: "https://x/1"}, "https://x/1"},
		{"bare id in url", VideoInfo{ID: "abc", URL: "abc"}, "https://www.youtube.com/watch?v=abc"},
		{"nothing", VideoInfo{}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.info.Locator())
		})
	}
}
