package tagging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAudio is long enough for the ID3 parser to decide there is no tag.
const fakeAudio = "\xff\xfb\x90\x00not really mpeg audio data"

func writeFakeTrack(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(fakeAudio), 0o644))
	return path
}

func TestMetaFromDisplayName(t *testing.T) {
	testCases := []struct {
		name     string
		expected TrackMeta
	}{
		{"Artist - Opener Extended Mix", TrackMeta{Artist: "Artist", Title: "Opener Extended Mix"}},
		{"Opener Extended Mix", TrackMeta{Title: "Opener Extended Mix"}},
		{" - Missing Artist", TrackMeta{Title: "- Missing Artist"}},
		{"A - B - C", TrackMeta{Artist: "A", Title: "B - C"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MetaFromDisplayName(tc.name))
		})
	}
}

func TestWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFakeTrack(t, dir, "Artist - Opener Extended Mix.mp3")
	cover := filepath.Join(dir, "cover.jpg")
	require.NoError(t, os.WriteFile(cover, []byte("\xff\xd8\xff\xe0fake jpeg"), 0o644))

	meta := MetaFromDisplayName("Artist - Opener Extended Mix")
	meta.Album = "Sunset Session 2024"
	meta.TrackNumber = 2
	meta.TrackTotal = 12
	meta.Comment = "https://www.youtube.com/watch?v=abc"
	meta.CoverPath = cover

	require.NoError(t, Write(path, meta))

	tags, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Opener Extended Mix", tags.Title)
	assert.Equal(t, "Artist", tags.Artist)
	assert.Equal(t, "Sunset Session 2024", tags.Album)
	assert.Equal(t, 2, tags.Track)
	assert.Equal(t, 12, tags.TrackTotal)
	assert.True(t, tags.HasCover)
}

func TestWrite_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFakeTrack(t, dir, "track.mp3")

	require.NoError(t, Write(path, TrackMeta{Title: "First", TrackNumber: 1}))
	require.NoError(t, Write(path, TrackMeta{Title: "Second", TrackNumber: 3}))

	tags, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Second", tags.Title)
	assert.Equal(t, 3, tags.Track)
}

func TestWrite_MissingCover(t *testing.T) {
	path := writeFakeTrack(t, t.TempDir(), "track.mp3")

	err := Write(path, TrackMeta{Title: "x", CoverPath: filepath.Join(t.TempDir(), "none.jpg")})
	require.Error(t, err)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	second := writeFakeTrack(t, dir, "b.mp3")
	first := writeFakeTrack(t, dir, "a.mp3")
	untagged := writeFakeTrack(t, dir, "c.mp3")
	writeFakeTrack(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.mp3"), 0o755))

	require.NoError(t, Write(second, TrackMeta{Title: "Second", TrackNumber: 2}))
	require.NoError(t, Write(first, TrackMeta{Title: "First", TrackNumber: 1}))

	tracks, err := Scan(dir)
	require.NoError(t, err)

	require.Len(t, tracks, 3)
	assert.Equal(t, first, tracks[0].Path)
	assert.Equal(t, second, tracks[1].Path)
	assert.Equal(t, untagged, tracks[2].Path)
	assert.Empty(t, tracks[2].Title)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
