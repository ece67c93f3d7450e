// Package tagging writes ID3 tags to downloaded tracks and reads tags back
// for library listings.
package tagging

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// TrackMeta is what gets written into a downloaded file.
type TrackMeta struct {
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	TrackTotal  int
	Comment     string
	CoverPath   string
}

// MetaFromDisplayName splits "Artist - Title" names. Names without the
// separator become the title only.
func MetaFromDisplayName(name string) TrackMeta {
	artist, title, ok := strings.Cut(name, " - ")
	if !ok || strings.TrimSpace(artist) == "" || strings.TrimSpace(title) == "" {
		return TrackMeta{Title: strings.TrimSpace(name)}
	}
	return TrackMeta{Artist: strings.TrimSpace(artist), Title: strings.TrimSpace(title)}
}

// Write replaces the ID3v2 frames mixdl manages in the file at path.
func Write(path string, meta TrackMeta) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open tag of %s: %w", path, err)
	}
	defer func() { _ = tag.Close() }()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}
	if meta.TrackNumber > 0 {
		value := strconv.Itoa(meta.TrackNumber)
		if meta.TrackTotal > 0 {
			value += "/" + strconv.Itoa(meta.TrackTotal)
		}
		tag.DeleteFrames(tag.CommonID("Track number/Position in set"))
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, value)
	}
	if meta.Comment != "" {
		tag.DeleteFrames(tag.CommonID("Comments"))
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "source",
			Text:        meta.Comment,
		})
	}
	if meta.CoverPath != "" {
		picture, err := os.ReadFile(meta.CoverPath)
		if err != nil {
			return fmt.Errorf("failed to read cover %s: %w", meta.CoverPath, err)
		}
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     picture,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tag of %s: %w", path, err)
	}
	return nil
}
