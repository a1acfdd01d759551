package tags

import (
	"strings"

	goflac "github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"
)

// readFLACWithTaglib reads FLAC metadata using TagLib as fallback when dhowden/tag fails.
func readFLACWithTaglib(path string) (*Tag, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(rawTags)

	trackNum, trackTotal := tags.parseTaglibNumberPair(taglib.TrackNumber)
	if trackTotal == 0 {
		trackTotal = tags.getInt("TRACKTOTAL", "TOTALTRACKS")
	}
	discNum, discTotal := tags.parseTaglibNumberPair(taglib.DiscNumber)
	if discTotal == 0 {
		discTotal = tags.getInt("DISCTOTAL", "TOTALDISCS")
	}

	return &Tag{
		Path:        path,
		Title:       tags.get(taglib.Title),
		Artist:      tags.get(taglib.Artist),
		AlbumArtist: tags.get(taglib.AlbumArtist),
		Album:       tags.get(taglib.Album),
		Genre:       tags.get(taglib.Genre),
		TrackNumber: trackNum,
		TotalTracks: trackTotal,
		DiscNumber:  discNum,
		TotalDiscs:  discTotal,
	}, nil
}

// readFLACExtendedTags fills track/disc numbering the generic probe misses.
// Vorbis comment names for totals vary between taggers (TRACKTOTAL vs
// TOTALTRACKS, DISCTOTAL vs TOTALDISCS).
func readFLACExtendedTags(path string, t *Tag) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return
	}

	var comments map[string]string
	for _, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			comments = parseVorbisComments(meta.Data)
			break
		}
	}
	if comments == nil {
		return
	}

	if t.TotalTracks == 0 {
		if n, _ := parseNumberPair(firstComment(comments, "TRACKTOTAL", "TOTALTRACKS")); n > 0 {
			t.TotalTracks = n
		}
	}
	if t.DiscNumber == 0 {
		t.DiscNumber, _ = parseNumberPair(comments["DISCNUMBER"])
	}
	if t.TotalDiscs == 0 {
		if n, _ := parseNumberPair(firstComment(comments, "DISCTOTAL", "TOTALDISCS")); n > 0 {
			t.TotalDiscs = n
		}
	}
}

// firstComment returns the first non-empty value among the given comment keys.
func firstComment(comments map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := comments[key]; v != "" {
			return v
		}
	}
	return ""
}

// parseVorbisComments parses raw Vorbis comment data into a map.
func parseVorbisComments(data []byte) map[string]string {
	comments := make(map[string]string)

	if len(data) < 4 {
		return comments
	}

	// Skip vendor string
	vendorLen := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
	pos := 4 + vendorLen
	if pos+4 > len(data) {
		return comments
	}

	// Read comment count
	commentCount := int(data[pos]) | int(data[pos+1])<<8 | int(data[pos+2])<<16 | int(data[pos+3])<<24
	pos += 4

	// Read each comment
	for i := 0; i < commentCount && pos+4 <= len(data); i++ {
		commentLen := int(data[pos]) | int(data[pos+1])<<8 | int(data[pos+2])<<16 | int(data[pos+3])<<24
		pos += 4

		if pos+commentLen > len(data) {
			break
		}

		comment := string(data[pos : pos+commentLen])
		pos += commentLen

		// Split on first '='
		if idx := strings.Index(comment, "="); idx > 0 {
			key := strings.ToUpper(comment[:idx])
			value := comment[idx+1:]
			comments[key] = value
		}
	}

	return comments
}
