package tags

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Read extracts tag metadata from an audio file.
// The primary probe is dhowden/tag; format-specific fallbacks cover files
// it cannot parse. An error means the file should be skipped.
func Read(path string) (*Tag, error) {
	codec := CodecForPath(path)
	if codec == CodecUnknown {
		return nil, fmt.Errorf("unsupported audio file: %s", path)
	}

	t, err := readProbe(path, codec)
	if err != nil {
		return nil, err
	}
	t.Codec = codec

	// FLAC files often carry track/disc totals under vendor-specific
	// comment names that the generic probe misses.
	if codec == CodecFLAC {
		readFLACExtendedTags(path, t)
	}

	if props, propErr := taglib.ReadProperties(path); propErr == nil {
		t.Duration = props.Length
	}

	return t, nil
}

func readProbe(path string, codec Codec) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		switch codec {
		case CodecMP3:
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2Fallback(path)
		case CodecFLAC:
			// dhowden/tag can fail on some FLAC files
			return readFLACWithTaglib(path)
		case CodecM4A:
			// dhowden/tag can't parse some M4A files (e.g., ffmpeg-created)
			return readM4AWithTaglib(path)
		}
		return nil, err
	}

	track, totalTracks := m.Track()
	disc, totalDiscs := m.Disc()

	return &Tag{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
	}, nil
}
