package tags

import (
	"go.senan.xyz/taglib"
)

// readM4AWithTaglib reads M4A metadata using TagLib as fallback when dhowden/tag fails.
func readM4AWithTaglib(path string) (*Tag, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(rawTags)

	trackNum, trackTotal := tags.parseTaglibNumberPair(taglib.TrackNumber)
	discNum, discTotal := tags.parseTaglibNumberPair(taglib.DiscNumber)

	// Also check custom TOTALTRACKS/TOTALDISCS atoms if not in the number format
	if trackTotal == 0 {
		trackTotal = tags.getInt("TOTALTRACKS")
	}
	if discTotal == 0 {
		discTotal = tags.getInt("TOTALDISCS")
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
