package scanner

import (
	"path/filepath"
	"sort"

	"github.com/chmont/crate/internal/tags"
)

// Fallback values used when a file lacks the corresponding tag.
const (
	UnknownArtist     = "Unknown Artist"
	UnknownAlbum      = "Unknown Album"
	defaultTotalDiscs = 1
)

// Cluster groups audio files that likely belong to the same album release.
// All tracks share the same grouping key (base path, album artist, album,
// total discs). Clusters are never mutated after construction.
type Cluster struct {
	Album       string
	AlbumArtist string
	BasePath    string
	TotalDiscs  int
	Tracks      []tags.Tag
}

// TrackCount returns the number of tracks in the cluster.
func (c Cluster) TrackCount() int {
	return len(c.Tracks)
}

// Codec returns the codec shared by all tracks in the cluster.
// ok is false when the cluster mixes formats.
func (c Cluster) Codec() (codec tags.Codec, ok bool) {
	if len(c.Tracks) == 0 {
		return tags.CodecUnknown, false
	}
	codec = c.Tracks[0].Codec
	for _, t := range c.Tracks[1:] {
		if t.Codec != codec {
			return tags.CodecUnknown, false
		}
	}
	return codec, true
}

type clusterKey struct {
	basePath    string
	albumArtist string
	album       string
	totalDiscs  int
}

func keyForFile(f *tags.Tag) clusterKey {
	key := clusterKey{
		basePath:    filepath.Dir(f.Path),
		albumArtist: f.AlbumArtist,
		album:       f.Album,
		totalDiscs:  f.TotalDiscs,
	}
	if key.albumArtist == "" {
		key.albumArtist = UnknownArtist
	}
	if key.album == "" {
		key.album = UnknownAlbum
	}
	if key.totalDiscs == 0 {
		key.totalDiscs = defaultTotalDiscs
	}
	return key
}

// ClusterFiles groups files into album clusters by (parent directory,
// album artist, album, total discs). Within a cluster, tracks are sorted
// by (disc number, track number) with ties keeping input order. Output
// clusters appear in first-encounter order of their keys, so the result
// is deterministic for a given input sequence and the partition is
// lossless: every input file lands in exactly one cluster.
func ClusterFiles(files []tags.Tag) []Cluster {
	buckets := make(map[clusterKey][]tags.Tag)
	order := make([]clusterKey, 0, len(files))

	for i := range files {
		key := keyForFile(&files[i])
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], files[i])
	}

	clusters := make([]Cluster, 0, len(order))
	for _, key := range order {
		tracks := buckets[key]
		sort.SliceStable(tracks, func(i, j int) bool {
			di, dj := discOrDefault(&tracks[i]), discOrDefault(&tracks[j])
			if di != dj {
				return di < dj
			}
			return tracks[i].TrackNumber < tracks[j].TrackNumber
		})
		clusters = append(clusters, Cluster{
			Album:       key.album,
			AlbumArtist: key.albumArtist,
			BasePath:    key.basePath,
			TotalDiscs:  key.totalDiscs,
			Tracks:      tracks,
		})
	}
	return clusters
}

// discOrDefault treats a missing disc number as disc 1 so single-disc rips
// sort together with files that tag the disc explicitly.
func discOrDefault(t *tags.Tag) int {
	if t.DiscNumber == 0 {
		return 1
	}
	return t.DiscNumber
}
