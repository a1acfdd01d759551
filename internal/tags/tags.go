// Package tags provides tag metadata extraction for audio files.
// It consolidates metadata reading for the MP3, FLAC and M4A formats.
package tags

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
)

// Codec identifies the container format of an audio file.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecMP3
	CodecFLAC
	CodecM4A
)

// String returns the display name of the codec.
func (c Codec) String() string {
	switch c {
	case CodecMP3:
		return "MP3"
	case CodecFLAC:
		return "FLAC"
	case CodecM4A:
		return "M4A"
	}
	return "?"
}

// CodecForPath returns the codec implied by the file extension.
// Returns CodecUnknown for unsupported extensions.
func CodecForPath(path string) Codec {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		// Dotfiles like ".mp3" have no extension, only a hidden name
		return CodecUnknown
	}
	switch strings.ToLower(ext) {
	case ExtMP3:
		return CodecMP3
	case ExtFLAC:
		return CodecFLAC
	case ExtM4A:
		return CodecM4A
	}
	return CodecUnknown
}

// IsAudioFile reports whether the path has a supported audio extension.
func IsAudioFile(path string) bool {
	return CodecForPath(path) != CodecUnknown
}

// Tag contains the metadata extracted from a single audio file.
// Fields left at their zero value were absent from the file.
type Tag struct {
	Path        string
	Codec       Codec
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string

	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	Duration time.Duration
}

// parseNumberPair parses a track/disc number that may be "N" or "N/M" format.
func parseNumberPair(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	if idx := strings.Index(s, "/"); idx > 0 {
		num, _ = strconv.Atoi(s[:idx])
		total, _ = strconv.Atoi(s[idx+1:])
		return num, total
	}
	num, _ = strconv.Atoi(s)
	return num, 0
}

// taglibTags wraps a taglib result map with helper methods.
// This reduces duplication across format-specific readers.
type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// getInt returns the first value as an integer, or 0 if not found or invalid.
func (t taglibTags) getInt(keys ...string) int {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			if n, err := strconv.Atoi(values[0]); err == nil {
				return n
			}
		}
	}
	return 0
}

// parseTaglibNumberPair parses a taglib track/disc value that may be "N" or "N/M".
func (t taglibTags) parseTaglibNumberPair(key string) (num, total int) {
	return parseNumberPair(t.get(key))
}
