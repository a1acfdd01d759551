// Package musicbrainz provides a client for the MusicBrainz API.
package musicbrainz

// Release represents a MusicBrainz release (album) returned by search.
type Release struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string // Extracted from artist-credit
	Date       string `json:"date"`
	Country    string `json:"country"`
	TrackCount int    // Sum of track counts from media
	DiscCount  int    // Number of discs/media
	Score      int    `json:"score"` // Search relevance score (0-100)
	Formats    string // CD, Vinyl, Digital, etc.
}

// searchResponse is the raw response from MusicBrainz release search.
type searchResponse struct {
	Releases []releaseResult `json:"releases"`
}

// releaseResult is a single release from search results.
type releaseResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Score        int            `json:"score"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Media        []medium       `json:"media"`
}

// artistCredit represents an artist contribution.
type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		SortName string `json:"sort-name"`
	} `json:"artist"`
	JoinPhrase string `json:"joinphrase"`
}

// medium represents a disc/medium in a release.
type medium struct {
	Position   int    `json:"position"`
	Format     string `json:"format"`
	TrackCount int    `json:"track-count"`
}
