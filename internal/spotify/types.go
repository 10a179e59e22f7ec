// Package spotify talks to the Spotify Web API: top-track and playlist
// reads, the implicit-grant login and the static fallback documents.
package spotify

type Artist struct {
	Name string `json:"name"`
}

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track carries only the fields the halls use; unknown fields in API
// responses (markets, album artists) are dropped on decode.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PreviewURL string   `json:"preview_url"`
	DurationMs int      `json:"duration_ms"`
	Popularity int      `json:"popularity"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

// CoverURL is the album's first (largest) image, or "".
func (t *Track) CoverURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// ArtistName is the first credited artist, or "".
func (t *Track) ArtistName() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

type pagingTracks struct {
	Items []Track `json:"items"`
}

type playlistItem struct {
	Track *Track `json:"track"`
}

type pagingPlaylist struct {
	Items []playlistItem `json:"items"`
}
