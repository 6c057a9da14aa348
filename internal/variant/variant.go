// Package variant defines data structures for HLS variant streams in master playlists.
package variant

// Variant represents a single variant stream in an HLS master playlist.
// Each variant corresponds to one representation of the output ladder.
type Variant struct {
	// Bandwidth is the declared peak bitrate in bits per second
	Bandwidth int

	// Resolution is the video resolution (e.g., "1920x1080", "1280x720")
	// Empty string if not specified in master playlist
	Resolution string

	// Name is the NAME attribute, the representation height for generated playlists
	Name string

	// URI is the variant's media playlist, relative to the master playlist
	URI string
}
