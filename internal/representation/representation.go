// Package representation defines the quality tiers of an adaptive bitrate output.
package representation

import "fmt"

// Representation is a single encoded quality tier.
// Each representation becomes one DASH representation or one HLS variant stream.
type Representation struct {
	// Width is the output frame width in pixels
	Width int

	// Height is the output frame height in pixels
	Height int

	// VideoKbps is the target video bitrate in kilobits per second
	VideoKbps int

	// AudioKbps is the target audio bitrate in kilobits per second
	// Zero means no audio bitrate is declared for this tier
	AudioKbps int
}

// Size returns the frame size in the "WxH" form FFmpeg expects (e.g. "1280x720").
func (r Representation) Size() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// HasAudio reports whether the representation declares an audio bitrate.
func (r Representation) HasAudio() bool {
	return r.AudioKbps > 0
}

// String implements fmt.Stringer for log output.
func (r Representation) String() string {
	return fmt.Sprintf("%dp(%dk/%dk)", r.Height, r.VideoKbps, r.AudioKbps)
}

// Ladder is the ordered set of representations for one output.
// Order is significant: the index is used as a stream key and the last
// element is treated specially by the HLS builder.
type Ladder []Representation

// Last reports whether index i is the final representation.
func (l Ladder) Last(i int) bool {
	return i == len(l)-1
}

// Empty reports whether the ladder has no representations.
func (l Ladder) Empty() bool {
	return len(l) == 0
}

// Heights returns the heights of all representations in order.
func (l Ladder) Heights() []int {
	heights := make([]int, len(l))
	for i, r := range l {
		heights[i] = r.Height
	}
	return heights
}
