// Package dash builds FFmpeg arguments for multi-representation MPEG-DASH output.
package dash

import (
	"errors"
	"strings"

	"github.com/agleyzer/streampack/internal/ffopt"
	"github.com/agleyzer/streampack/internal/format"
	"github.com/agleyzer/streampack/internal/representation"
)

var (
	// ErrNoRepresentations is returned when there is nothing to build.
	ErrNoRepresentations = errors.New("no representations")
	// ErrNoPath is returned when the output base path is blank.
	ErrNoPath = errors.New("output path is required")
)

// Config holds the options for one DASH output.
type Config struct {
	// Path is the output file path; its extension, if any, is replaced by .mpd.
	Path string
	// Format selects the codecs.
	Format format.Format
	// Representations is the ordered quality ladder.
	Representations representation.Ladder
	// IsVideo emits per-representation video size and bitrate mappings.
	IsVideo bool
	// Adaptation is passed to -adaptation_sets when set.
	Adaptation string
	// SegDuration is the segment duration in seconds.
	SegDuration float64
	// GenerateHLSPlaylist asks the muxer to also write HLS playlists.
	GenerateHLSPlaylist bool
	// UseTimeline enables SegmentTimeline in the manifest.
	UseTimeline bool
	// UseTemplate enables SegmentTemplate in the manifest.
	UseTemplate bool
	// InitSegName emits the init segment naming template.
	InitSegName bool
	// MediaSegName emits the media segment naming template.
	MediaSegName bool
	// Strict is the -strict level, always the final option.
	Strict string
	// AdditionalParams are appended verbatim to the shared option block.
	AdditionalParams ffopt.Options
}

// DefaultConfig returns a Config with the muxer defaults.
func DefaultConfig() Config {
	return Config{
		Format:      format.X264(),
		SegDuration: 10,
		Strict:      "-2",
	}
}

// Validate checks that the configuration can be built.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return ErrNoPath
	}

	if c.Representations.Empty() {
		return ErrNoRepresentations
	}

	return nil
}
