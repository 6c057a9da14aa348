// Package hls builds FFmpeg arguments for multi-variant HTTP Live Streaming output.
package hls

import (
	"errors"
	"strings"

	"github.com/agleyzer/streampack/internal/ffopt"
	"github.com/agleyzer/streampack/internal/format"
	"github.com/agleyzer/streampack/internal/representation"
	"github.com/agleyzer/streampack/internal/segment"
)

var (
	// ErrNoRepresentations is returned when there is nothing to build.
	ErrNoRepresentations = errors.New("no representations")
	// ErrNoPath is returned when the output base path is blank.
	ErrNoPath = errors.New("output path is required")
)

// MasterPlaylistName is the master playlist the HLS muxer writes next to the variants.
const MasterPlaylistName = "master.m3u8"

// Config holds the options for one HLS output.
type Config struct {
	// Path is the output file path; its extension, if any, is replaced by .m3u8
	// for the master playlist and by _<height>p.m3u8 for variant playlists.
	Path string
	// Format selects the codecs.
	Format format.Format
	// Representations is the ordered quality ladder.
	Representations representation.Ladder
	// ListSize is the maximum number of playlist entries (0 keeps all).
	ListSize int
	// Time is the target segment duration in seconds.
	Time float64
	// AllowCache sets EXT-X-ALLOW-CACHE.
	AllowCache bool
	// SegmentType is mpegts or fmp4.
	SegmentType segment.Type
	// FMP4InitFilename is the suffix of each variant's fMP4 init file.
	FMP4InitFilename string
	// Strict is the -strict level closing each variant block.
	Strict string
	// Flags are joined with "+" into -hls_flags.
	Flags []string
	// KeyInfoFile enables segment encryption.
	KeyInfoFile string
	// BaseURL is prefixed to segment URIs in the playlists.
	BaseURL string
	// SegSubDirectory places segments in a directory below the playlists.
	SegSubDirectory string
	// AudioStreamCount is the number of input audio streams mapped per variant.
	AudioStreamCount int
	// AdditionalParams are appended verbatim to each variant block.
	AdditionalParams ffopt.Options
}

// DefaultConfig returns a Config with the muxer defaults.
func DefaultConfig() Config {
	return Config{
		Format:           format.X264(),
		Time:             10,
		AllowCache:       true,
		SegmentType:      segment.MPEGTS,
		FMP4InitFilename: "init.mp4",
		Strict:           "-2",
		AudioStreamCount: 1,
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
