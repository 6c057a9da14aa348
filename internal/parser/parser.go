// Package parser provides HLS master playlist parsing functionality.
package parser

import (
	"fmt"
	"io"

	"github.com/agleyzer/streampack/internal/variant"
	"github.com/grafov/m3u8"
	"github.com/spf13/afero"
)

// PlaylistInfo contains the parsed master playlist information.
type PlaylistInfo struct {
	// Version is the EXT-X-VERSION of the playlist
	Version uint8

	// Variants contains the variant streams in playlist order
	Variants []variant.Variant
}

// ParseMaster decodes a master playlist from r.
func ParseMaster(r io.Reader) (*PlaylistInfo, error) {
	playlist, listType, err := m3u8.DecodeFrom(r, true)
	if err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}

	if listType != m3u8.MASTER {
		return nil, fmt.Errorf("expected master playlist, got media playlist")
	}

	masterPlaylist, ok := playlist.(*m3u8.MasterPlaylist)
	if !ok {
		return nil, fmt.Errorf("unexpected playlist type")
	}

	if len(masterPlaylist.Variants) == 0 {
		return nil, fmt.Errorf("master playlist contains no variants")
	}

	var variants []variant.Variant
	for _, v := range masterPlaylist.Variants {
		if v == nil {
			continue
		}

		variants = append(variants, variant.Variant{
			Bandwidth:  int(v.Bandwidth),
			Resolution: v.Resolution,
			Name:       v.Name,
			URI:        v.URI,
		})
	}

	return &PlaylistInfo{
		Version:  masterPlaylist.Version(),
		Variants: variants,
	}, nil
}

// ParseFile opens and parses the master playlist at path.
func ParseFile(fs afero.Fs, path string) (*PlaylistInfo, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	return ParseMaster(f)
}
