// Package playlist generates the HLS master playlist for a multi-variant output.
package playlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agleyzer/streampack/internal/logging"
	"github.com/agleyzer/streampack/internal/representation"
	"github.com/agleyzer/streampack/internal/segment"
	"github.com/grafov/m3u8"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Master builds a master playlist with one variant per representation.
// Variant URIs point at the per-resolution playlists the HLS builder
// names, relative to the master playlist.
func Master(stem string, ladder representation.Ladder) (*m3u8.MasterPlaylist, error) {
	if ladder.Empty() {
		return nil, fmt.Errorf("cannot create master playlist with zero representations")
	}

	master := m3u8.NewMasterPlaylist()
	for _, rep := range ladder {
		master.Append(segment.VariantPlaylistName(stem, rep.Height), nil, m3u8.VariantParams{
			Bandwidth:  uint32(rep.VideoKbps * 1024),
			Resolution: rep.Size(),
			Name:       strconv.Itoa(rep.Height),
		})
	}

	return master, nil
}

// Generate returns the encoded master playlist.
func Generate(stem string, ladder representation.Ladder) (string, error) {
	master, err := Master(stem, ladder)
	if err != nil {
		return "", err
	}
	return master.Encode().String(), nil
}

// Writer writes master playlists through a filesystem.
type Writer struct {
	fs     afero.Fs
	logger hclog.Logger
}

// NewWriter creates a Writer. A nil logger discards output.
func NewWriter(fs afero.Fs, logger hclog.Logger) *Writer {
	return &Writer{fs: fs, logger: logging.OrDiscard(logger).Named("playlist")}
}

// Write encodes the master playlist for ladder and writes it to masterPath.
// Variant URIs are derived from the stem of masterPath.
func (w *Writer) Write(masterPath string, ladder representation.Ladder) error {
	p := strings.ReplaceAll(masterPath, `\`, "/")
	dir, stem := segment.Split(p)

	content, err := Generate(stem, ladder)
	if err != nil {
		return err
	}

	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}

	if err := afero.WriteFile(w.fs, p, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write master playlist: %w", err)
	}

	w.logger.Info("wrote master playlist", "path", p, "variants", len(ladder))

	return nil
}
