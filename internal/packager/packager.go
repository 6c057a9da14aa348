// Package packager ties the DASH and HLS argument builders to a single interface.
package packager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agleyzer/streampack/internal/dash"
	"github.com/agleyzer/streampack/internal/hls"
)

// ErrUnknownProtocol is returned for protocols other than dash and hls.
var ErrUnknownProtocol = errors.New("unknown protocol")

// Protocol is the adaptive streaming protocol of an output.
type Protocol string

const (
	// DASH writes an .mpd manifest
	DASH Protocol = "dash"
	// HLS writes .m3u8 playlists
	HLS Protocol = "hls"
)

// ParseProtocol parses a protocol name, case-insensitively.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(s))) {
	case DASH:
		return DASH, nil
	case HLS:
		return HLS, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
}

// Packager defines the interface for building an encoder invocation.
// Implementations include the DASH builder (one flat sequence for the
// whole ladder) and the HLS builder (accumulated per-variant blocks).
type Packager interface {
	// Args returns the ordered argument list. No partial list is returned
	// together with an error.
	Args() ([]string, error)

	// OutputPath returns the manifest or master playlist path.
	OutputPath() string

	// Target returns the final positional output token for the encoder.
	Target() string
}

var (
	_ Packager = (*dash.Builder)(nil)
	_ Packager = (*hls.Builder)(nil)
)

// Command wraps the packager arguments into a complete encoder argument
// list reading from input: -y -i <input> <args...> <target>.
func Command(p Packager, input string) ([]string, error) {
	if input == "" {
		return nil, fmt.Errorf("input is required")
	}

	args, err := p.Args()
	if err != nil {
		return nil, err
	}

	cmd := make([]string, 0, len(args)+4)
	cmd = append(cmd, "-y", "-i", input)
	cmd = append(cmd, args...)
	cmd = append(cmd, p.Target())
	return cmd, nil
}
