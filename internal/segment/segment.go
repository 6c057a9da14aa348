// Package segment builds the segment and playlist naming templates handed to FFmpeg.
package segment

import (
	"fmt"
	"path"
	"strings"
)

// Type is the HLS segment container.
type Type string

const (
	// MPEGTS is FFmpeg's default HLS segment type
	MPEGTS Type = "mpegts"

	// FMP4 produces fragmented MP4 segments with a separate init segment
	FMP4 Type = "fmp4"
)

// Ext returns the segment file extension: "m4s" for fMP4, "ts" for anything else.
func (t Type) Ext() string {
	if t == FMP4 {
		return "m4s"
	}
	return "ts"
}

// DASH template placeholders, resolved by the DASH muxer per representation and segment.
const (
	RepresentationID = "$RepresentationID$"
	Extension        = "$ext$"
	Number           = "$Number%05d$"
)

// InitTemplate returns the DASH init segment name template for stem.
func InitTemplate(stem string) string {
	return stem + "_init_" + RepresentationID + "." + Extension
}

// MediaTemplate returns the DASH media segment name template for stem.
func MediaTemplate(stem string) string {
	return stem + "_chunk_" + RepresentationID + "_" + Number + "." + Extension
}

// HLSInitFilename returns the fMP4 init file name for one HLS variant.
// %v is left for the HLS muxer to substitute with the variant index.
func HLSInitFilename(subDir, stem string, height int, suffix string) string {
	return fmt.Sprintf("%s%s_%%v_%dp_%s", subDir, stem, height, suffix)
}

// HLSSegmentFilename returns the segment file name pattern for one HLS variant.
func HLSSegmentFilename(prefix string, height int, t Type) string {
	return fmt.Sprintf("%s_%%v_%dp_%%04d.%s", prefix, height, t.Ext())
}

// VariantPlaylist returns the per-resolution playlist path in dir.
func VariantPlaylist(dir, stem string, height int) string {
	return path.Join(dir, VariantPlaylistName(stem, height))
}

// VariantPlaylistName returns the per-resolution playlist file name.
func VariantPlaylistName(stem string, height int) string {
	return fmt.Sprintf("%s_%dp.m3u8", stem, height)
}

// Split normalizes p to forward slashes and returns its directory and its
// file name without the final extension. Every output file of a stream is
// named from this pair.
func Split(p string) (dir, stem string) {
	p = strings.ReplaceAll(p, `\`, "/")
	base := path.Base(p)
	return path.Dir(p), strings.TrimSuffix(base, path.Ext(base))
}

// AppendSlash returns s with exactly one trailing slash. Empty stays empty.
func AppendSlash(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimRight(s, "/") + "/"
}
