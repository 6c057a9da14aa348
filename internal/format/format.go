// Package format resolves the codec baseline flags for a streaming output.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agleyzer/streampack/internal/ffopt"
)

// ErrUnknownFormat is returned when a format identifier has no preset.
var ErrUnknownFormat = errors.New("unknown format")

// Hardware acceleration types understood by Lookup. Any other value,
// including "", keeps the software encoder.
const (
	HWAccelCUDA  = "cuda"
	HWAccelVAAPI = "vaapi"
	HWAccelQSV   = "qsv"
)

// Format is the codec selection for an output.
type Format struct {
	// Name is the preset identifier (e.g. "h264")
	Name string

	// VideoCodec is the FFmpeg video encoder (e.g. "libx264")
	VideoCodec string

	// AudioCodec is the FFmpeg audio encoder (e.g. "aac")
	AudioCodec string

	// Params are extra encoder options emitted after the codec selection
	Params ffopt.Options
}

// X264 returns the H.264 preset.
func X264() Format {
	return Format{Name: "h264", VideoCodec: "libx264", AudioCodec: "aac"}
}

// HEVC returns the H.265 preset.
func HEVC() Format {
	return Format{Name: "hevc", VideoCodec: "libx265", AudioCodec: "aac"}
}

// VP9 returns the VP9 preset.
func VP9() Format {
	return Format{Name: "vp9", VideoCodec: "libvpx-vp9", AudioCodec: "aac"}
}

// Lookup returns the preset for id, switching to a hardware encoder
// when hwaccel names one that supports the codec.
func Lookup(id, hwaccel string) (Format, error) {
	var f Format
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "h264", "x264", "avc":
		f = X264()
	case "hevc", "h265", "x265":
		f = HEVC()
	case "vp9":
		f = VP9()
	default:
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, id)
	}

	if enc := hardwareEncoder(f.Name, strings.ToLower(hwaccel)); enc != "" {
		f.VideoCodec = enc
	}
	return f, nil
}

// hardwareEncoder maps a codec to its hardware encoder, or "" when the
// acceleration type has none for it.
func hardwareEncoder(codec, hwaccel string) string {
	switch hwaccel {
	case HWAccelCUDA:
		switch codec {
		case "h264":
			return "h264_nvenc"
		case "hevc":
			return "hevc_nvenc"
		}
	case HWAccelVAAPI:
		switch codec {
		case "h264":
			return "h264_vaapi"
		case "hevc":
			return "hevc_vaapi"
		case "vp9":
			return "vp9_vaapi"
		}
	case HWAccelQSV:
		switch codec {
		case "h264":
			return "h264_qsv"
		case "hevc":
			return "hevc_qsv"
		case "vp9":
			return "vp9_qsv"
		}
	}
	return ""
}

// Resolve returns the baseline flags for f: codec selection followed by
// the extra params.
func Resolve(f Format) []string {
	basic := ffopt.Options{
		{Name: "c:v", Value: f.VideoCodec},
		{Name: "c:a", Value: f.AudioCodec},
	}
	return append(ffopt.Flatten(basic), ffopt.Flatten(f.Params)...)
}
