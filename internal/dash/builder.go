package dash

import (
	"fmt"
	"path"

	"github.com/agleyzer/streampack/internal/ffopt"
	"github.com/agleyzer/streampack/internal/format"
	"github.com/agleyzer/streampack/internal/logging"
	"github.com/agleyzer/streampack/internal/segment"
	"github.com/hashicorp/go-hclog"
)

// Builder produces the argument list for a DASH output.
// The DASH muxer handles all representations in a single invocation,
// so the whole ladder is folded into one flat sequence.
type Builder struct {
	config Config
	logger hclog.Logger
}

// New creates a Builder for config. A nil logger discards output.
func New(config Config, logger hclog.Logger) *Builder {
	config.Representations = append(config.Representations[:0:0], config.Representations...)
	config.AdditionalParams = config.AdditionalParams.Clone()

	return &Builder{
		config: config,
		logger: logging.OrDiscard(logger).Named("dash"),
	}
}

// Build is a convenience wrapper around New(config, nil).Args().
func Build(config Config) ([]string, error) {
	return New(config, nil).Args()
}

// Args returns the ordered argument list: format baseline, shared muxer
// options, per-representation streams and -strict last.
func (b *Builder) Args() ([]string, error) {
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dash config: %w", err)
	}

	var args []string
	args = append(args, format.Resolve(b.config.Format)...)
	args = append(args, b.init()...)
	args = append(args, b.streams()...)
	args = append(args, "-strict", b.config.Strict)

	b.logger.Debug("built dash arguments",
		"representations", len(b.config.Representations),
		"tokens", len(args),
	)

	return args, nil
}

// OutputPath returns the manifest path: the output path with its
// extension replaced by .mpd.
func (b *Builder) OutputPath() string {
	dir, name := segment.Split(b.config.Path)
	return path.Join(dir, name+".mpd")
}

// Target returns the encoder output token, the manifest itself.
func (b *Builder) Target() string {
	return b.OutputPath()
}

// init builds the options shared by every representation.
func (b *Builder) init() []string {
	_, name := segment.Split(b.config.Path)

	init := ffopt.Options{
		{Name: "use_timeline", Value: ffopt.Bool(b.config.UseTimeline)},
		{Name: "use_template", Value: ffopt.Bool(b.config.UseTemplate)},
		{Name: "seg_duration", Value: ffopt.Float(b.config.SegDuration)},
		{Name: "hls_playlist", Value: ffopt.Bool(b.config.GenerateHLSPlaylist)},
		{Name: "f", Value: "dash"},
	}

	if b.config.InitSegName {
		init = init.Set("init_seg_name", segment.InitTemplate(name))
	}

	if b.config.MediaSegName {
		init = init.Set("media_seg_name", segment.MediaTemplate(name))
	}

	args := ffopt.Flatten(init)
	if b.config.Adaptation != "" {
		args = append(args, "-adaptation_sets", b.config.Adaptation)
	}

	return append(args, ffopt.Flatten(b.config.AdditionalParams)...)
}

// streams maps every representation, keyed by its position in the ladder.
// Video size and bitrate are only mapped in video mode; the audio path
// leaves them to the format baseline.
func (b *Builder) streams() []string {
	var args []string

	for key, rep := range b.config.Representations {
		opts := ffopt.Options{{Name: "map", Value: "0"}}

		if b.config.IsVideo {
			opts = opts.
				Set(fmt.Sprintf("s:v:%d", key), rep.Size()).
				Set(fmt.Sprintf("b:v:%d", key), ffopt.Kbps(rep.VideoKbps))
		}

		if rep.HasAudio() {
			opts = opts.Set(fmt.Sprintf("b:a:%d", key), ffopt.Kbps(rep.AudioKbps))
		}

		args = append(args, ffopt.Flatten(opts)...)
	}

	return args
}
