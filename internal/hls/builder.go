package hls

import (
	"fmt"
	"path"
	"strings"

	"github.com/agleyzer/streampack/internal/ffopt"
	"github.com/agleyzer/streampack/internal/format"
	"github.com/agleyzer/streampack/internal/logging"
	"github.com/agleyzer/streampack/internal/representation"
	"github.com/agleyzer/streampack/internal/segment"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Builder produces the argument list for an HLS output.
// Each representation contributes its own block with per-resolution file
// name templates; the blocks accumulate into one invocation.
type Builder struct {
	config Config
	fs     afero.Fs
	logger hclog.Logger
}

// layout holds the paths derived from the configured output path.
type layout struct {
	dir       string
	stem      string
	segSubDir string
	baseURL   string
	segPrefix string
}

// New creates a Builder for config. fs receives the segment sub-directory
// creation; nil means the OS filesystem. A nil logger discards output.
func New(config Config, fs afero.Fs, logger hclog.Logger) *Builder {
	config.Representations = append(config.Representations[:0:0], config.Representations...)
	config.Flags = append(config.Flags[:0:0], config.Flags...)
	config.AdditionalParams = config.AdditionalParams.Clone()

	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Builder{
		config: config,
		fs:     fs,
		logger: logging.OrDiscard(logger).Named("hls"),
	}
}

// Build is a convenience wrapper around New(config, fs, nil).Args().
func Build(config Config, fs afero.Fs) ([]string, error) {
	return New(config, fs, nil).Args()
}

// Args returns the accumulated argument list for all representations.
// The segment sub-directory, when configured, is created first; a failure
// there aborts the build.
func (b *Builder) Args() ([]string, error) {
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hls config: %w", err)
	}

	l := b.layout()
	if err := b.ensureSegmentDir(l); err != nil {
		return nil, err
	}

	var args []string
	reps := b.config.Representations
	for i, rep := range reps {
		args = append(args, b.variantArgs(l, rep, !reps.Last(i))...)
	}

	b.logger.Debug("built hls arguments",
		"heights", reps.Heights(),
		"audio_streams", b.config.AudioStreamCount,
		"tokens", len(args),
	)

	return args, nil
}

// OutputPath returns the master playlist path: the output path with its
// extension replaced by .m3u8.
func (b *Builder) OutputPath() string {
	l := b.layout()
	return path.Join(l.dir, l.stem+".m3u8")
}

// Target returns the encoder output token: the playlist of the last
// representation, whose block carries no trailing playlist path.
func (b *Builder) Target() string {
	reps := b.config.Representations
	if reps.Empty() {
		return b.OutputPath()
	}
	l := b.layout()
	return segment.VariantPlaylist(l.dir, l.stem, reps[len(reps)-1].Height)
}

// layout derives directory, stem and segment locations from the output path.
func (b *Builder) layout() layout {
	l := layout{segSubDir: segment.AppendSlash(b.config.SegSubDirectory)}
	l.dir, l.stem = segment.Split(b.config.Path)
	l.segPrefix = path.Join(l.dir, l.segSubDir+l.stem)
	l.baseURL = segment.AppendSlash(b.config.BaseURL) + l.segSubDir
	return l
}

// ensureSegmentDir creates the segment sub-directory when one is configured.
func (b *Builder) ensureSegmentDir(l layout) error {
	if l.segSubDir == "" {
		return nil
	}

	segDir := path.Join(l.dir, l.segSubDir)
	if err := b.fs.MkdirAll(segDir, 0o755); err != nil {
		return fmt.Errorf("failed to create segment directory %q: %w", segDir, err)
	}
	b.logger.Debug("segment directory ready", "path", segDir)
	return nil
}

// variantArgs builds the full block for one representation.
func (b *Builder) variantArgs(l layout, rep representation.Representation, notLast bool) []string {
	var args []string
	args = append(args, format.Resolve(b.config.Format)...)
	args = append(args, ffopt.Flatten(b.variantOptions(l, rep))...)
	args = append(args, ffopt.Flatten(b.mapStreams())...)
	args = append(args, ffopt.Flatten(b.config.AdditionalParams)...)
	args = append(args, "-strict", b.config.Strict)

	if notLast {
		args = append(args, segment.VariantPlaylist(l.dir, l.stem, rep.Height))
	}

	return args
}

// variantOptions builds the muxer and variant map options for rep.
func (b *Builder) variantOptions(l layout, rep representation.Representation) ffopt.Options {
	init := ffopt.Options{
		{Name: "hls_list_size", Value: ffopt.Int(b.config.ListSize)},
		{Name: "hls_time", Value: ffopt.Float(b.config.Time)},
		{Name: "hls_allow_cache", Value: ffopt.Bool(b.config.AllowCache)},
		{Name: "hls_segment_type", Value: string(b.config.SegmentType)},
		{Name: "hls_fmp4_init_filename", Value: segment.HLSInitFilename(l.segSubDir, l.stem, rep.Height, b.config.FMP4InitFilename)},
		{Name: "hls_segment_filename", Value: segment.HLSSegmentFilename(l.segPrefix, rep.Height, b.config.SegmentType)},
		{Name: "master_pl_name", Value: MasterPlaylistName},
	}

	opt := ffopt.Options{
		{Name: "s:v:0", Value: rep.Size()},
		{Name: "b:v:0", Value: ffopt.Kbps(rep.VideoKbps)},
	}
	for i := 0; i < b.config.AudioStreamCount; i++ {
		opt = opt.Set(fmt.Sprintf("b:a:%d", i), ffopt.Kbps(rep.AudioKbps))
	}
	opt = opt.Set("f", "hls")
	opt = opt.Set("var_stream_map", b.varStreamMap())

	var extra ffopt.Options
	if rep.HasAudio() {
		extra = extra.Set("b:a", ffopt.Kbps(rep.AudioKbps))
	}
	if l.baseURL != "" {
		extra = extra.Set("hls_base_url", l.baseURL)
	}
	if len(b.config.Flags) > 0 {
		extra = extra.Set("hls_flags", strings.Join(b.config.Flags, "+"))
	}
	if b.config.KeyInfoFile != "" {
		extra = extra.Set("hls_key_info_file", b.config.KeyInfoFile)
	}

	return init.Merge(opt, extra)
}

// varStreamMap pairs every audio stream into the "audio" group, the first
// one as default, followed by the video stream.
func (b *Builder) varStreamMap() string {
	tokens := make([]string, 0, b.config.AudioStreamCount+1)
	for i := 0; i < b.config.AudioStreamCount; i++ {
		token := fmt.Sprintf("a:%d,agroup:audio", i)
		if i == 0 {
			token += ",default:yes"
		}
		tokens = append(tokens, token)
	}
	tokens = append(tokens, "v:0,agroup:audio")
	return strings.Join(tokens, " ")
}

// mapStreams maps the first video stream and every audio stream.
func (b *Builder) mapStreams() ffopt.Options {
	maps := ffopt.Positional("-map", "0:v:0")
	for i := 0; i < b.config.AudioStreamCount; i++ {
		maps = append(maps, ffopt.Positional("-map", fmt.Sprintf("0:a:%d", i))...)
	}
	return maps
}
