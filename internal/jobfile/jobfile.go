// Package jobfile loads declarative streaming output jobs from YAML, JSON or TOML files.
package jobfile

import (
	"fmt"
	"strings"

	"github.com/agleyzer/streampack/internal/dash"
	"github.com/agleyzer/streampack/internal/ffopt"
	"github.com/agleyzer/streampack/internal/format"
	"github.com/agleyzer/streampack/internal/hls"
	"github.com/agleyzer/streampack/internal/packager"
	"github.com/agleyzer/streampack/internal/representation"
	"github.com/agleyzer/streampack/internal/segment"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Job describes one adaptive streaming output.
type Job struct {
	Protocol         string           `mapstructure:"protocol"`
	Input            string           `mapstructure:"input"`
	Output           string           `mapstructure:"output"`
	Format           string           `mapstructure:"format"`
	HWAccel          string           `mapstructure:"hwaccel"`
	Strict           string           `mapstructure:"strict"`
	Representations  []Representation `mapstructure:"representations"`
	AdditionalParams []Param          `mapstructure:"additional_params"`
	DASH             DASHSection      `mapstructure:"dash"`
	HLS              HLSSection       `mapstructure:"hls"`
}

// Representation is one ladder entry.
type Representation struct {
	Width     int `mapstructure:"width"`
	Height    int `mapstructure:"height"`
	VideoKbps int `mapstructure:"video_kbps"`
	AudioKbps int `mapstructure:"audio_kbps"`
}

// Param is one raw encoder option. A list keeps the file order.
type Param struct {
	Name  string `mapstructure:"name"`
	Value string `mapstructure:"value"`
}

// DASHSection holds the dash: block.
type DASHSection struct {
	IsVideo             bool    `mapstructure:"is_video"`
	Adaptation          string  `mapstructure:"adaptation"`
	SegDuration         float64 `mapstructure:"seg_duration"`
	GenerateHLSPlaylist bool    `mapstructure:"generate_hls_playlist"`
	UseTimeline         bool    `mapstructure:"use_timeline"`
	UseTemplate         bool    `mapstructure:"use_template"`
	InitSegName         bool    `mapstructure:"init_seg_name"`
	MediaSegName        bool    `mapstructure:"media_seg_name"`
}

// HLSSection holds the hls: block.
type HLSSection struct {
	ListSize         int      `mapstructure:"list_size"`
	Time             float64  `mapstructure:"time"`
	AllowCache       bool     `mapstructure:"allow_cache"`
	SegmentType      string   `mapstructure:"segment_type"`
	FMP4InitFilename string   `mapstructure:"fmp4_init_filename"`
	Flags            []string `mapstructure:"flags"`
	KeyInfoFile      string   `mapstructure:"key_info_file"`
	BaseURL          string   `mapstructure:"base_url"`
	SegSubDirectory  string   `mapstructure:"seg_sub_directory"`
	AudioStreamCount int      `mapstructure:"audio_stream_count"`
}

// Load reads the job file at path from fs.
func Load(fs afero.Fs, path string) (*Job, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var job Job
	if err := v.Unmarshal(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job file: %w", err)
	}

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file %s: %w", path, err)
	}

	return &job, nil
}

// setDefaults seeds viper with the protocol defaults so that only keys
// present in the file override them.
func setDefaults(v *viper.Viper) {
	d := dash.DefaultConfig()
	h := hls.DefaultConfig()

	v.SetDefault("format", d.Format.Name)
	v.SetDefault("strict", d.Strict)

	v.SetDefault("dash.seg_duration", d.SegDuration)
	v.SetDefault("dash.generate_hls_playlist", d.GenerateHLSPlaylist)
	v.SetDefault("dash.use_timeline", d.UseTimeline)
	v.SetDefault("dash.use_template", d.UseTemplate)

	v.SetDefault("hls.list_size", h.ListSize)
	v.SetDefault("hls.time", h.Time)
	v.SetDefault("hls.allow_cache", h.AllowCache)
	v.SetDefault("hls.segment_type", string(h.SegmentType))
	v.SetDefault("hls.fmp4_init_filename", h.FMP4InitFilename)
	v.SetDefault("hls.audio_stream_count", h.AudioStreamCount)
}

// Validate checks the fields every protocol needs.
func (j *Job) Validate() error {
	if _, err := packager.ParseProtocol(j.Protocol); err != nil {
		return err
	}

	if strings.TrimSpace(j.Output) == "" {
		return fmt.Errorf("output is required")
	}

	if len(j.Representations) == 0 {
		return fmt.Errorf("at least one representation is required")
	}

	for i, r := range j.Representations {
		if r.Height <= 0 {
			return fmt.Errorf("representation %d: height must be positive", i)
		}
	}

	if _, err := format.Lookup(j.Format, j.HWAccel); err != nil {
		return err
	}

	return nil
}

// Ladder returns the representations in file order.
func (j *Job) Ladder() representation.Ladder {
	ladder := make(representation.Ladder, len(j.Representations))
	for i, r := range j.Representations {
		ladder[i] = representation.Representation{
			Width:     r.Width,
			Height:    r.Height,
			VideoKbps: r.VideoKbps,
			AudioKbps: r.AudioKbps,
		}
	}
	return ladder
}

// Params returns the additional raw parameters in file order.
func (j *Job) Params() ffopt.Options {
	var opts ffopt.Options
	for _, p := range j.AdditionalParams {
		opts = append(opts, ffopt.Option{Name: strings.TrimPrefix(p.Name, "-"), Value: p.Value})
	}
	return opts
}

// DASHConfig builds the DASH configuration for the job.
func (j *Job) DASHConfig() (dash.Config, error) {
	f, err := format.Lookup(j.Format, j.HWAccel)
	if err != nil {
		return dash.Config{}, err
	}

	cfg := dash.DefaultConfig()
	cfg.Path = j.Output
	cfg.Format = f
	cfg.Representations = j.Ladder()
	cfg.Strict = j.Strict
	cfg.AdditionalParams = j.Params()
	cfg.IsVideo = j.DASH.IsVideo
	cfg.Adaptation = j.DASH.Adaptation
	cfg.SegDuration = j.DASH.SegDuration
	cfg.GenerateHLSPlaylist = j.DASH.GenerateHLSPlaylist
	cfg.UseTimeline = j.DASH.UseTimeline
	cfg.UseTemplate = j.DASH.UseTemplate
	cfg.InitSegName = j.DASH.InitSegName
	cfg.MediaSegName = j.DASH.MediaSegName

	return cfg, nil
}

// HLSConfig builds the HLS configuration for the job.
func (j *Job) HLSConfig() (hls.Config, error) {
	f, err := format.Lookup(j.Format, j.HWAccel)
	if err != nil {
		return hls.Config{}, err
	}

	cfg := hls.DefaultConfig()
	cfg.Path = j.Output
	cfg.Format = f
	cfg.Representations = j.Ladder()
	cfg.Strict = j.Strict
	cfg.AdditionalParams = j.Params()
	cfg.ListSize = j.HLS.ListSize
	cfg.Time = j.HLS.Time
	cfg.AllowCache = j.HLS.AllowCache
	cfg.SegmentType = segment.Type(j.HLS.SegmentType)
	cfg.FMP4InitFilename = j.HLS.FMP4InitFilename
	cfg.Flags = j.HLS.Flags
	cfg.KeyInfoFile = j.HLS.KeyInfoFile
	cfg.BaseURL = j.HLS.BaseURL
	cfg.SegSubDirectory = j.HLS.SegSubDirectory
	cfg.AudioStreamCount = j.HLS.AudioStreamCount

	return cfg, nil
}

// Packager returns the builder matching the job protocol.
func (j *Job) Packager(fs afero.Fs, logger hclog.Logger) (packager.Packager, error) {
	protocol, err := packager.ParseProtocol(j.Protocol)
	if err != nil {
		return nil, err
	}

	switch protocol {
	case packager.DASH:
		cfg, err := j.DASHConfig()
		if err != nil {
			return nil, err
		}
		return dash.New(cfg, logger), nil
	default:
		cfg, err := j.HLSConfig()
		if err != nil {
			return nil, err
		}
		return hls.New(cfg, fs, logger), nil
	}
}
