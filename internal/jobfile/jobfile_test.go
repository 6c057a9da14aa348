package jobfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/agleyzer/streampack/internal/dash"
	"github.com/agleyzer/streampack/internal/ffopt"
	"github.com/agleyzer/streampack/internal/format"
	"github.com/agleyzer/streampack/internal/hls"
	"github.com/agleyzer/streampack/internal/packager"
	"github.com/agleyzer/streampack/internal/segment"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hlsJob = `
protocol: hls
input: /media/in.mp4
output: /var/media/hls/video
format: hevc
hwaccel: cuda
representations:
  - {width: 1920, height: 1080, video_kbps: 5000, audio_kbps: 192}
  - {width: 1280, height: 720, video_kbps: 2500}
additional_params:
  - {name: hls_playlist_type, value: vod}
  - {name: -movflags, value: +faststart}
hls:
  time: 6
  segment_type: fmp4
  flags: [independent_segments, delete_segments]
  seg_sub_directory: segments
  audio_stream_count: 2
`

const dashJob = `
protocol: DASH
output: /var/media/dash/video
strict: experimental
representations:
  - {width: 1280, height: 720, video_kbps: 2000, audio_kbps: 128}
dash:
  seg_duration: 4
  use_timeline: true
  media_seg_name: true
`

func writeJob(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestLoad_HLS(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeJob(t, fs, "/jobs/hls.yaml", hlsJob)

	job, err := Load(fs, "/jobs/hls.yaml")
	require.NoError(t, err)

	cfg, err := job.HLSConfig()
	require.NoError(t, err)

	assert.Equal(t, "/var/media/hls/video", cfg.Path)
	assert.Equal(t, "hevc_nvenc", cfg.Format.VideoCodec)
	assert.Equal(t, float64(6), cfg.Time)
	assert.Equal(t, segment.FMP4, cfg.SegmentType)
	assert.Equal(t, []string{"independent_segments", "delete_segments"}, cfg.Flags)
	assert.Equal(t, "segments", cfg.SegSubDirectory)
	assert.Equal(t, 2, cfg.AudioStreamCount)
	require.Len(t, cfg.Representations, 2)
	assert.Equal(t, 0, cfg.Representations[1].AudioKbps)

	// Keys absent from the file keep the protocol defaults
	def := hls.DefaultConfig()
	assert.Equal(t, def.AllowCache, cfg.AllowCache)
	assert.Equal(t, def.FMP4InitFilename, cfg.FMP4InitFilename)
	assert.Equal(t, def.Strict, cfg.Strict)

	assert.Equal(t, ffopt.Options{
		{Name: "hls_playlist_type", Value: "vod"},
		{Name: "movflags", Value: "+faststart"},
	}, cfg.AdditionalParams)
}

func TestLoad_DASH(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeJob(t, fs, "/jobs/dash.yaml", dashJob)

	job, err := Load(fs, "/jobs/dash.yaml")
	require.NoError(t, err)

	cfg, err := job.DASHConfig()
	require.NoError(t, err)

	assert.Equal(t, format.X264(), cfg.Format)
	assert.Equal(t, float64(4), cfg.SegDuration)
	assert.True(t, cfg.UseTimeline)
	assert.False(t, cfg.UseTemplate)
	assert.True(t, cfg.MediaSegName)
	assert.False(t, cfg.InitSegName)
	assert.Equal(t, "experimental", cfg.Strict)

	p, err := job.Packager(fs, nil)
	require.NoError(t, err)
	_, ok := p.(*dash.Builder)
	assert.True(t, ok)

	args, err := p.Args()
	require.NoError(t, err)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-use_timeline 1 -use_template 0 -seg_duration 4")
	assert.True(t, strings.HasSuffix(joined, "-strict experimental"))
}

func TestLoad_HLSPackagerCreatesSegmentDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeJob(t, fs, "/jobs/hls.yaml", hlsJob)

	job, err := Load(fs, "/jobs/hls.yaml")
	require.NoError(t, err)

	p, err := job.Packager(fs, nil)
	require.NoError(t, err)

	_, err = p.Args()
	require.NoError(t, err)

	exists, err := afero.DirExists(fs, "/var/media/hls/segments")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown protocol",
			content: "protocol: smooth\noutput: /out/v\nrepresentations: [{height: 720}]\n",
			wantErr: "unknown protocol",
		},
		{
			name:    "missing output",
			content: "protocol: hls\nrepresentations: [{height: 720}]\n",
			wantErr: "output is required",
		},
		{
			name:    "no representations",
			content: "protocol: hls\noutput: /out/v\n",
			wantErr: "at least one representation",
		},
		{
			name:    "bad height",
			content: "protocol: hls\noutput: /out/v\nrepresentations: [{width: 10}]\n",
			wantErr: "height must be positive",
		},
		{
			name:    "unknown format",
			content: "protocol: dash\noutput: /out/v\nformat: mpeg2\nrepresentations: [{height: 720}]\n",
			wantErr: "unknown format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeJob(t, fs, "/jobs/job.yaml", tt.content)

			_, err := Load(fs, "/jobs/job.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_UnknownProtocolIsSentinel(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeJob(t, fs, "/jobs/job.yaml", "protocol: smooth\noutput: /out/v\nrepresentations: [{height: 720}]\n")

	_, err := Load(fs, "/jobs/job.yaml")
	assert.True(t, errors.Is(err, packager.ErrUnknownProtocol))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/jobs/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read job file")
}
