package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agleyzer/streampack/internal/parser"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashJob = `
protocol: dash
input: /media/in.mp4
output: /out/video
representations:
  - {width: 1280, height: 720, video_kbps: 2000, audio_kbps: 128}
`

const hlsJob = `
protocol: hls
input: /media/in.mp4
output: /out/hls/video
representations:
  - {width: 1920, height: 1080, video_kbps: 5000, audio_kbps: 192}
  - {width: 1280, height: 720, video_kbps: 2500, audio_kbps: 128}
`

func execute(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd(fs)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestArgsCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jobs/dash.yaml", []byte(dashJob), 0o644))

	stdout, stderr, err := execute(t, fs, "args", "/jobs/dash.yaml")
	require.NoError(t, err)

	want := []string{
		"-c:v", "libx264", "-c:a", "aac",
		"-use_timeline", "0", "-use_template", "0", "-seg_duration", "10",
		"-hls_playlist", "0", "-f", "dash",
		"-map", "0", "-b:a:0", "128k",
		"-strict", "-2",
	}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(stdout), "\n"))
	assert.Contains(t, stderr, "built arguments")
}

func TestArgsCommand_FullInvocation(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jobs/hls.yaml", []byte(hlsJob), 0o644))

	stdout, _, err := execute(t, fs, "args", "--command", "/jobs/hls.yaml")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, []string{"-y", "-i", "/media/in.mp4"}, lines[:3])
	assert.Equal(t, "/out/hls/video_720p.m3u8", lines[len(lines)-1])
	assert.Contains(t, lines, "/out/hls/video_1080p.m3u8")
}

func TestArgsCommand_JSONLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jobs/dash.yaml", []byte(dashJob), 0o644))

	_, stderr, err := execute(t, fs, "--json-log", "args", "/jobs/dash.yaml")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"@message":"built arguments"`)
}

func TestArgsCommand_MissingJob(t *testing.T) {
	_, _, err := execute(t, afero.NewMemMapFs(), "args", "/jobs/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read job file")
}

func TestArgsCommand_RequiresJob(t *testing.T) {
	_, _, err := execute(t, afero.NewMemMapFs(), "args")
	assert.Error(t, err)
}

func TestMasterCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jobs/hls.yaml", []byte(hlsJob), 0o644))

	stdout, _, err := execute(t, fs, "master", "/jobs/hls.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/out/hls/video.m3u8", strings.TrimSpace(stdout))

	info, err := parser.ParseFile(fs, "/out/hls/video.m3u8")
	require.NoError(t, err)
	require.Len(t, info.Variants, 2)
	assert.Equal(t, "video_1080p.m3u8", info.Variants[0].URI)
	assert.Equal(t, "1280x720", info.Variants[1].Resolution)
}

func TestMasterCommand_CustomPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jobs/hls.yaml", []byte(hlsJob), 0o644))

	stdout, _, err := execute(t, fs, "master", "--out", "/pub/stream.m3u8", "/jobs/hls.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/pub/stream.m3u8", strings.TrimSpace(stdout))

	info, err := parser.ParseFile(fs, "/pub/stream.m3u8")
	require.NoError(t, err)
	assert.Equal(t, "stream_720p.m3u8", info.Variants[1].URI)
}

func TestMasterCommand_DottedOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	job := strings.Replace(hlsJob, "output: /out/hls/video", "output: /out/hls/movie.v2", 1)
	require.NoError(t, afero.WriteFile(fs, "/jobs/hls.yaml", []byte(job), 0o644))

	stdout, _, err := execute(t, fs, "master", "/jobs/hls.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/out/hls/movie.m3u8", strings.TrimSpace(stdout))

	args, _, err := execute(t, fs, "args", "--command", "/jobs/hls.yaml")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(args), "\n")

	info, err := parser.ParseFile(fs, "/out/hls/movie.m3u8")
	require.NoError(t, err)
	for _, v := range info.Variants {
		assert.Contains(t, lines, "/out/hls/"+v.URI)
	}
}

func TestInspectCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jobs/hls.yaml", []byte(hlsJob), 0o644))

	_, _, err := execute(t, fs, "master", "/jobs/hls.yaml")
	require.NoError(t, err)

	stdout, _, err := execute(t, fs, "inspect", "/out/hls/video.m3u8")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"1080\t1920x1080\t5120000\tvideo_1080p.m3u8",
		"720\t1280x720\t2560000\tvideo_720p.m3u8",
	}, strings.Split(strings.TrimSpace(stdout), "\n"))
}

func TestInspectCommand_MediaPlaylist(t *testing.T) {
	fs := afero.NewMemMapFs()
	media := "#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:10\n#EXTINF:10.0,\nseg0.ts\n#EXT-X-ENDLIST\n"
	require.NoError(t, afero.WriteFile(fs, "/out/video_720p.m3u8", []byte(media), 0o644))

	_, _, err := execute(t, fs, "inspect", "/out/video_720p.m3u8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected master playlist")
}

func TestKeyInfoCommand(t *testing.T) {
	fs := afero.NewMemMapFs()

	stdout, _, err := execute(t, fs, "keyinfo", "/keys/enc.key", "https://cdn.example.com/enc.key")
	require.NoError(t, err)
	assert.Equal(t, "/keys/enc.key.keyinfo", strings.TrimSpace(stdout))

	content, err := afero.ReadFile(fs, "/keys/enc.key.keyinfo")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "https://cdn.example.com/enc.key\n/keys/enc.key\n"))
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := execute(t, afero.NewMemMapFs(), "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version)
}
