package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
Output: out.mkv
Title: Garage
MaxClusterDuration: 2s
Tags:
  ENCODER: mkvmux
Log:
  Level: debug
Inputs:
  - Path: cam.264
    FPS: 25
  - Path: voice.ivf
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out.mkv", c.Output)
	assert.Equal(t, "Garage", c.Title)
	assert.Equal(t, 2*time.Second, c.MaxClusterDuration)
	assert.Equal(t, uint64(5<<20), c.MaxClusterSize)
	assert.Equal(t, map[string]string{"ENCODER": "mkvmux"}, c.Tags)
	assert.Equal(t, Log{Level: "debug", Format: "auto"}, c.Log)
	require.Len(t, c.Inputs, 2)
	assert.Equal(t, FormatH264, c.Inputs[0].Format)
	assert.Equal(t, FormatIVF, c.Inputs[1].Format)
	assert.Equal(t, 10*time.Minute, c.Recorder.ChunkDuration)
	assert.False(t, c.IsStdout())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "Output: a.mkv\nBogus: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "Output: a.mkv\n"))
	assert.ErrorIs(t, err, ErrNoInputs)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Output = "-"
		c.Inputs = []*Input{{Path: "a.ivf"}}
		return c
	}

	cases := map[string]struct {
		modify func(c *Config)
		err    error
	}{
		"ok":           {func(c *Config) {}, nil},
		"no output":    {func(c *Config) { c.Output = "" }, ErrNoOutput},
		"recorder":     {func(c *Config) { c.Output = ""; c.Recorder.Dir = "rec" }, nil},
		"chunk":        {func(c *Config) { c.Recorder.Dir = "rec"; c.Recorder.ChunkDuration = 0 }, ErrChunkDuration},
		"doc type":     {func(c *Config) { c.DocType = "mp4" }, ErrDocType},
		"log format":   {func(c *Config) { c.Log.Format = "xml" }, ErrLogFormat},
		"format":       {func(c *Config) { c.Inputs[0].Path = "a.flv" }, ErrInputFormat},
		"missing fps":  {func(c *Config) { c.Inputs[0].Path = "a.hevc" }, ErrInputFPS},
		"explicit fmt": {func(c *Config) { c.Inputs[0] = &Input{Path: "x", Format: FormatH265, FPS: 30} }, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			tc.modify(c)
			err := c.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
	c := valid()
	assert.True(t, c.IsStdout())
}
