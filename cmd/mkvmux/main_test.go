package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/ebmltest"
)

var (
	vp8Key   = []byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a}
	vp8Delta = []byte{0x11, 0x02, 0x00, 0x00}
)

func writeIVF(t *testing.T, path string, frames ...[]byte) {
	t.Helper()
	b := []byte("DKIF")
	b = binary.LittleEndian.AppendUint16(b, 0)
	b = binary.LittleEndian.AppendUint16(b, 32)
	b = append(b, "VP80"...)
	b = binary.LittleEndian.AppendUint16(b, 320)
	b = binary.LittleEndian.AppendUint16(b, 240)
	b = binary.LittleEndian.AppendUint32(b, 25)
	b = binary.LittleEndian.AppendUint32(b, 1)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(frames)))
	b = binary.LittleEndian.AppendUint32(b, 0)
	for i, f := range frames {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(f)))
		b = binary.LittleEndian.AppendUint64(b, uint64(i))
		b = append(b, f...)
	}
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func setup(t *testing.T, extra string) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	writeIVF(t, filepath.Join(dir, "cam.ivf"), vp8Key, vp8Delta, vp8Delta)
	configPath = filepath.Join(dir, "config.yaml")
	body := "Inputs:\n  - Path: " + filepath.Join(dir, "cam.ivf") + "\nLog:\n  Format: json\n" + extra
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o644))
	return dir, configPath
}

func execute(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return stdout, stderr, err
}

func TestMuxFile(t *testing.T) {
	dir, configPath := setup(t, "Output: ignored.mkv\nTags:\n  ENCODER: mkvmux\n")
	out := filepath.Join(dir, "out.webm")

	_, stderr, err := execute(t, "mux", "-c", configPath, "-o", out, "--title", "Porch")
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), `"msg":"segment closed"`)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	elems, err := ebmltest.Parse(b)
	require.NoError(t, err)
	require.Len(t, elems, 2)

	assert.Equal(t, "webm", elems[0].Child(ebml.IDDocType).String())
	segment := elems[1]
	assert.False(t, segment.Unknown)
	assert.Equal(t, "Porch", segment.Child(ebml.IDInfo).Child(ebml.IDTitle).String())
	assert.NotNil(t, segment.Child(ebml.IDTags))
	assert.NotNil(t, segment.Child(ebml.IDCues))
	assert.Len(t, ebmltest.Find(elems, ebml.IDSimpleBlock), 3)
}

func TestMuxStdout(t *testing.T) {
	_, configPath := setup(t, "Output: \"-\"\n")

	stdout, _, err := execute(t, "mux", "--config", configPath)
	require.NoError(t, err)

	elems, err := ebmltest.Parse(stdout.Bytes())
	require.NoError(t, err)
	require.Len(t, elems, 2)
	assert.True(t, elems[1].Unknown, "live segment has unknown size")
	assert.Nil(t, elems[1].Child(ebml.IDCues))
	assert.Len(t, ebmltest.Find(elems, ebml.IDSimpleBlock), 3)
}

func TestMuxRecorder(t *testing.T) {
	dir := t.TempDir()
	rec := filepath.Join(dir, "rec")
	_, configPath := setup(t, "Recorder:\n  Dir: "+rec+"\n  Suffix: cam\n")

	_, _, err := execute(t, "mux", "-c", configPath)
	require.NoError(t, err)

	var files []string
	require.NoError(t, filepath.Walk(rec, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, path)
		}
		return err
	}))
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], ".cam.mkv"))
}

func TestMuxErrors(t *testing.T) {
	_, _, err := execute(t, "mux")
	assert.ErrorContains(t, err, "--config is required")

	_, _, err = execute(t, "mux", "-c", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mkvmux dev\n", stdout.String())
}
