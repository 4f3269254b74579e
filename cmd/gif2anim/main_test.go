package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(args ...string) (string, error) {
	app := newApp()

	out := new(bytes.Buffer)
	app.Writer = out
	app.ErrWriter = out
	// Keep the exit code on the returned error instead of exiting
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"gif2anim"}, args...))
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ec cli.ExitCoder
	require.True(t, errors.As(err, &ec), "%v", err)
	return ec.ExitCode()
}

func writeGIF(t *testing.T, file string) {
	t.Helper()
	p := color.Palette{color.RGBA{255, 0, 0, 255}}
	b := new(bytes.Buffer)
	require.NoError(t, gif.EncodeAll(b, &gif.GIF{
		Image: []*image.Paletted{image.NewPaletted(image.Rect(0, 0, 8, 8), p)},
		Delay: []int{10},
	}))
	require.NoError(t, os.WriteFile(file, b.Bytes(), 0o644))
}

func TestMissingArguments(t *testing.T) {
	for _, cmd := range []string{"convert", "preview"} {
		t.Run(cmd, func(t *testing.T) {
			_, err := run(cmd, "in.gif", "out.anim")
			require.Error(t, err)
			assert.Equal(t, 1, exitCode(t, err))
			assert.Contains(t, err.Error(), "INPUT OUTPUT FORMAT")
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.gif")
	dst := filepath.Join(dir, "out.anim")
	db := filepath.Join(dir, "cache.db")
	writeGIF(t, src)

	_, err := run("--db", db, "convert", src, dst, "nope")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	for _, tag := range []string{"anim", "auxi", "amft", "sml", "crs"} {
		assert.Contains(t, err.Error(), tag)
	}

	for _, file := range []string{dst, db} {
		_, err := os.Stat(file)
		assert.True(t, os.IsNotExist(err), file)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.gif")
	dst := filepath.Join(dir, "out.anim")
	db := filepath.Join(dir, "cache.db")
	writeGIF(t, src)

	_, err := run("--db", db, "convert", src, dst, "sml")
	require.NoError(t, err)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("ANIM"), b[:4])
	assert.Len(t, b, 20+2+60*60*2)

	_, err = os.Stat(db)
	assert.NoError(t, err)
}

func TestConvertMissingSource(t *testing.T) {
	dir := t.TempDir()

	_, err := run("convert", filepath.Join(dir, "missing.gif"), filepath.Join(dir, "out.anim"), "anim")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestFormats(t *testing.T) {
	out, err := run("formats")
	require.NoError(t, err)
	assert.Contains(t, out, "anim (80x80, ANIM)")
	assert.Contains(t, out, "auxi (80x30, AUXI)")
	assert.Contains(t, out, "amft (10x30, AMFT)")
	assert.Contains(t, out, "sml (60x60, ANIM)")
	assert.Contains(t, out, "crs (128x128, ANIM)")
}
