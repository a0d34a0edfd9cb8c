//go:build vips

package vips

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/h2non/bimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width int, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestProcessorLargeImage(t *testing.T) {
	processor := NewProcessor()

	processed, err := processor.Process(pngBytes(t, 2400, 1600), "bag.png")

	require.NoError(t, err)
	assert.Equal(t, "image/webp", processed.ContentType)
	assert.Regexp(t, `^\d+-[0-9a-z]{6}\.webp$`, processed.Filename)

	full, err := bimg.Size(processed.Full.Data)
	require.NoError(t, err)
	assert.Equal(t, 1200, full.Width)
	assert.Equal(t, 800, full.Height)
	assert.Equal(t, "webp", bimg.DetermineImageTypeName(processed.Full.Data))

	thumb, err := bimg.Size(processed.Thumbnail.Data)
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Width)
	assert.Equal(t, 300, thumb.Height)
}

func TestProcessorDoesNotUpscale(t *testing.T) {
	processor := NewProcessor()

	processed, err := processor.Process(pngBytes(t, 640, 480), "cup.png")

	require.NoError(t, err)
	full, err := bimg.Size(processed.Full.Data)
	require.NoError(t, err)
	assert.Equal(t, 640, full.Width)
	assert.Equal(t, 480, full.Height)

	thumb, err := bimg.Size(processed.Thumbnail.Data)
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Width)
	assert.Equal(t, 300, thumb.Height)
}

func TestProcessorInvalidData(t *testing.T) {
	processor := NewProcessor()

	_, err := processor.Process([]byte("definitely not an image"), "fake.jpg")

	var processingErr *model.ProcessingError
	require.ErrorAs(t, err, &processingErr)
	assert.Equal(t, "fake.jpg", processingErr.OriginalName)
}
