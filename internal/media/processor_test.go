package media

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitInside(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"smaller stays", 800, 600, 800, 600},
		{"landscape", 2400, 1600, 1200, 800},
		{"portrait", 1000, 3000, 400, 1200},
		{"square", 5000, 5000, 1200, 1200},
		{"thin strip", 10000, 2, 1200, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitInside(tt.width, tt.height, FullMaxDimension)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestGenerateFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	name, err := GenerateFilename(now, "webp")

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^1700000000123-[0-9a-z]{6}\.webp$`), name)

	other, err := GenerateFilename(now, "webp")
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestImagingProcessorLargeImage(t *testing.T) {
	processor := NewImagingProcessor()

	processed, err := processor.Process(pngBytes(t, 2400, 1600), "bag.png")

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", processed.ContentType)
	assert.Regexp(t, `^\d+-[0-9a-z]{6}\.jpg$`, processed.Filename)

	full, err := imaging.Decode(bytes.NewReader(processed.Full.Data))
	require.NoError(t, err)
	assert.Equal(t, 1200, full.Bounds().Dx())
	assert.Equal(t, 800, full.Bounds().Dy())

	thumb, err := imaging.Decode(bytes.NewReader(processed.Thumbnail.Data))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 300, thumb.Bounds().Dy())
}

func TestImagingProcessorDoesNotUpscale(t *testing.T) {
	processor := NewImagingProcessor()

	processed, err := processor.Process(jpegBytes(t, 640, 480), "cup.jpg")

	require.NoError(t, err)
	full, err := imaging.Decode(bytes.NewReader(processed.Full.Data))
	require.NoError(t, err)
	assert.Equal(t, 640, full.Bounds().Dx())
	assert.Equal(t, 480, full.Bounds().Dy())

	thumb, err := imaging.Decode(bytes.NewReader(processed.Thumbnail.Data))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 300, thumb.Bounds().Dy())
}

func TestImagingProcessorInvalidMagicBytes(t *testing.T) {
	processor := NewImagingProcessor()

	_, err := processor.Process([]byte("definitely not a jpeg"), "fake.jpg")

	var processingErr *model.ProcessingError
	require.ErrorAs(t, err, &processingErr)
	assert.Equal(t, "fake.jpg", processingErr.OriginalName)
}

func TestImagingProcessorRejectsOversizedImage(t *testing.T) {
	processor := NewImagingProcessor()

	_, err := processor.Process(pngHeader(17000, 17000), "huge.png")

	var processingErr *model.ProcessingError
	require.ErrorAs(t, err, &processingErr)
	assert.Equal(t, "huge.png", processingErr.OriginalName)
	require.Error(t, processingErr.Err)
	assert.Contains(t, processingErr.Err.Error(), "exceeds")
}

func TestCheckPixels(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"regular photo", 4032, 3024, false},
		{"at the limit", 16383, 16383, false},
		{"over the limit", 17000, 17000, true},
		{"long strip over the limit", 268402690, 1, true},
		{"empty", 0, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPixels(tt.width, tt.height, "x.png")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var processingErr *model.ProcessingError
			assert.ErrorAs(t, err, &processingErr)
		})
	}
}
