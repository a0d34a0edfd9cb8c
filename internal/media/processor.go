package media

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ferdian3456/brewlog/internal/model"

	_ "golang.org/x/image/webp"
)

const (
	FullMaxDimension = 1200
	FullQuality      = 82
	ThumbnailSize    = 300
	ThumbnailQuality = 70

	// MaxInputPixels bounds the decoded size of an upload, matching the
	// libvips default limit.
	MaxInputPixels = 268402689
)

type Rendition struct {
	Data   []byte
	Width  int
	Height int
}

type Processed struct {
	Full        Rendition
	Thumbnail   Rendition
	Filename    string
	ContentType string
}

// Processor derives the full and thumbnail renditions of one upload.
// It never writes anywhere; undecodable input yields *model.ProcessingError.
type Processor interface {
	Process(data []byte, originalName string) (Processed, error)
}

// FitInside scales w x h down to fit a bound x bound box, keeping the aspect
// ratio. Images already inside the box are returned unchanged.
func FitInside(w int, h int, bound int) (int, int) {
	if w <= bound && h <= bound {
		return w, h
	}

	if w >= h {
		scaled := h * bound / w
		if scaled < 1 {
			scaled = 1
		}
		return bound, scaled
	}

	scaled := w * bound / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, bound
}

// CheckPixels rejects images whose decoded size exceeds MaxInputPixels.
func CheckPixels(width int, height int, originalName string) error {
	if width <= 0 || height <= 0 {
		return &model.ProcessingError{OriginalName: originalName, Err: image.ErrFormat}
	}
	if int64(width)*int64(height) > MaxInputPixels {
		return &model.ProcessingError{
			OriginalName: originalName,
			Err:          fmt.Errorf("image is %dx%d, exceeds %d pixels", width, height, MaxInputPixels),
		}
	}
	return nil
}

// ImagingProcessor is the pure Go engine. It encodes JPEG.
type ImagingProcessor struct{}

func NewImagingProcessor() *ImagingProcessor {
	return &ImagingProcessor{}
}

func (processor *ImagingProcessor) Process(data []byte, originalName string) (Processed, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Processed{}, &model.ProcessingError{OriginalName: originalName, Err: err}
	}
	err = CheckPixels(config.Width, config.Height, originalName)
	if err != nil {
		return Processed{}, err
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Processed{}, &model.ProcessingError{OriginalName: originalName, Err: err}
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return Processed{}, &model.ProcessingError{OriginalName: originalName, Err: image.ErrFormat}
	}

	var full image.Image = src
	if bounds.Dx() > FullMaxDimension || bounds.Dy() > FullMaxDimension {
		full = imaging.Fit(src, FullMaxDimension, FullMaxDimension, imaging.Lanczos)
	}

	fullBuf := new(bytes.Buffer)
	err = imaging.Encode(fullBuf, full, imaging.JPEG, imaging.JPEGQuality(FullQuality))
	if err != nil {
		return Processed{}, &model.ProcessingError{OriginalName: originalName, Err: err}
	}

	thumb := imaging.Fill(src, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos)
	thumbBuf := new(bytes.Buffer)
	err = imaging.Encode(thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbnailQuality))
	if err != nil {
		return Processed{}, &model.ProcessingError{OriginalName: originalName, Err: err}
	}

	filename, err := GenerateFilename(time.Now(), "jpg")
	if err != nil {
		return Processed{}, err
	}

	return Processed{
		Full: Rendition{
			Data:   fullBuf.Bytes(),
			Width:  full.Bounds().Dx(),
			Height: full.Bounds().Dy(),
		},
		Thumbnail: Rendition{
			Data:   thumbBuf.Bytes(),
			Width:  ThumbnailSize,
			Height: ThumbnailSize,
		},
		Filename:    filename,
		ContentType: "image/jpeg",
	}, nil
}
