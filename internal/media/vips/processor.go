// Package vips is the libvips image engine. It needs cgo and libvips at build time.
package vips

import (
	"time"

	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/h2non/bimg"
)

type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (processor *Processor) Process(data []byte, originalName string) (media.Processed, error) {
	meta, err := bimg.Metadata(data)
	if err != nil {
		return media.Processed{}, &model.ProcessingError{OriginalName: originalName, Err: err}
	}

	width, height := meta.Size.Width, meta.Size.Height
	err = media.CheckPixels(width, height, originalName)
	if err != nil {
		return media.Processed{}, err
	}

	// EXIF orientations 5..8 rotate by 90 degrees, so the stored size is transposed
	if meta.Orientation >= 5 {
		width, height = height, width
	}

	fullWidth, fullHeight := media.FitInside(width, height, media.FullMaxDimension)

	// bimg.Resize works on a copy; Image.Process would mutate the shared buffer
	full, err := bimg.Resize(data, bimg.Options{
		Width:   fullWidth,
		Height:  fullHeight,
		Force:   true,
		Quality: media.FullQuality,
		Type:    bimg.WEBP,
	})
	if err != nil {
		return media.Processed{}, &model.ProcessingError{OriginalName: originalName, Err: err}
	}

	thumb, err := bimg.Resize(data, bimg.Options{
		Width:   media.ThumbnailSize,
		Height:  media.ThumbnailSize,
		Crop:    true,
		Enlarge: true,
		Gravity: bimg.GravityCentre,
		Quality: media.ThumbnailQuality,
		Type:    bimg.WEBP,
	})
	if err != nil {
		return media.Processed{}, &model.ProcessingError{OriginalName: originalName, Err: err}
	}

	filename, err := media.GenerateFilename(time.Now(), "webp")
	if err != nil {
		return media.Processed{}, err
	}

	return media.Processed{
		Full: media.Rendition{
			Data:   full,
			Width:  fullWidth,
			Height: fullHeight,
		},
		Thumbnail: media.Rendition{
			Data:   thumb,
			Width:  media.ThumbnailSize,
			Height: media.ThumbnailSize,
		},
		Filename:    filename,
		ContentType: "image/webp",
	}, nil
}
