package storage

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

// ProcessImage normalises an uploaded photo: center-crop to the target
// aspect ratio, resize to the exact dimensions, re-encode as JPEG. Strips
// whatever format the client sent (PNG, HEIC-converted, oversized JPEG).
func ProcessImage(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	targetRatio := float64(width) / float64(height)
	currentRatio := float64(bounds.Dx()) / float64(bounds.Dy())

	if currentRatio > targetRatio {
		// Too wide - crop width
		cropWidth := int(float64(bounds.Dy()) * targetRatio)
		img = imaging.CropCenter(img, cropWidth, bounds.Dy())
	} else if currentRatio < targetRatio {
		// Too tall - crop height
		cropHeight := int(float64(bounds.Dx()) / targetRatio)
		img = imaging.CropCenter(img, bounds.Dx(), cropHeight)
	}

	img = imaging.Resize(img, width, height, imaging.Lanczos)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), nil
}
