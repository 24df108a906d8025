package illustrate

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

const (
	// Cards wider than this are downscaled before upload.
	maxCardWidth = 1024

	// Payloads under this size are passed through untouched.
	compressThreshold = 512 * 1024
)

// Compress decodes an image, downscales it to the card width limit, and
// re-encodes it so chat uploads stay small.
func Compress(data []byte) ([]byte, error) {
	if len(data) < compressThreshold {
		return data, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > maxCardWidth {
		img = imaging.Resize(img, maxCardWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
