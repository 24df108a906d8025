package illustrate

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	// Deterministic noise so the encoded payload stays large.
	seed := uint32(1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			seed = seed*1664525 + 1013904223
			img.Set(x, y, color.RGBA{R: uint8(seed >> 24), G: uint8(seed >> 16), B: uint8(seed >> 8), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompress_SmallPayloadPassesThrough(t *testing.T) {
	data := encodePNG(t, 64, 64)
	require.Less(t, len(data), compressThreshold)

	out, err := Compress(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCompress_DownscalesWideImages(t *testing.T) {
	data := encodePNG(t, 2048, 1024)
	require.GreaterOrEqual(t, len(data), compressThreshold)

	out, err := Compress(data)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, maxCardWidth, img.Bounds().Dx())
}

func TestCompress_RejectsGarbage(t *testing.T) {
	big := bytes.Repeat([]byte("not an image "), compressThreshold)
	_, err := Compress(big)
	assert.Error(t, err)
}
