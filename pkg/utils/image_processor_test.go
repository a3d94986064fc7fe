package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcessImage(t *testing.T) {
	t.Run("wide image is resized", func(t *testing.T) {
		data, contentType, err := ProcessImage(encodePNG(t, 2400, 100), "wide.png")

		require.NoError(t, err)
		require.Contains(t, []string{"image/webp", "image/jpeg"}, contentType)
		var cfg image.Config
		if contentType == "image/webp" {
			cfg, err = webp.DecodeConfig(bytes.NewReader(data))
		} else {
			cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
		}
		require.NoError(t, err)
		assert.Equal(t, MaxImageWidth, cfg.Width)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, err := ProcessImage(bytes.NewBufferString("not an image"), "x.png")
		assert.Error(t, err)
	})
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.False(t, IsImage("application/pdf"))
}
