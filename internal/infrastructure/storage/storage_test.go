package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)

	ref, err := s.Put(context.Background(), "uploads/2025/03/foto-abc.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/2025/03/foto-abc.jpg", ref)

	got, err := os.ReadFile(filepath.Join(dir, "2025", "03", "foto-abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	_, err := NewLocalStore(t.TempDir()).Put(context.Background(), "uploads/../../etc/passwd", []byte("x"), "")
	assert.Error(t, err)
}

func TestThumbnail_Width(t *testing.T) {
	out, err := NewThumbnailer(200).Thumbnail(pngBytes(t, 800, 400))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestThumbnail_InvalidImage(t *testing.T) {
	_, err := NewThumbnailer(0).Thumbnail([]byte("no es una imagen"))
	assert.Error(t, err)
}

func TestThumbnail_WebP(t *testing.T) {
	// 1x1 webp sin pérdida
	data, err := base64.StdEncoding.DecodeString("UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA==")
	require.NoError(t, err)

	out, err := NewThumbnailer(200).Thumbnail(data)
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}
