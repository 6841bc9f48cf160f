package storage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registra el decodificador webp para imaging.Decode

	"github.com/jhoicas/sitetrack-api/internal/application/upload"
)

var _ upload.Thumbnailer = (*ImagingThumbnailer)(nil)

// ImagingThumbnailer redimensiona a un ancho fijo conservando la proporción.
type ImagingThumbnailer struct {
	width int
}

func NewThumbnailer(width int) *ImagingThumbnailer {
	if width <= 0 {
		width = 200
	}
	return &ImagingThumbnailer{width: width}
}

// Thumbnail decodifica (respetando la orientación EXIF) y codifica en JPEG.
func (t *ImagingThumbnailer) Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decodificar imagen: %w", err)
	}
	thumb := imaging.Resize(img, t.width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("codificar miniatura: %w", err)
	}
	return buf.Bytes(), nil
}
