// Package upload recibe archivos (fotos de tareas, cartas de entrega) y los deja en el almacenamiento configurado.
package upload

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/domain"
)

// FileStore guarda bytes bajo key y devuelve la referencia a persistir (ruta relativa o URL).
type FileStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Thumbnailer genera la miniatura JPEG de una imagen.
type Thumbnailer interface {
	Thumbnail(data []byte) ([]byte, error)
}

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// UploadUseCase valida el archivo, lo guarda y genera la miniatura si es imagen.
type UploadUseCase struct {
	store    FileStore
	thumbs   Thumbnailer
	resolver task.FileResolver
	maxBytes int64
	now      func() time.Time
}

// NewUploadUseCase construye el caso de uso. thumbs puede ser nil (sin miniaturas).
func NewUploadUseCase(store FileStore, thumbs Thumbnailer, resolver task.FileResolver, maxBytes int64) *UploadUseCase {
	return &UploadUseCase{store: store, thumbs: thumbs, resolver: resolver, maxBytes: maxBytes, now: time.Now}
}

// Upload guarda data. El tipo se detecta por contenido; el nombre original solo aporta el slug.
func (uc *UploadUseCase) Upload(ctx context.Context, filename string, data []byte) (*dto.UploadResponse, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("archivo vacío: %w", domain.ErrInvalidInput)
	}
	if uc.maxBytes > 0 && int64(len(data)) > uc.maxBytes {
		return nil, fmt.Errorf("el archivo supera %d bytes: %w", uc.maxBytes, domain.ErrInvalidInput)
	}
	contentType := strings.Split(http.DetectContentType(data), ";")[0]
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("tipo de archivo no soportado %q: %w", contentType, domain.ErrInvalidInput)
	}

	key := uc.objectKey(filename, ext)
	ref, err := uc.store.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}
	out := &dto.UploadResponse{URL: uc.resolve(ref)}

	if uc.thumbs != nil && strings.HasPrefix(contentType, "image/") {
		thumb, err := uc.thumbs.Thumbnail(data)
		if err != nil {
			// la foto original ya quedó guardada; sin miniatura el cliente usa la original
			log.Warn().Err(err).Str("key", key).Msg("no se pudo generar la miniatura")
		} else {
			thumbRef, err := uc.store.Put(ctx, thumbnailKey(key), thumb, "image/jpeg")
			if err != nil {
				return nil, err
			}
			out.ThumbnailURL = uc.resolve(thumbRef)
		}
	}

	log.Info().Str("key", key).Str("content_type", contentType).Int("bytes", len(data)).Msg("archivo subido")
	return out, nil
}

// objectKey uploads/AAAA/MM/<slug>-<id><ext>.
func (uc *UploadUseCase) objectKey(filename, ext string) string {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(filename, "\\", "/")), path.Ext(filename))
	name := slug.Make(base)
	if name == "" || name == "." {
		name = "file"
	}
	if len(name) > 60 {
		name = strings.Trim(name[:60], "-")
	}
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return path.Join("uploads", uc.now().Format("2006/01"), name+"-"+id+ext)
}

// thumbnailKey misma carpeta bajo thumbnails/, siempre .jpg.
func thumbnailKey(key string) string {
	dir, file := path.Split(key)
	return path.Join(dir, "thumbnails", strings.TrimSuffix(file, path.Ext(file))+".jpg")
}

func (uc *UploadUseCase) resolve(ref string) string {
	if uc.resolver == nil {
		return ref
	}
	return uc.resolver.Resolve(ref)
}
