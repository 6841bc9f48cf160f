// Package storage guarda archivos subidos en disco local o en Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/sitetrack-api/internal/application/upload"
)

var _ upload.FileStore = (*LocalStore)(nil)

// LocalStore escribe bajo dir; la referencia devuelta es la ruta relativa "/<key>" servida por HTTP.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Put crea los directorios intermedios y escribe el archivo completo.
func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	rel := strings.TrimPrefix(key, "uploads/")
	if strings.Contains(rel, "..") {
		return "", fmt.Errorf("clave inválida %q", key)
	}
	full := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("crear directorio: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("escribir archivo: %w", err)
	}
	return "/uploads/" + rel, nil
}
