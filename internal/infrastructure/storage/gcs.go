package storage

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/jhoicas/sitetrack-api/internal/application/upload"
)

var _ upload.FileStore = (*GCSStore)(nil)

// GCSStore sube objetos a un bucket de Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore usa credentialsJSON si viene; si no, las credenciales por defecto (ADC).
func NewGCSStore(ctx context.Context, bucket, credentialsJSON string) (*GCSStore, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Put escribe el objeto y devuelve su URL pública.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", key, err)
	}
	return "https://storage.googleapis.com/" + s.bucket + "/" + key, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
