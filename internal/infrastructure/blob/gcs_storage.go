// Package blob sube las fotos de rocas a Google Cloud Storage.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/pkg/config"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

var _ ports.PhotoStorage = (*GCSStorage)(nil)

// GCSStorage implementa ports.PhotoStorage con la API JSON de Cloud Storage.
type GCSStorage struct {
	service *storage.Service
	bucket  string
	baseURL string
	log     *logger.Logger
}

// NewGCSStorage construye el cliente. Sin CredentialsFile se usan las credenciales por defecto.
func NewGCSStorage(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*GCSStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blob: bucket vacío")
	}
	if log == nil {
		log = logger.Nop()
	}
	opts := []option.ClientOption{option.WithScopes(storage.DevstorageReadWriteScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	service, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("blob: inicializar cliente de storage: %w", err)
	}
	return &GCSStorage{
		service: service,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		log:     log,
	}, nil
}

// Upload sube body como objectName y devuelve su URL pública.
func (s *GCSStorage) Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	obj := &storage.Object{Name: objectName, ContentType: contentType}
	call := s.service.Objects.Insert(s.bucket, obj).Media(body).Context(ctx)
	if _, err := call.Do(); err != nil {
		return "", fmt.Errorf("blob: subir %s: %w", objectName, err)
	}
	s.log.Debug().Str("bucket", s.bucket).Str("object", objectName).Msg("foto subida")
	return PublicURL(s.baseURL, s.bucket, objectName), nil
}

// PublicURL base/bucket/objeto, escapando cada segmento del objeto.
func PublicURL(baseURL, bucket, objectName string) string {
	parts := strings.Split(objectName, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(baseURL, "/") + "/" + bucket + "/" + strings.Join(parts, "/")
}
