package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"deduction-reconciliation-backend/internal/config"
)

// GCSStore keeps documents in a Google Cloud Storage bucket. Objects are
// publicly readable; the returned URL is the direct bucket URL.
type GCSStore struct {
	client  *storage.Client
	bucket  string
	urlBase string
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	var client *storage.Client
	var err error
	if strings.TrimSpace(cfg.CredentialsJSON) != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else {
		// Application default credentials.
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("init gcs client: %w", err)
	}

	return &GCSStore{
		client:  client,
		bucket:  cfg.Bucket,
		urlBase: strings.TrimRight(cfg.PublicURLBase, "/"),
	}, nil
}

func (s *GCSStore) Upload(ctx context.Context, localPath, folder string) (*ObjectRef, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}

	objectName := folder + "/" + uuid.New().String() + filepath.Ext(localPath)

	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = detectContentType(data, localPath)
	wc.Metadata = map[string]string{"x-goog-acl": "public-read"}

	if _, err := wc.Write(data); err != nil {
		return nil, fmt.Errorf("write object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("close object writer %s: %w", objectName, err)
	}

	return &ObjectRef{
		ID:  objectName,
		URL: fmt.Sprintf("%s/%s/%s", s.urlBase, s.bucket, objectName),
	}, nil
}

func (s *GCSStore) Delete(ctx context.Context, id string) error {
	err := s.client.Bucket(s.bucket).Object(id).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error { return s.client.Close() }

func detectContentType(data []byte, path string) string {
	ct := http.DetectContentType(data)
	// DetectContentType cannot see past the zip container of office files.
	if ct == "application/zip" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case ".docx":
			return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		}
	}
	return ct
}
