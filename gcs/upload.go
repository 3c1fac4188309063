package gcs

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Uploader streams files into a Cloud Storage bucket so the generation
// request can reference them by gs:// URI.
type Uploader struct {
	client *storage.Client
}

// NewUploader authenticates against Cloud Storage with the service
// account JSON, or with ambient credentials when it's empty.
func NewUploader(ctx context.Context, serviceAccountJSON []byte) (*Uploader, error) {
	var opts []option.ClientOption
	if len(serviceAccountJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(serviceAccountJSON))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Uploader{client: client}, nil
}

// Upload writes the reader's bytes to bucket/objectName and returns
// the object's gs:// URI. Any storage failure collapses into a single
// wrapped error; there is no partial-upload recovery.
func (u *Uploader) Upload(ctx context.Context, bucket, objectName, contentType string, r io.Reader) (string, error) {
	if bucket == "" || objectName == "" {
		return "", fmt.Errorf("error uploading to bucket: bucket and object name are required")
	}
	w := u.client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("error uploading to bucket: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error uploading to bucket: %w", err)
	}
	return ObjectURI(bucket, objectName), nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}

// ObjectURI is the canonical gs:// address of a bucket object.
func ObjectURI(bucket, objectName string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, objectName)
}
