package config

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getStorageClient initializes a Google Cloud Storage client.
// Prefers ADC (Cloud Run service account / GOOGLE_APPLICATION_CREDENTIALS);
// set GCS_CREDENTIALS_JSON to provide explicit JSON locally.
func getStorageClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

// GetStorageClient exposes the Google Cloud Storage client.
func GetStorageClient(ctx context.Context) (*storage.Client, error) {
	return getStorageClient(ctx)
}

// DownloadObject reads an object from the configured import bucket.
// Import payloads are staged here by the upstream export job.
func DownloadObject(ctx context.Context, objectName string) ([]byte, error) {
	bucketName := strings.TrimSpace(os.Getenv("IMPORT_BUCKET"))
	if bucketName == "" {
		bucketName = strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	}
	if bucketName == "" {
		return nil, errors.New("IMPORT_BUCKET is required")
	}
	if strings.TrimSpace(objectName) == "" {
		return nil, errors.New("object name is required")
	}

	client, err := getStorageClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
