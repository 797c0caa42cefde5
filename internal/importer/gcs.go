package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/ecaldwell/cipher/internal/transaction"
)

// FetchGCS downloads a history export from a GCS bucket.
func FetchGCS(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return data, nil
}

// ParseGCS downloads and parses a history export stored in GCS.
func ParseGCS(ctx context.Context, bucketName, objectName string) ([]transaction.Transaction, error) {
	data, err := FetchGCS(ctx, bucketName, objectName)
	if err != nil {
		return nil, err
	}

	return Parse(bytes.NewReader(data))
}
