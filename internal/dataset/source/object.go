package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"

	"penguinlens/internal/dataset"
	"penguinlens/pkg/platform/sentinel"
)

// Object reads the dataset CSV from an S3-compatible bucket.
type Object struct {
	client *minio.Client
	bucket string
	key    string
}

func NewObject(client *minio.Client, bucket, key string) *Object {
	return &Object{client: client, bucket: bucket, key: key}
}

func (o *Object) Name() string {
	return "object:" + o.bucket + "/" + o.key
}

func (o *Object) FetchRaw(ctx context.Context) ([]dataset.RawRecord, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, o.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get dataset object: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer obj.Close()

	rows, err := ReadCSV(obj)
	if err != nil {
		var errResp minio.ErrorResponse
		if errors.As(err, &errResp) {
			if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
				return nil, fmt.Errorf("dataset object %s/%s: %w", o.bucket, o.key, sentinel.ErrNotFound)
			}
			return nil, fmt.Errorf("read dataset object: %w: %w", sentinel.ErrUnavailable, err)
		}
		return nil, err
	}
	return rows, nil
}
