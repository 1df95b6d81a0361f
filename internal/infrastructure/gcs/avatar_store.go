package gcs

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/pkg/helpers"
)

// AvatarStore keeps account avatars in a GCS bucket.
type AvatarStore struct {
	Client  *storage.Client
	Bucket  string
	Timeout time.Duration
}

func NewAvatarStore(client *storage.Client, bucket string) *AvatarStore {
	return &AvatarStore{Client: client, Bucket: bucket, Timeout: 30 * time.Second}
}

// Upload writes r to objectPath and returns the object's public URL.
func (s *AvatarStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}

var _ application.AvatarStore = (*AvatarStore)(nil)
