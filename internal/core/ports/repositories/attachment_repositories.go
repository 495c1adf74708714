package repositories

import (
	"context"
	"time"
)

// AttachmentSigner turns a stored file reference into a temporary download URL.
type AttachmentSigner interface {
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
