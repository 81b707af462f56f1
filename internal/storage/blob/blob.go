// Package blob stores uploaded files and returns their public URLs.
package blob

import (
	"context"
	"fmt"
	"time"
)

// Store uploads data under key and returns a public download URL.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ProviderImageKey is the object key of a provider photo.
func ProviderImageKey(uid string, at time.Time) string {
	return fmt.Sprintf("providers/%s-%d", uid, at.UnixMilli())
}
