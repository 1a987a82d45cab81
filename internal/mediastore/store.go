// Package mediastore provides durable remote storage for media artifacts.
// Artifacts are uploaded under a namespace and addressed by public URL.
package mediastore

import "context"

// Store defines the interface for the remote media store.
type Store interface {
	// Upload copies a local file into the store under the given namespace
	// and returns its public URL.
	Upload(ctx context.Context, localPath, namespace string) (string, error)

	// Delete removes a previously uploaded object, addressed by the URL
	// Upload returned.
	Delete(ctx context.Context, url string) error
}
