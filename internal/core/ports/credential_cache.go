package ports

import "context"

// CredentialCache remembers credentials that recently verified successfully,
// so repeated ingest calls skip the memory-hard hash. Keys are opaque digests;
// plaintext secrets never reach the cache.
type CredentialCache interface {
	Seen(ctx context.Context, key string) (bool, error)
	Remember(ctx context.Context, key string) error
}
