package settings

import (
	"context"
	"encoding/json"
)

// Repository defines data access for platform settings. Values are
// opaque JSON; typed interpretation happens in the service.
type Repository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	List(ctx context.Context) (map[string]json.RawMessage, error)
	Upsert(ctx context.Context, key string, value json.RawMessage) error
}
