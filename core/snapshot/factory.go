package snapshot

import (
	"errors"
	"fmt"

	"schema-sentinel/core/storage"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Deps carries the connections a backend may need. Only the one matching
// Config.Backend has to be set.
type Deps struct {
	DB      *gorm.DB
	Storage storage.Client
	Bucket  string
	Redis   redis.Cmdable
}

// New builds the store selected by cfg.Backend.
func New(cfg Config, deps Deps) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQL:
		if deps.DB == nil {
			return nil, errors.New("sql snapshot backend requires a database connection")
		}
		store, err := NewSQLStore(deps.DB, cfg.Table)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendObject:
		if deps.Storage == nil {
			return nil, errors.New("object snapshot backend requires a storage client")
		}
		if deps.Bucket == "" {
			return nil, errors.New("object snapshot backend requires a bucket")
		}
		return NewObjectStore(deps.Storage, deps.Bucket, cfg.ObjectName), nil
	case BackendRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis snapshot backend requires a redis client")
		}
		return NewRedisStore(deps.Redis, cfg.RedisKey), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
