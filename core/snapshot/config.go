package snapshot

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
	BackendObject = "object"
	BackendRedis  = "redis"
)

// Config holds configuration for the baseline store.
type Config struct {
	// Backend selects the store implementation (memory, sql, object, redis).
	Backend string `mapstructure:"backend" default:"sql"`
	// Table is the table name used by the sql backend.
	Table string `mapstructure:"table" default:"schema_baseline"`
	// ObjectName is the object key used by the object backend.
	ObjectName string `mapstructure:"object_name" default:"snapshot/baseline.msgpack"`
	// RedisKey is the hash key used by the redis backend.
	RedisKey string `mapstructure:"redis_key" default:"schema-sentinel:baseline"`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendMemory, BackendSQL, BackendObject, BackendRedis:
		return true
	default:
		return false
	}
}
