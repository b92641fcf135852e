package kvstore

// Config holds configuration for the Redis connection.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the logical database index.
	DB int `mapstructure:"db" default:"0"`
	// TimeoutSeconds bounds dialing, reads and writes.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
