package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7/pkg/s3utils"
)

// Config points the object baseline backend at an S3-compatible service.
type Config struct {
	// Endpoint is host[:port], optionally prefixed with http:// or https://.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL is forced on by an https:// endpoint.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket holds the baseline object. It is created on first use.
	Bucket string `mapstructure:"bucket" default:"schema-sentinel"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, the TLS handshake and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const defaultTimeout = 30 * time.Second

// Timeout returns TimeoutSeconds as a duration, falling back to 30s.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Host returns the endpoint without its scheme and whether TLS is used.
func (c Config) Host() (string, bool) {
	endpoint := strings.TrimSpace(c.Endpoint)
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), c.UseSSL
	default:
		return strings.TrimSuffix(endpoint, "/"), c.UseSSL
	}
}

// Validate rejects an empty endpoint or a bucket name S3 would refuse.
func (c Config) Validate() error {
	if host, _ := c.Host(); host == "" {
		return errors.New("storage endpoint is empty")
	}
	if err := s3utils.CheckValidBucketName(c.Bucket); err != nil {
		return fmt.Errorf("invalid baseline bucket %q: %w", c.Bucket, err)
	}
	return nil
}
