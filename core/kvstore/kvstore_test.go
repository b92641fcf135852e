package kvstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		client, err := Connect(Config{Addr: "localhost:1", TimeoutSeconds: 1})
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("Live Server", func(t *testing.T) {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			t.Skip("REDIS_ADDR not set")
		}
		client, err := Connect(Config{Addr: addr})
		require.NoError(t, err)
		defer client.Close()
	})
}
