package baseline

import (
	"context"
	"testing"

	"schema-sentinel/core/resolve"
	"schema-sentinel/core/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestService_CheckLogsEveryChange(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "src/main/resources/import.sql")

	store := snapshot.NewMemoryStore()
	require.NoError(t, store.InsertOrUpdate(context.Background(), snapshot.NewEntry("src/main/resources/old.sql", modTime)))

	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(store, resolve.NewResolver(base, 0, zap.NewNop()), resolve.Config{Resources: "import.sql"}, zap.New(core))

	result, err := svc.Check(context.Background(), resolve.Selection{})
	require.NoError(t, err)
	assert.True(t, result.Report.Changed())

	assert.Equal(t, 1, logs.FilterMessage("Modifications have been detected").Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("identity", "src/main/resources/import.sql")).FilterField(zap.String("change", "created")).Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("identity", "src/main/resources/old.sql")).FilterField(zap.String("change", "deleted")).Len())
	assert.Equal(t, 1, logs.FilterMessage("Rebuild required").Len())
}
