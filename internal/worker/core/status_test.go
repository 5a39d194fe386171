package core_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/memegrid/memegrid/internal/worker/core"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*core.Monitor, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	monitor := core.NewMonitor(client, zap.NewNop())

	cleanup := func() {
		mr.Close()
		client.Close()
	}

	return monitor, cleanup
}

func TestReportAndGetStatuses(t *testing.T) {
	t.Parallel()

	monitor, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()

	err := monitor.ReportStatus(ctx, core.Status{
		WorkerID:    "worker-1",
		WorkerType:  "rank",
		CurrentTask: "refreshing ranks",
		Progress:    50,
		IsHealthy:   true,
	})
	require.NoError(t, err)

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.Equal(t, "worker-1", status.WorkerID)
	assert.Equal(t, "rank", status.WorkerType)
	assert.Equal(t, "refreshing ranks", status.CurrentTask)
	assert.Equal(t, 50, status.Progress)
	assert.True(t, status.IsHealthy)
	assert.False(t, status.LastSeen.IsZero())
}

func TestReportOverwritesPrevious(t *testing.T) {
	t.Parallel()

	monitor, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	status := core.Status{
		WorkerID:   "worker-1",
		WorkerType: "rank",
		Progress:   10,
		IsHealthy:  true,
	}

	require.NoError(t, monitor.ReportStatus(ctx, status))

	status.Progress = 90
	status.IsHealthy = false
	require.NoError(t, monitor.ReportStatus(ctx, status))

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 90, statuses[0].Progress)
	assert.False(t, statuses[0].IsHealthy)
}
