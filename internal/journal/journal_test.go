package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minidb/internal/testutil"
)

func openMemory(t *testing.T) *Journal {
	t.Helper()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	j, err := Open(":memory:", testutil.NewDeterministicClock(start, time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndTail(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, "sess-1", KindRecordInserted, "alpha"))
	require.NoError(t, j.Record(ctx, "sess-1", KindStoreWiped, ""))

	events, err := j.Tail(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, KindStoreWiped, events[0].Kind)
	assert.Equal(t, KindRecordInserted, events[1].Kind)
	assert.Equal(t, "alpha", events[1].Detail)
	assert.Equal(t, "sess-1", events[1].SessionID)
	assert.True(t, events[0].At.After(events[1].At))
}

func TestTailHonorsLimit(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, "sess-1", KindIdentityChanged, "admin"))
	}

	events, err := j.Tail(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, int64(5), events[0].Seq)
}

func TestTailEmptyJournal(t *testing.T) {
	j := openMemory(t)

	events, err := j.Tail(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, nil)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Record(context.Background(), "sess-1", KindWipeDeclined, ""))

	events, err := j.Tail(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, KindWipeDeclined, events[0].Kind)
}
