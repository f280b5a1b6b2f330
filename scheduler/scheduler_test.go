package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrainFiresInTimeOrder(t *testing.T) {
	q := New()
	q.Post(KindVBlank, 1, 100)
	q.Post(KindMemoryFillDone, 2, 10)
	q.Post(KindTransferDone, 3, 50)

	fired := q.Drain(60)
	require.Len(t, fired, 2)
	require.Equal(t, KindMemoryFillDone, fired[0].Kind)
	require.Equal(t, KindTransferDone, fired[1].Kind)
	require.Equal(t, uint64(60), q.Now())
}

func TestResetClearsPendingEvents(t *testing.T) {
	q := New()
	q.Post(KindVBlank, 0, 5)
	q.Reset()
	_, ok := q.NextEventTime()
	require.False(t, ok)
	require.Equal(t, uint64(0), q.Now())
}
