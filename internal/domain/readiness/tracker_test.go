package readiness

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_RecordAndSnapshot(t *testing.T) {
	tr := NewTracker(Store, Completion)
	assert.False(t, tr.AllReady())

	tr.Record(Completion, nil)
	tr.Record(Store, errors.New("dial tcp: connection refused"))

	assert.True(t, tr.Ready(Completion))
	assert.False(t, tr.Ready(Store))
	assert.False(t, tr.AllReady())

	snap := tr.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, Completion, snap[0].Name)
	assert.Equal(t, "dial tcp: connection refused", snap[1].Detail)

	tr.Record(Store, nil)
	assert.True(t, tr.AllReady())
}

func TestTracker_NilIsSafe(t *testing.T) {
	var tr *Tracker
	tr.Record(Store, nil)
	assert.False(t, tr.Ready(Store))
	assert.Nil(t, tr.Snapshot())
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(Completion)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				tr.Record(Completion, nil)
			} else {
				_ = tr.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	assert.True(t, tr.Ready(Completion))
}
