package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStatusDecode(t *testing.T) {
	var snap BatchSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"status":"running","batchId":"ab12cd34","entries":[]}`), &snap))
	assert.Equal(t, BatchRunning, snap.Status)

	err := json.Unmarshal([]byte(`{"status":"paused","entries":[]}`), &snap)
	assert.ErrorContains(t, err, "unknown batch status")
}

func TestBatchStatusIsValid(t *testing.T) {
	for _, s := range []BatchStatus{BatchIdle, BatchRunning, BatchCancelled} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, BatchStatus("").IsValid())
	assert.False(t, BatchStatus("done").IsValid())
}
