package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchProcessPreservesOrder(t *testing.T) {
	engine := newTestEngine(t)
	bp := NewBatchProcessor(newTestLogger(), engine, 4)

	items := make([]BatchItem, 20)
	for i := range items {
		items[i] = BatchItem{
			ID:         fmt.Sprintf("call-%02d", i),
			Transcript: fmt.Sprintf("Customer: transcript number %d, my bill is wrong.", i),
		}
	}

	results := bp.Process(context.Background(), items)

	require.Len(t, results, len(items))
	for i, result := range results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, items[i].ID, result.ID)
		assert.True(t, result.Success)
		require.NotNil(t, result.Report)
		assert.Contains(t, result.Report.Transcript, fmt.Sprintf("number %d", i))
	}
}

func TestBatchProcessAssignsMissingIDs(t *testing.T) {
	engine := newTestEngine(t)
	bp := NewBatchProcessor(newTestLogger(), engine, 2)

	results := bp.Process(context.Background(), []BatchItem{
		{Transcript: "Agent: hello"},
		{Transcript: "Agent: goodbye"},
	})

	require.Len(t, results, 2)
	assert.NotEmpty(t, results[0].ID)
	assert.NotEmpty(t, results[1].ID)
	assert.NotEqual(t, results[0].ID, results[1].ID)
}

func TestBatchProcessEmptyAndDegradedItemsSucceed(t *testing.T) {
	engine := newTestEngine(t)
	bp := NewBatchProcessor(newTestLogger(), engine, 2)

	items := []BatchItem{
		{ID: "a", Transcript: "Agent: all good here"},
		{ID: "b", Transcript: ""},
		{ID: "c", Transcript: "no speaker labels at all"},
	}

	results := bp.Process(context.Background(), items)

	require.Len(t, results, 3)
	for _, result := range results {
		assert.True(t, result.Success, "item %s", result.ID)
		require.NotNil(t, result.Report, "item %s", result.ID)
	}
	assert.True(t, results[1].Report.Degraded)
	assert.True(t, results[2].Report.Degraded)
}

func TestBatchProcessPanicIsolation(t *testing.T) {
	// A nil engine makes every item panic inside the worker. The panic must
	// be converted into a per-item failure, never escape the pool.
	bp := NewBatchProcessor(newTestLogger(), nil, 1)

	result := bp.processItem(0, BatchItem{ID: "boom", Transcript: "Agent: hi"})

	assert.False(t, result.Success)
	assert.Equal(t, "boom", result.ID)
	assert.Equal(t, 0, result.Index)
	assert.Contains(t, result.Error, "panic")
	assert.Nil(t, result.Report)
}

func TestBatchProcessCanceledContext(t *testing.T) {
	engine := newTestEngine(t)
	bp := NewBatchProcessor(newTestLogger(), engine, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]BatchItem, 8)
	for i := range items {
		items[i] = BatchItem{ID: fmt.Sprintf("item-%d", i), Transcript: "Agent: hello"}
	}

	results := bp.Process(ctx, items)

	require.Len(t, results, len(items))
	for i, result := range results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, items[i].ID, result.ID)
		if !result.Success {
			assert.Contains(t, result.Error, "context canceled")
			assert.Nil(t, result.Report)
		}
	}
}

func TestBatchProcessEmptyInput(t *testing.T) {
	engine := newTestEngine(t)
	bp := NewBatchProcessor(newTestLogger(), engine, 2)

	results := bp.Process(context.Background(), nil)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestBatchProcessorDefaultWorkers(t *testing.T) {
	engine := newTestEngine(t)

	bp := NewBatchProcessor(newTestLogger(), engine, 0)
	assert.Greater(t, bp.Workers(), 0)

	bp = NewBatchProcessor(newTestLogger(), engine, 3)
	assert.Equal(t, 3, bp.Workers())
}
