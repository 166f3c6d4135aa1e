package analytics

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BatchItem is one transcript queued for batch analysis. ID is optional;
// a UUID is assigned when empty.
type BatchItem struct {
	ID         string `json:"id"`
	Transcript string `json:"transcript"`
}

// BatchResult is the outcome for one batch item. A failed item carries the
// error message instead of a report; sibling items are unaffected.
type BatchResult struct {
	Index   int             `json:"index"`
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Report  *AnalysisReport `json:"report,omitempty"`
}

// BatchProcessor fans transcripts out over a bounded worker pool. The
// engine is stateless, so workers share it without coordination. Results
// preserve input order regardless of completion order.
type BatchProcessor struct {
	logger  *logrus.Entry
	engine  *Engine
	workers int
}

// NewBatchProcessor creates a processor with the given worker count,
// defaulting to the number of CPUs.
func NewBatchProcessor(logger *logrus.Logger, engine *Engine, workers int) *BatchProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchProcessor{
		logger:  logger.WithField("component", "batch_processor"),
		engine:  engine,
		workers: workers,
	}
}

// Workers returns the configured pool size.
func (bp *BatchProcessor) Workers() int {
	return bp.workers
}

// Process analyzes all items and returns one result per item, in input
// order. A panic or failure inside one item's pipeline is recorded on that
// item alone. Items not yet started when ctx is canceled are marked
// canceled; in-flight analyses run to completion since they have no side
// effects to roll back.
func (bp *BatchProcessor) Process(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))
	if len(items) == 0 {
		return results
	}

	workers := bp.workers
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = bp.processItem(idx, items[idx])
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range items {
		select {
		case jobs <- i:
			dispatched++
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	// Anything never handed to a worker is a canceled item.
	if dispatched < len(items) {
		for i := range results {
			if results[i].ID == "" && !results[i].Success {
				results[i] = BatchResult{
					Index:   i,
					ID:      itemID(items[i]),
					Success: false,
					Error:   context.Cause(ctx).Error(),
				}
			}
		}
	}

	return results
}

// processItem runs one analysis under panic recovery so a defect in a
// single transcript cannot take down the batch.
func (bp *BatchProcessor) processItem(index int, item BatchItem) (result BatchResult) {
	id := itemID(item)

	defer func() {
		if r := recover(); r != nil {
			bp.logger.WithFields(logrus.Fields{
				"item_id":     id,
				"panic_value": r,
				"stack_trace": string(debug.Stack()),
			}).Error("Panic recovered during batch analysis")

			result = BatchResult{
				Index:   index,
				ID:      id,
				Success: false,
				Error:   fmt.Sprintf("analysis panic: %v", r),
			}
		}
	}()

	report := bp.engine.Analyze(item.Transcript)
	return BatchResult{
		Index:   index,
		ID:      id,
		Success: true,
		Report:  report,
	}
}

func itemID(item BatchItem) string {
	if item.ID != "" {
		return item.ID
	}
	return uuid.NewString()
}
