package service

import (
	"context"
	"sync"
)

const batchWorkers = 4

type BatchOp string

const (
	BatchOpAnalyze BatchOp = "analyze"
	BatchOpExport  BatchOp = "export"
)

// BatchError records a single failed item. The lead id is echoed back so
// callers can match errors to their input list.
type BatchError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// BatchResult summarizes one batch run. SuccessCount+FailedCount always
// equals the number of submitted ids, duplicates included.
type BatchResult struct {
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	Errors       []BatchError `json:"errors"`
}

// RunBatch applies op to every id with a bounded worker pool. Items are
// independent: one failure never stops the rest, and duplicate ids are
// each processed as their own item. Context cancellation is recorded as a
// per-item failure for whatever has not run yet.
func (s *LeadService) RunBatch(ctx context.Context, op BatchOp, ids []string) BatchResult {
	type itemResult struct {
		index int
		err   error
	}

	results := make([]itemResult, len(ids))
	indexes := make(chan int)

	var wg sync.WaitGroup
	workers := batchWorkers
	if len(ids) < workers {
		workers = len(ids)
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = itemResult{index: i, err: s.runBatchItem(ctx, op, ids[i])}
			}
		}()
	}

	for i := range ids {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	result := BatchResult{Errors: []BatchError{}}
	for i, r := range results {
		if r.err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, BatchError{ID: ids[i], Message: r.err.Error()})
		} else {
			result.SuccessCount++
		}
	}
	return result
}

func (s *LeadService) runBatchItem(ctx context.Context, op BatchOp, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch op {
	case BatchOpExport:
		_, err := s.Export(ctx, id, nil)
		return err
	default:
		_, err := s.Analyze(ctx, id)
		return err
	}
}
