package aligner

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome of one job in a batch.
type BatchItem struct {
	Job    Job
	Result *Result
	Err    error
}

// ProcessBatch runs jobs concurrently, at most Concurrency at a time. Items
// come back in input order; one job failing does not stop the others.
func (s *Service) ProcessBatch(ctx context.Context, jobs []Job) []BatchItem {
	items := make([]BatchItem, len(jobs))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		items[i].Job = job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = s.Process(ctx, job)
			return nil
		})
	}
	_ = g.Wait()
	return items
}
