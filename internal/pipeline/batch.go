package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/joseph-ayodele/statement-parser/internal/entity"
)

// Document is one batch input.
type Document struct {
	Filename string
	Data     []byte
}

// Outcome is one batch result, index-aligned with the input. Exactly one of
// Record and Err is set.
type Outcome struct {
	Filename string                  `json:"filename"`
	Record   *entity.StatementRecord `json:"record,omitempty"`
	Err      error                   `json:"-"`
}

// ParseBatch parses up to maxBatch documents with at most workers in flight.
// One document's failure never aborts its siblings: the returned slice is
// index-aligned with docs and mixes successes and per-document errors.
// Cancelling ctx stops scheduling new documents; in-flight ones finish.
func (p *Parser) ParseBatch(ctx context.Context, docs []Document, workers int) []Outcome {
	if workers <= 0 {
		workers = 1
	}
	outcomes := make([]Outcome, len(docs))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, doc := range docs {
		outcomes[i].Filename = doc.Filename
		if err := sem.Acquire(ctx, 1); err != nil {
			// batch cancelled: remaining documents are not scheduled
			outcomes[i].Err = err
			continue
		}
		wg.Add(1)
		go func(i int, doc Document) {
			defer wg.Done()
			defer sem.Release(1)
			// in-flight documents run with the parent context so a batch
			// cancel does not abort work already started
			rec, err := p.Parse(context.WithoutCancel(ctx), doc.Data, doc.Filename)
			if err != nil {
				p.logger.Error("batch document failed", "filename", doc.Filename, "error", err)
				outcomes[i].Err = err
				return
			}
			outcomes[i].Record = rec
		}(i, doc)
	}
	wg.Wait()
	return outcomes
}
