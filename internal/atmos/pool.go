package atmos

import (
	"atmos-ca/internal/grid"

	"golang.org/x/sync/errgroup"
)

// workerPool fans a stage out over bounded goroutines. Each chunk owns a
// transition batch; batches are drained in chunk order after the barrier so
// the result does not depend on scheduling.
type workerPool struct {
	workers int
	chunk   int
	batches []grid.Batch
}

func newWorkerPool(workers, chunk int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	if chunk <= 0 {
		chunk = 1
	}
	return &workerPool{workers: workers, chunk: chunk}
}

// run calls fn for every handle and returns after all chunks finish and
// their transitions have been applied to s.
func (p *workerPool) run(s *grid.Store, handles []grid.Handle, fn func(h grid.Handle, b *grid.Batch)) (woken, slept int) {
	if len(handles) == 0 {
		return 0, 0
	}
	chunks := (len(handles) + p.chunk - 1) / p.chunk
	for len(p.batches) < chunks {
		p.batches = append(p.batches, grid.Batch{})
	}

	if chunks == 1 || p.workers == 1 {
		for i := 0; i < chunks; i++ {
			p.runChunk(handles, i, fn)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(p.workers)
		for i := 0; i < chunks; i++ {
			g.Go(func() error {
				p.runChunk(handles, i, fn)
				return nil
			})
		}
		_ = g.Wait()
	}

	for i := 0; i < chunks; i++ {
		w, sl := p.batches[i].Apply(s)
		woken += w
		slept += sl
	}
	return woken, slept
}

func (p *workerPool) runChunk(handles []grid.Handle, i int, fn func(h grid.Handle, b *grid.Batch)) {
	start := i * p.chunk
	end := min(start+p.chunk, len(handles))
	b := &p.batches[i]
	for _, h := range handles[start:end] {
		fn(h, b)
	}
}
