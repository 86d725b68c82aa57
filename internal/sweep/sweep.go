package sweep

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/episweep/internal/experiment"
	"github.com/san-kum/episweep/internal/models"
)

// Request describes a full sweep: the two intervention ranges plus the
// shared defaults every run inherits.
type Request struct {
	TStarts   []int
	Coverages []float64

	Base       models.Params
	Init       []float64
	Integrator string
	Dt         float64
	Days       float64

	// Workers caps the pool size; 0 means GOMAXPROCS.
	Workers int
}

func DefaultRequest() Request {
	cfg := experiment.DefaultConfig()
	return Request{
		TStarts:    IntRange{Start: 1, Stop: 50, Step: 1}.Values(),
		Coverages:  FloatRange{Start: 0.1, Stop: 1.0, Step: 0.1}.Values(),
		Base:       cfg.Params,
		Init:       cfg.Init,
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		Days:       cfg.Days,
	}
}

// Run evaluates every grid point and returns the table in grid order.
// Rows are written by grid index, so the output is deterministic and
// independent of worker completion order.
func Run(ctx context.Context, req Request) (*Table, error) {
	n := len(req.TStarts) * len(req.Coverages)
	table := &Table{
		TStarts:   req.TStarts,
		Coverages: req.Coverages,
		Rows:      make([]Row, n),
	}
	if n == 0 {
		return table, nil
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				table.Rows[idx] = runPoint(ctx, req, idx)
			}
		}()
	}

feed:
	for idx := 0; idx < n; idx++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return table, err
	}
	return table, nil
}

func runPoint(ctx context.Context, req Request, idx int) Row {
	ti := idx / len(req.Coverages)
	ci := idx % len(req.Coverages)
	tStart := req.TStarts[ti]
	coverage := req.Coverages[ci]

	// Per-run copy; the shared base is never mutated.
	params := req.Base
	params.TStart = tStart
	params.Coverage = coverage

	init := make([]float64, len(req.Init))
	copy(init, req.Init)

	row := Row{
		TStart:       tStart,
		Coverage:     coverage,
		MedicineType: models.MedicineType(coverage),
	}

	outcome, err := experiment.Run(ctx, experiment.Config{
		Params:     params,
		Init:       init,
		Integrator: req.Integrator,
		Dt:         req.Dt,
		Days:       req.Days,
	})
	if err != nil {
		row.Err = err
		return row
	}
	row.PeakInfectedChildren = outcome.Peak
	return row
}
