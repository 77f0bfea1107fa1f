package model

import (
	"context"
	"fmt"
	"time"

	"github.com/stweave/stweave/internal/design"
	"github.com/stweave/stweave/internal/rng"
)

// Engine steps a model through training, one epoch per call. Step returns
// the statistics of the epoch it just ran; it must respect ctx cancellation
// between batches.
type Engine interface {
	Step(ctx context.Context, epoch int) (Stats, error)
}

// Stats summarizes one epoch.
type Stats struct {
	Epoch     int
	Batches   int
	Samples   int
	Metagenes int
	Elapsed   time.Duration
}

// Params is the model and optimization shape an engine is built with.
type Params struct {
	NetworkDepth int
	NetworkWidth int
	BatchSize    int
	PatchSize    int
	LearningRate float64
}

// engine is the built-in bookkeeping engine: it schedules batches over the
// design matrix, advances the expansion strategy, and reports statistics.
type engine struct {
	matrix   *design.Matrix
	strategy Strategy
	params   Params
	source   *rng.Source
}

// New builds the bookkeeping engine over the given design matrix.
func New(matrix *design.Matrix, strategy Strategy, params Params, source *rng.Source) (Engine, error) {
	if matrix == nil || len(matrix.Slides) == 0 {
		return nil, fmt.Errorf("model: design matrix has no slides")
	}
	if strategy == nil {
		return nil, fmt.Errorf("model: no expansion strategy")
	}
	if source == nil {
		return nil, fmt.Errorf("model: no random source")
	}
	if params.NetworkDepth < 1 || params.NetworkWidth < 1 {
		return nil, fmt.Errorf("model: network depth and width must be >= 1, got %dx%d", params.NetworkDepth, params.NetworkWidth)
	}
	if params.BatchSize < 1 {
		return nil, fmt.Errorf("model: batch size must be >= 1, got %d", params.BatchSize)
	}
	if params.PatchSize < 1 {
		return nil, fmt.Errorf("model: patch size must be >= 1, got %d", params.PatchSize)
	}
	if params.LearningRate <= 0 {
		return nil, fmt.Errorf("model: learning rate must be > 0, got %g", params.LearningRate)
	}
	return &engine{matrix: matrix, strategy: strategy, params: params, source: source}, nil
}

// Step visits every slide once in a per-epoch random order, batching them by
// the configured batch size.
func (e *engine) Step(ctx context.Context, epoch int) (Stats, error) {
	started := time.Now()
	slides := len(e.matrix.Slides)
	order := e.source.Perm(slides)

	batches := 0
	samples := 0
	for lo := 0; lo < slides; lo += e.params.BatchSize {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		hi := lo + e.params.BatchSize
		if hi > slides {
			hi = slides
		}
		samples += len(order[lo:hi])
		batches++
	}

	return Stats{
		Epoch:     epoch,
		Batches:   batches,
		Samples:   samples,
		Metagenes: e.strategy.Metagenes(epoch),
		Elapsed:   time.Since(started),
	}, nil
}
