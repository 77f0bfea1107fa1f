// Package train drives a training run: it loops the engine over epochs,
// logs per-epoch statistics, and checkpoints the effective session state so
// a run can be reproduced or resumed from its save directory.
package train

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/stweave/stweave/internal/ctxlog"
	"github.com/stweave/stweave/internal/model"
	"github.com/stweave/stweave/internal/session"
	"github.com/stweave/stweave/items/device"
	"github.com/stweave/stweave/items/savepath"
)

// Options controls a run.
type Options struct {
	// Epochs is the number of epochs to run. Must be >= 1.
	Epochs int
	// CheckpointInterval is the number of epochs between checkpoints. The
	// final epoch is always checkpointed; zero disables the intermediate
	// ones.
	CheckpointInterval int
}

// Run executes a full training run on the given stack's effective state.
// The save_path item must be configured: checkpoints land under it.
func Run(ctx context.Context, st *session.Stack, eng model.Engine, opts Options) error {
	logger := ctxlog.FromContext(ctx)

	if opts.Epochs < 1 {
		return fmt.Errorf("train: epochs must be >= 1, got %d", opts.Epochs)
	}
	savePath, ok := savepath.Resolve(st)
	if !ok {
		return fmt.Errorf("train: save_path is not configured")
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	dev, _ := session.Get[string](st, device.ItemName)
	logger.Info("🚀 Starting training run.",
		"epochs", opts.Epochs,
		"device", dev,
		"save_path", savePath,
	)

	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("train: interrupted before epoch %d: %w", epoch, err)
		}

		stats, err := eng.Step(ctx, epoch)
		if err != nil {
			return fmt.Errorf("train: epoch %d: %w", epoch, err)
		}
		logger.Info("Epoch complete.",
			"epoch", stats.Epoch,
			"batches", stats.Batches,
			"samples", stats.Samples,
			"metagenes", stats.Metagenes,
			"elapsed", stats.Elapsed,
		)

		if !checkpointDue(epoch, opts) {
			continue
		}
		dir, err := writeCheckpoint(ctx, st, savePath, runID, epoch)
		if err != nil {
			return fmt.Errorf("train: checkpoint at epoch %d: %w", epoch, err)
		}
		logger.Info("Saved checkpoint.", "epoch", epoch, "path", dir)
	}

	logger.Info("🏁 Training run finished.", "epochs", opts.Epochs)
	return nil
}

func checkpointDue(epoch int, opts Options) bool {
	if epoch == opts.Epochs {
		return true
	}
	return opts.CheckpointInterval > 0 && epoch%opts.CheckpointInterval == 0
}

// writeCheckpoint captures the non-default session state plus a small meta
// document under <save_path>/checkpoints/epoch-NNNNNN.
func writeCheckpoint(ctx context.Context, st *session.Stack, savePath, runID string, epoch int) (string, error) {
	dir := filepath.Join(savePath, "checkpoints", fmt.Sprintf("epoch-%06d", epoch))
	if err := session.SaveFile(ctx, filepath.Join(dir, "session.hcl"), st.Snapshot()); err != nil {
		return "", err
	}
	if err := writeMeta(filepath.Join(dir, "meta.hcl"), runID, epoch); err != nil {
		return "", err
	}
	return dir, nil
}
