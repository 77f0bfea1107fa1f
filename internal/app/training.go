package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stweave/stweave/internal/config"
	"github.com/stweave/stweave/internal/ctxlog"
	"github.com/stweave/stweave/internal/design"
	"github.com/stweave/stweave/internal/fsutil"
	"github.com/stweave/stweave/internal/model"
	"github.com/stweave/stweave/internal/session"
	"github.com/stweave/stweave/internal/train"
	"github.com/stweave/stweave/items/device"
	"github.com/stweave/stweave/items/logfile"
	"github.com/stweave/stweave/items/monitor"
	"github.com/stweave/stweave/items/savepath"
	"github.com/stweave/stweave/items/seed"
)

// runTraining is the `stweave run` command: activate the run's sessions and
// train the project inside them.
func (a *App) runTraining(ctx context.Context) error {
	if a.config.StatusPort > 0 {
		a.startStatusServer(a.config.StatusPort)
		defer a.closeStatusServer()
	}

	sessions, err := a.runSessions(ctx)
	if err != nil {
		return err
	}
	return a.stack.Within(func() error {
		return a.trainProject(ctx)
	}, sessions...)
}

// runSessions assembles the sessions a run activates: the saved session
// named by --session first, then the fresh one built from the command line,
// so explicit flags win over loaded state.
func (a *App) runSessions(ctx context.Context) ([]*session.Session, error) {
	var sessions []*session.Session
	if a.config.SessionFile != "" {
		loaded, err := session.LoadFile(ctx, a.config.SessionFile, a.registry)
		if err != nil {
			return nil, err
		}
		ctxlog.FromContext(ctx).Info("Restored saved session.", "path", a.config.SessionFile, "items", loaded.Len())
		sessions = append(sessions, loaded)
	}

	overrides := map[string]any{
		savepath.ItemName: a.config.SavePath,
		logfile.ItemName:  fsutil.FirstUnique(filepath.Join(a.config.SavePath, "log")),
	}
	if a.config.MonitorURL != "" {
		overrides[monitor.ItemName] = a.config.MonitorURL
	}
	if a.config.Device != "" {
		overrides[device.ItemName] = a.config.Device
	}
	if a.config.SeedSet {
		overrides[seed.ItemName] = a.config.Seed
	}
	fresh, err := session.NewSession(a.registry, overrides)
	if err != nil {
		return nil, err
	}
	return append(sessions, fresh), nil
}

// trainProject loads and merges the project file, saves the merged document
// beside the run artifacts, and hands the assembled engine to the training
// loop.
func (a *App) trainProject(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	userDoc, err := config.Load(ctx, a.config.ProjectFile)
	if err != nil {
		return err
	}
	merged := config.Merge(config.Default(), userDoc)
	merged.ReconcileVersion(ctx)

	if len(merged.Slides) == 0 {
		return fmt.Errorf("project file %s names no slides", a.config.ProjectFile)
	}

	mergedPath, ok := savepath.Resolve(a.stack, "merged_config.hcl")
	if !ok {
		return fmt.Errorf("save_path is not configured")
	}
	mergedPath = fsutil.FirstUnique(mergedPath)
	if err := os.MkdirAll(filepath.Dir(mergedPath), 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	if err := config.WriteFile(mergedPath, merged); err != nil {
		return err
	}
	logger.Info("Saved merged project configuration.", "path", mergedPath)

	projectDir := filepath.Dir(a.config.ProjectFile)
	slides := make([]design.Slide, 0, len(merged.Slides))
	for _, s := range merged.Slides {
		path := s.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectDir, path)
		}
		slides = append(slides, design.Slide{Name: path, Covariates: s.Covariates})
		if s.Options != nil {
			logger.Debug("Slide options.", "slide", path, "scale_factor", s.Options.ScaleFactor, "min_counts", s.Options.MinCounts)
		}
	}
	matrix, err := design.From(slides)
	if err != nil {
		return err
	}
	rows, cols := matrix.Dims()
	logger.Debug("Design matrix assembled.", "slides", rows, "columns", cols)

	strategy, err := model.NewStrategy(merged.Expansion.Type, merged.Expansion.Params)
	if err != nil {
		return err
	}
	eng, err := model.New(matrix, strategy, model.Params{
		NetworkDepth: merged.Project.NetworkDepth,
		NetworkWidth: merged.Project.NetworkWidth,
		BatchSize:    merged.Optimization.BatchSize,
		PatchSize:    merged.Optimization.PatchSize,
		LearningRate: merged.Optimization.LearningRate,
	}, a.source)
	if err != nil {
		return err
	}

	return train.Run(ctx, a.stack, eng, train.Options{
		Epochs:             merged.Optimization.Epochs,
		CheckpointInterval: merged.Optimization.CheckpointInterval,
	})
}
