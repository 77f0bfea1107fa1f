package app

import (
	"context"
	"fmt"
	"os"

	"github.com/stweave/stweave/internal/config"
	"github.com/stweave/stweave/internal/ctxlog"
	"github.com/stweave/stweave/internal/fsutil"
)

// runInit writes a project file template listing the given slides, on top
// of the built-in defaults. Slide arguments that are directories are
// scanned for .h5 data files.
func (a *App) runInit(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	paths, err := expandSlideArgs(a.config.Slides)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Warn("No slides given; the template will need its slide blocks filled in by hand.")
	}

	doc := config.Default()
	for _, path := range paths {
		doc.Slides = append(doc.Slides, &config.Slide{Path: path})
	}

	if err := config.WriteFile(a.config.Target, doc); err != nil {
		return err
	}
	logger.Info("Wrote project template.", "path", a.config.Target, "slides", len(paths))
	return nil
}

// expandSlideArgs resolves the init command's slide arguments: files pass
// through, directories expand to the .h5 files under them.
func expandSlideArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("slide argument %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := fsutil.FindFilesByExtension(arg, ".h5")
		if err != nil {
			return nil, fmt.Errorf("scanning %s for slides: %w", arg, err)
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
