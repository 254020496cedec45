package sio

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch calls reload whenever one of the files is written, created,
// or renamed into place.  Returns when the context is done.
//
// Directories are watched rather than the files themselves so that
// editors that replace files don't lose the watch.
func Watch(ctx context.Context, logger *zap.Logger, filenames []string, reload func() error) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool, len(filenames))
	dirs := make(map[string]bool, len(filenames))
	for _, filename := range filenames {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}

	const changes = fsnotify.Write | fsnotify.Create | fsnotify.Rename

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch", zap.Error(err))
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e.Op&changes == 0 || !watched[filepath.Clean(e.Name)] {
				continue
			}
			logger.Info("reloading", zap.String("filename", e.Name), zap.String("op", e.Op.String()))
			if err := reload(); err != nil {
				logger.Error("reload", zap.String("filename", e.Name), zap.Error(err))
			}
		}
	}
}
