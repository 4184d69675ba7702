package registry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/eringen/toolmeta/locale"
)

// ErrReloadRejected is returned when a reloaded registry has error-severity issues.
var ErrReloadRejected = errors.New("registry: reload rejected")

// Reload loads path, validates it and swaps it into h when it has no
// error-severity issues. The previous registry stays active otherwise.
func Reload(path string, h *Handle, table *locale.Table, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg, err := LoadFile(path, table)
	if err != nil {
		logger.Warn("registry.reload.failed", zap.String("path", path), zap.Error(err))
		return err
	}
	issues := reg.Validate()
	errs, warnings := Count(issues)
	if errs > 0 {
		first := ""
		for _, i := range issues {
			if i.Severity == SeverityError {
				first = i.String()
				break
			}
		}
		logger.Warn("registry.reload.rejected",
			zap.String("path", path),
			zap.Int("errors", errs),
			zap.String("first", first),
		)
		return fmt.Errorf("%w: %d error(s), first: %s", ErrReloadRejected, errs, first)
	}
	gen := h.Swap(reg)
	logger.Info("registry.reload",
		zap.String("path", path),
		zap.Int("tools", reg.Len()),
		zap.Int("warnings", warnings),
		zap.Uint64("generation", gen),
	)
	return nil
}

// Watch reloads path into h whenever the file is written or replaced. It
// watches the parent directory so editors that rename over the file are
// seen. The watcher stops when ctx is done.
func Watch(ctx context.Context, path string, h *Handle, table *locale.Table, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("registry: watcher: %w", err)
	}
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return fmt.Errorf("registry: watch %q: %w", path, err)
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				_ = Reload(path, h, table, logger)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("registry.watch.error", zap.Error(err))
			}
		}
	}()
	logger.Info("registry.watch", zap.String("path", path))
	return nil
}
