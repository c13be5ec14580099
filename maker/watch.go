package maker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/loader"
	"github.com/teranos/pytestgen/logger"
)

// Watch regenerates the given paths whenever one of their documents changes,
// until ctx is cancelled. Rapid change bursts (editor save sequences) are
// debounced into a single regeneration.
func (m *Maker) Watch(ctx context.Context, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := addWatchTargets(watcher, path); err != nil {
			return err
		}
	}

	if _, err := m.Make(paths); err != nil {
		logger.Errorf("generation failed: %v", err)
	}

	const debouncePeriod = 500 * time.Millisecond
	var debounce *time.Timer
	regenerate := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watchRelevant(event) {
				continue
			}
			logger.Debugw("document changed", "path", event.Name, "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debouncePeriod, func() {
				select {
				case regenerate <- struct{}{}:
				default:
				}
			})

		case <-regenerate:
			logger.Infof("documents changed, regenerating ...")
			if _, err := m.Make(paths); err != nil {
				logger.Errorf("generation failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher error: %v", err)
		}
	}
}

// addWatchTargets registers a path with the watcher; directories are
// registered recursively so nested documents trigger regeneration too.
func addWatchTargets(watcher *fsnotify.Watcher, path string) error {
	if !isDir(path) {
		return errors.Wrapf(watcher.Add(filepath.Dir(path)), "watch %s", path)
	}
	return filepath.Walk(path, func(sub string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if name := info.Name(); strings.HasPrefix(name, ".") && sub != path {
			return filepath.SkipDir
		}
		return errors.Wrapf(watcher.Add(sub), "watch %s", sub)
	})
}

// watchRelevant filters events down to document file writes; generated
// artifacts and module markers must not retrigger generation.
func watchRelevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return loader.IsDocumentFile(event.Name)
}
