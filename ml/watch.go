package ml

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ArtifactWatcher reports changes to the model artifact after it has been
// loaded. The running process keeps the model it started with.
type ArtifactWatcher struct {
	watcher  *fsnotify.Watcher
	name     string
	logger   *zap.Logger
	onChange func(fsnotify.Event)
	done     chan struct{}
	once     sync.Once
}

// WatchArtifact watches the directory holding path so that replacements by
// rename are seen as well as in-place writes. onChange may be nil.
func WatchArtifact(path string, logger *zap.Logger, onChange func(fsnotify.Event)) (*ArtifactWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create artifact watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	aw := &ArtifactWatcher{
		watcher:  w,
		name:     filepath.Base(path),
		logger:   logger.With(zap.String("path", path)),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go aw.loop()
	return aw, nil
}

func (aw *ArtifactWatcher) loop() {
	defer close(aw.done)
	for {
		select {
		case event, ok := <-aw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != aw.name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			aw.logger.Warn("model artifact changed on disk; restart to load it",
				zap.String("op", event.Op.String()))
			if aw.onChange != nil {
				aw.onChange(event)
			}
		case err, ok := <-aw.watcher.Errors:
			if !ok {
				return
			}
			aw.logger.Error("artifact watcher error", zap.Error(err))
		}
	}
}

func (aw *ArtifactWatcher) Close() error {
	var err error
	aw.once.Do(func() {
		err = aw.watcher.Close()
		<-aw.done
	})
	return err
}
