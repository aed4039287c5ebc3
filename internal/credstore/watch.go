// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher signals when the store file is modified, including writes made by
// other processes. Bursts of events collapse into a single pending signal.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching the store's file. In-memory stores cannot be watched.
func (s *Store) Watch() (*Watcher, error) {
	path := s.Path()
	if path == "" {
		return nil, fmt.Errorf("%w: in-memory store cannot be watched", ErrBackend)
	}
	return WatchFile(path)
}

// WatchFile watches path and its sidecar files (e.g. SQLite -wal).
func WatchFile(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: SQLite writes land in path-wal before checkpointing.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		watcher: fw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop(filepath.Base(path))
	return w, nil
}

// Changes delivers one value per burst of modifications.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) loop(base string) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("store watcher error")
		}
	}
}
