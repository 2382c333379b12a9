// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"cogentcore.org/instvis/base/errors"
	"github.com/fsnotify/fsnotify"
)

// watch shows the overrides of the file every time it changes,
// until the context is done. The directory of the file is watched,
// so that files replaced by editors are followed.
func (s *session) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(s.file)); err != nil {
		return fmt.Errorf("watching %s: %w", s.file, err)
	}
	return s.watchEvents(ctx, watcher.Events, watcher.Errors)
}

// watchEvents handles the events of a watcher of the directory of the file.
func (s *session) watchEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	target := filepath.Clean(s.file)
	s.show()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("visctl: file changed", "file", s.file, "op", event.Op)
			if errors.Log(s.load()) == nil {
				s.show()
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			slog.Error("visctl: file watcher error: " + err.Error())
		}
	}
}
