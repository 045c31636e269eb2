package i18n

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever a locale file changes, until ctx is
// cancelled. Editing a YAML file on a running bot takes effect without a
// restart.
func (m *Manager) Watch(ctx context.Context, log *slog.Logger) error {
	if m == nil || m.dir == "" {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(m.dir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isLocaleChange(event) {
					continue
				}

				if err := m.Reload(); err != nil {
					log.Error("locale reload failed", slog.String("file", event.Name), slog.Any("error", err))
					continue
				}

				log.Info("locales reloaded", slog.String("file", event.Name))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("locale watcher error", slog.Any("error", err))
			}
		}
	}()

	return nil
}

func isLocaleChange(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	name := strings.ToLower(event.Name)
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
