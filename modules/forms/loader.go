package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sitegear/sitegear/pkg/cache"
)

// definitionExtensions are tried in order when looking up a form file.
var definitionExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// decodeDefinition decodes a definition file by extension.
func decodeDefinition(path string, data []byte) (map[string]any, error) {
	var def map[string]any
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &def)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &def)
	case ".toml":
		err = toml.Unmarshal(data, &def)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, path, err)
	}
	if def == nil {
		def = map[string]any{}
	}
	return def, nil
}

// mergeDefinitions deep-merges src over dst into a new map. Nested maps
// merge; any other value in src replaces the one in dst.
func mergeDefinitions(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := out[k].(map[string]any); ok {
				out[k] = mergeDefinitions(dm, sm)
				continue
			}
			out[k] = mergeDefinitions(nil, sm)
			continue
		}
		out[k] = v
	}
	return out
}

// definitionLoader reads definition files through a cache. With watching
// enabled, a change to a loaded file drops its cache entry.
type definitionLoader struct {
	cache   cache.Cache[map[string]any]
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	watched map[string]struct{}
	done    chan struct{}
	mu      sync.Mutex
}

func newDefinitionLoader(c cache.Cache[map[string]any], log *slog.Logger) *definitionLoader {
	return &definitionLoader{
		cache:   c,
		logger:  log,
		watched: make(map[string]struct{}),
	}
}

// load returns the decoded file at path. Cached maps are shared and must not
// be modified.
func (l *definitionLoader) load(ctx context.Context, path string) (map[string]any, error) {
	return cache.GetOrSet(ctx, l.cache, path, func(context.Context) (map[string]any, time.Duration, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, err
		}
		def, err := decodeDefinition(path, data)
		if err != nil {
			return nil, 0, err
		}
		l.watch(path)
		l.logger.DebugContext(ctx, "form definition loaded", slog.String("path", path))
		return def, -1, nil
	})
}

// find returns the first existing <dir>/<key><ext>.
func (l *definitionLoader) find(dir, key string) (string, bool) {
	for _, ext := range definitionExtensions {
		path := filepath.Join(dir, key+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// start begins watching. Directories of files loaded before start are added
// as well.
func (l *definitionLoader) start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("forms: watcher: %w", err)
	}

	l.mu.Lock()
	l.watcher = w
	l.done = make(chan struct{})
	dirs := make([]string, 0, len(l.watched))
	for dir := range l.watched {
		dirs = append(dirs, dir)
	}
	l.mu.Unlock()

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			l.logger.Warn("cannot watch form directory", slog.String("dir", dir), slog.String("error", err.Error()))
		}
	}
	go l.run(w, l.done)
	return nil
}

func (l *definitionLoader) stop() error {
	l.mu.Lock()
	w, done := l.watcher, l.done
	l.watcher = nil
	l.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}

func (l *definitionLoader) watch(path string) {
	dir := filepath.Dir(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.watched[dir]; ok {
		return
	}
	l.watched[dir] = struct{}{}
	if l.watcher == nil {
		return
	}
	if err := l.watcher.Add(dir); err != nil {
		l.logger.Warn("cannot watch form directory", slog.String("dir", dir), slog.String("error", err.Error()))
	}
}

func (l *definitionLoader) run(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := l.cache.Delete(context.Background(), ev.Name); err != nil && !errors.Is(err, cache.ErrClosed) {
				l.logger.Warn("cannot drop form definition", slog.String("path", ev.Name), slog.String("error", err.Error()))
				continue
			}
			l.logger.Debug("form definition changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			l.logger.Warn("form watcher error", slog.String("error", err.Error()))
		}
	}
}

// validKey reports whether key is safe to use as a file name.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
