package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// Defaults for the bounded configuration wait. The widget degrades to not
// appearing until configuration arrives; after MaxAttempts it is permanently
// disabled for this process rather than polling forever.
const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultMaxAttempts  = 20
)

// Manager is the file-backed settings source. The theme-configuration UI
// writes the JSON file; the engine reads it, validates it and re-applies it
// idempotently when it changes.
type Manager struct {
	path string

	mu      sync.RWMutex
	current *domain.Settings
	lastRaw []byte

	subsMu sync.Mutex
	subs   []chan domain.Settings

	logger *slog.Logger
}

// NewManager builds a manager for the settings file at path.
func NewManager(path string, logger *slog.Logger) *Manager {
	return &Manager{path: path, logger: logger}
}

// Parse reads and validates the settings file without committing it.
func (m *Manager) Parse() (domain.Settings, []byte, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return domain.Settings{}, nil, err
	}

	if err := validateSchema(raw); err != nil {
		return domain.Settings{}, nil, err
	}

	var s domain.Settings
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return domain.Settings{}, nil, fmt.Errorf("decode settings: %w", err)
	}
	if dec.More() {
		return domain.Settings{}, nil, fmt.Errorf("decode settings: trailing data after document")
	}

	return s, raw, nil
}

// Commit stores a parsed snapshot as current.
func (m *Manager) Commit(s domain.Settings, raw []byte) {
	m.mu.Lock()
	m.current = &s
	m.lastRaw = raw
	m.mu.Unlock()
}

// Current returns the committed settings, if any.
func (m *Manager) Current() (domain.Settings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return domain.Settings{}, false
	}
	return *m.current, true
}

// Subscribe registers for settings updates. The returned cancel function
// removes the subscription.
func (m *Manager) Subscribe() (<-chan domain.Settings, func()) {
	ch := make(chan domain.Settings, 1)

	m.subsMu.Lock()
	m.subs = append(m.subs, ch)
	m.subsMu.Unlock()

	cancel := func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

func (m *Manager) publish(s domain.Settings) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			// Slow subscriber keeps only the latest snapshot.
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

// WaitReady polls for the settings file with a bounded retry cadence.
// It returns ErrConfigUnavailable once the attempts are exhausted, which the
// caller treats as a terminal disabled outcome for this page load.
func (m *Manager) WaitReady(ctx context.Context, interval time.Duration, maxAttempts int) (domain.Settings, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s, raw, err := m.Parse()
		if err == nil {
			m.Commit(s, raw)
			return s, nil
		}

		m.logger.Debug("settings not ready",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return domain.Settings{}, ctx.Err()
		case <-time.After(interval):
		}
	}

	return domain.Settings{}, domain.ErrConfigUnavailable
}

// Watch re-reads the settings file when it changes and publishes committed
// snapshots to subscribers. Invalid intermediate writes keep the previous
// snapshot. Watch blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory: editors replace files, which drops a watch set
	// directly on the file.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("watch settings dir: %w", err)
	}

	m.logger.Info("watching settings file", slog.String("path", m.path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(m.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			m.reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("settings watcher error", slog.Any("error", err))
		}
	}
}

// reload parses the file and commits it when its content actually changed.
// Editors cause multiple write events without content changes; comparing the
// raw bytes avoids redundant publishes.
func (m *Manager) reload() {
	s, raw, err := m.Parse()
	if err != nil {
		m.logger.Warn("ignoring invalid settings update", slog.Any("error", err))
		return
	}

	m.mu.RLock()
	unchanged := bytes.Equal(raw, m.lastRaw)
	m.mu.RUnlock()
	if unchanged {
		return
	}

	m.Commit(s, raw)
	m.publish(s)
	m.logger.Info("settings updated")
}
