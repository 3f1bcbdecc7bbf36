package monitor

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/thanhtantran/kea-lease-manager/internal/config"
)

// Monitor watches the external lease log and Kea config for writes by
// the DHCP server. It deliberately holds no parsed data — every request
// re-reads the files — it only records when each file last changed so
// the status view can report activity.
type Monitor struct {
	cfg     *config.Config
	watcher *fsnotify.Watcher

	mu               sync.RWMutex
	lastLeaseChange  time.Time
	lastConfigChange time.Time

	stopCh chan struct{}
}

// New creates a monitor for the configured external files.
func New(cfg *config.Config) *Monitor {
	return &Monitor{
		cfg:    cfg,
		stopCh: make(chan struct{}),
	}
}

// Start begins watching. Missing files are logged and skipped; the
// server runs fine without the watcher.
func (m *Monitor) Start() error {
	var err error
	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	go m.watchFiles()

	m.addFileToWatcher(m.cfg.LeaseFile, "lease file")
	m.addFileToWatcher(m.cfg.KeaConfigFile, "Kea config file")

	return nil
}

// Stop stops watching.
func (m *Monitor) Stop() {
	close(m.stopCh)
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// LastLeaseChange returns when the lease file was last seen written,
// zero if never observed.
func (m *Monitor) LastLeaseChange() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastLeaseChange
}

// LastConfigChange returns when the Kea config was last seen written,
// zero if never observed.
func (m *Monitor) LastConfigChange() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastConfigChange
}

func (m *Monitor) addFileToWatcher(path, description string) {
	if err := m.watcher.Add(path); err != nil {
		logrus.Warnf("Cannot watch %s %s: %v", description, path, err)
		return
	}
	logrus.Debugf("Watching %s: %s", description, path)
}

func (m *Monitor) watchFiles() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}

			absEventPath, _ := filepath.Abs(event.Name)
			absLeasePath, _ := filepath.Abs(m.cfg.LeaseFile)
			absConfigPath, _ := filepath.Abs(m.cfg.KeaConfigFile)

			switch absEventPath {
			case absLeasePath:
				logrus.Debugf("Lease file modified: %s", event.Name)
				m.mu.Lock()
				m.lastLeaseChange = time.Now()
				m.mu.Unlock()
			case absConfigPath:
				logrus.Infof("Kea config modified: %s", event.Name)
				m.mu.Lock()
				m.lastConfigChange = time.Now()
				m.mu.Unlock()
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logrus.Warnf("File watcher error: %v", err)

		case <-m.stopCh:
			return
		}
	}
}
