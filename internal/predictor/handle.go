package predictor

import (
	"errors" // Error inspection
	"fmt"    // Error wrapping
	"os"     // Artifact stat
	"sync"   // Handle guard
	"time"   // Modification times

	"github.com/sirupsen/logrus" // Logging
)

// Handle is the process-wide, lazily loaded model artifact.
// It re-reads the file when its modification time or size changes.
type Handle struct {
	path    string
	metrics *Metrics

	mu      sync.RWMutex
	model   *Model
	modTime time.Time
	size    int64
	pinned  bool // set by Swap, skips file checks until Reload
}

// NewHandle returns a handle for the artifact at path; nothing is read yet
func NewHandle(path string, metrics *Metrics) *Handle {
	return &Handle{path: path, metrics: metrics}
}

// Path returns the artifact location
func (h *Handle) Path() string { return h.path }

// Model returns the current model, loading or reloading it as needed
func (h *Handle) Model() (*Model, error) {
	h.mu.RLock()
	if h.pinned {
		m := h.model
		h.mu.RUnlock()
		if m == nil {
			return nil, fmt.Errorf("%w: no model installed", ErrArtifactMissing)
		}
		return m, nil
	}
	h.mu.RUnlock()

	info, err := os.Stat(h.path)
	if errors.Is(err, os.ErrNotExist) {
		h.invalidate()
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, h.path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat model artifact: %w", err)
	}

	h.mu.RLock()
	current := h.model != nil && info.ModTime().Equal(h.modTime) && info.Size() == h.size
	m := h.model
	h.mu.RUnlock()
	if current {
		return m, nil
	}
	return h.load()
}

// Reload forces a fresh read of the artifact
func (h *Handle) Reload() (*Model, error) {
	h.mu.Lock()
	h.pinned = false
	h.mu.Unlock()
	return h.load()
}

// Swap installs m directly, bypassing the file until the next Reload.
// Swapping in nil makes the handle report ErrArtifactMissing.
func (h *Handle) Swap(m *Model) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.model = m
	h.pinned = true
	h.modTime = time.Time{}
	h.size = 0
}

func (h *Handle) load() (*Model, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info, err := os.Stat(h.path)
	if errors.Is(err, os.ErrNotExist) {
		h.model = nil
		h.countReload("missing")
		logrus.WithField("path", h.path).Error("Model artifact not found")
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, h.path)
	}
	if err != nil {
		h.countReload("error")
		return nil, fmt.Errorf("stat model artifact: %w", err)
	}

	m, err := LoadModel(h.path)
	if err != nil {
		h.countReload("error")
		logrus.WithFields(logrus.Fields{
			"path":  h.path,      // Artifact path
			"error": err.Error(), // Load failure
		}).Error("Failed to load model artifact")
		return nil, err
	}
	h.model = m
	h.modTime = info.ModTime()
	h.size = info.Size()
	h.countReload("ok")
	logrus.WithFields(logrus.Fields{
		"path":     h.path,          // Artifact path
		"version":  m.Version,       // Artifact version
		"features": len(m.Features), // Expected feature count
	}).Info("Model artifact loaded")
	return m, nil
}

func (h *Handle) invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.pinned {
		h.model = nil
	}
}

func (h *Handle) countReload(result string) {
	if h.metrics != nil {
		h.metrics.Reloads.WithLabelValues(result).Inc()
	}
}
