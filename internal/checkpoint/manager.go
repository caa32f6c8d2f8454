// Package checkpoint snapshots and restores the project file under a
// label, independent of the engine's own undo history.
package checkpoint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/internal/logging"
	"kdenlive-mcp/pkg/models"
)

// Manager saves and restores labeled project snapshots.
type Manager struct {
	client kdenlive.Client
	reg    Registry
	now    func() time.Time
	stat   func(string) (os.FileInfo, error)
	log    *logging.Logger
}

// NewManager wires a Manager over the injected registry.
func NewManager(client kdenlive.Client, reg Registry, log *logging.Logger) *Manager {
	return &Manager{
		client: client,
		reg:    reg,
		now:    time.Now,
		stat:   os.Stat,
		log:    log.Component("checkpoint"),
	}
}

// WithClock overrides the label clock, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithStat overrides snapshot existence checking, for tests.
func (m *Manager) WithStat(stat func(string) (os.FileInfo, error)) *Manager {
	m.stat = stat
	return m
}

// Save writes the project to a sibling snapshot file derived from the
// canonical path and the label, then re-saves the canonical path so the
// live session keeps pointing at the original file. An empty label gets a
// timestamp-based one. Returns the registered checkpoint.
func (m *Manager) Save(ctx context.Context, label string) (models.Checkpoint, error) {
	orig, err := m.client.ProjectPath(ctx)
	if err != nil {
		return models.Checkpoint{}, fmt.Errorf("project must be saved before checkpointing: %w", err)
	}

	if label == "" {
		label = fmt.Sprintf("ckpt-%d", m.now().Unix())
	}
	path := snapshotPath(orig, label)

	if ok, err := m.client.SaveProjectAs(ctx, path); err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("engine refused save to %s", path)
		}
		return models.Checkpoint{}, fmt.Errorf("save checkpoint: %w", err)
	}
	// Point the session back at the canonical file; the snapshot must not
	// become the live project.
	if ok, err := m.client.SaveProjectAs(ctx, orig); err != nil || !ok {
		m.log.Warn("could not re-save canonical project", "path", orig, "error", err)
	}

	cp := models.Checkpoint{Label: label, Path: path}
	m.reg.Put(cp)
	m.log.Info("checkpoint saved", "label", label, "path", path)
	return cp, nil
}

// Restore loads the snapshot registered under label as the live session.
// An empty label restores the most recent checkpoint.
func (m *Manager) Restore(ctx context.Context, label string) (models.Checkpoint, error) {
	var cp models.Checkpoint
	var ok bool
	if label == "" {
		cp, ok = m.reg.Latest()
		if !ok {
			return models.Checkpoint{}, fmt.Errorf("no checkpoints saved: %w", models.ErrNotFound)
		}
	} else {
		cp, ok = m.reg.Get(label)
		if !ok {
			known := strings.Join(m.reg.Labels(), ", ")
			if known == "" {
				known = "none"
			}
			return models.Checkpoint{}, fmt.Errorf("checkpoint %q unknown (have: %s): %w", label, known, models.ErrNotFound)
		}
	}

	if _, err := m.stat(cp.Path); err != nil {
		return models.Checkpoint{}, fmt.Errorf("snapshot file %s: %w", cp.Path, models.ErrNotFound)
	}

	if ok, err := m.client.LoadProject(ctx, cp.Path); err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("engine refused load of %s", cp.Path)
		}
		return models.Checkpoint{}, fmt.Errorf("restore checkpoint %q: %w", cp.Label, err)
	}
	m.log.Info("checkpoint restored", "label", cp.Label, "path", cp.Path)
	return cp, nil
}

// snapshotPath derives <base>__<label><ext> from the canonical path.
func snapshotPath(orig, label string) string {
	ext := filepath.Ext(orig)
	return strings.TrimSuffix(orig, ext) + "__" + label + ext
}
