// Package discovery learns the identity of a clip created by an import
// call that returns nothing usable: snapshot the bin before, import, wait
// a settle interval, snapshot again, diff. This is the only reliable way
// to get the new clip's ID out of the engine.
package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/internal/logging"
	"kdenlive-mcp/pkg/models"
)

// SleepFunc waits for d or until ctx is done. Tests inject a zero-delay
// implementation; a future engine with completion events could skip the
// wait entirely.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Discoverer runs the before/after bin diff around an import call.
type Discoverer struct {
	client kdenlive.Client
	settle time.Duration
	sleep  SleepFunc
	log    *logging.Logger
}

// New builds a Discoverer with the given settle interval.
func New(client kdenlive.Client, settle time.Duration, log *logging.Logger) *Discoverer {
	return &Discoverer{client: client, settle: settle, sleep: Sleep, log: log.Component("discovery")}
}

// WithSleep overrides the settle wait, for tests.
func (d *Discoverer) WithSleep(sleep SleepFunc) *Discoverer {
	d.sleep = sleep
	return d
}

// Discover snapshots the bin, runs importFn, waits the settle interval and
// diffs. Zero new IDs is models.ErrNoNewClip: the diff cannot distinguish
// a silent import failure from a file that was already in the bin, so the
// caller decides which it is. More than one new ID picks the lowest
// deterministically and reports the rest as extras.
func (d *Discoverer) Discover(ctx context.Context, importFn func(context.Context) error) (models.ClipRef, error) {
	before, err := d.client.ListClipIDs(ctx)
	if err != nil {
		return models.ClipRef{}, fmt.Errorf("bin snapshot before import: %w", err)
	}

	if err := importFn(ctx); err != nil {
		return models.ClipRef{}, fmt.Errorf("import call: %w", err)
	}

	if err := d.sleep(ctx, d.settle); err != nil {
		return models.ClipRef{}, err
	}

	after, err := d.client.ListClipIDs(ctx)
	if err != nil {
		return models.ClipRef{}, fmt.Errorf("bin snapshot after import: %w", err)
	}

	fresh := diff(before, after)
	if len(fresh) == 0 {
		return models.ClipRef{}, models.ErrNoNewClip
	}
	sortIDs(fresh)
	if len(fresh) > 1 {
		d.log.Warn("import produced multiple new clips, keeping lowest",
			"picked", fresh[0], "extras", fresh[1:])
	}
	return models.ClipRef{ID: fresh[0]}, nil
}

// DiscoverPath imports one file and resolves its new bin clip.
func (d *Discoverer) DiscoverPath(ctx context.Context, path string) (models.ClipRef, error) {
	ref, err := d.Discover(ctx, func(ctx context.Context) error {
		return d.client.AddProjectClip(ctx, path)
	})
	if err != nil {
		return models.ClipRef{}, err
	}
	ref.SourcePath = path
	ref.DisplayName = filepath.Base(path)
	return ref, nil
}

func diff(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, id := range before {
		seen[id] = struct{}{}
	}
	var fresh []string
	for _, id := range after {
		if _, ok := seen[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	return fresh
}

// sortIDs orders numerically when every ID parses as a number, otherwise
// lexicographically. Bin IDs are numeric strings in practice, but the
// tie-break must stay deterministic either way.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, aerr := strconv.Atoi(ids[i])
		b, berr := strconv.Atoi(ids[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
}
