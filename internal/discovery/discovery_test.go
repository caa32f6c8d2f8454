package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kdenlive-mcp/internal/enginetest"
	"kdenlive-mcp/internal/logging"
	"kdenlive-mcp/pkg/models"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newDiscoverer(f *enginetest.FakeEngine) *Discoverer {
	return New(f, 300*time.Millisecond, logging.Nop()).WithSleep(noSleep)
}

func TestDiscoverSingleNewClip(t *testing.T) {
	f := enginetest.New().SeedBin("1", "2").WillImport("/media/a.mp4", "3")
	d := newDiscoverer(f)

	ref, err := d.Discover(context.Background(), func(ctx context.Context) error {
		return f.AddProjectClip(ctx, "/media/a.mp4")
	})
	require.NoError(t, err)
	assert.Equal(t, "3", ref.ID)
}

func TestDiscoverNothingNew(t *testing.T) {
	f := enginetest.New().SeedBin("1", "2")
	d := newDiscoverer(f)

	_, err := d.Discover(context.Background(), func(ctx context.Context) error {
		return f.AddProjectClip(ctx, "/media/already-there.mp4")
	})
	require.ErrorIs(t, err, models.ErrNoNewClip)
}

func TestDiscoverMultipleNewClipsPicksLowest(t *testing.T) {
	// Repeated runs with the same sets must pick the same ID.
	for i := 0; i < 3; i++ {
		f := enginetest.New().SeedBin("1")
		d := newDiscoverer(f)

		ref, err := d.Discover(context.Background(), func(ctx context.Context) error {
			f.SeedBin("12", "9") // unexpected side effect: two new clips
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "9", ref.ID, "numeric compare, not lexicographic")
	}
}

func TestDiscoverNonNumericIDsSortLexicographically(t *testing.T) {
	f := enginetest.New()
	d := newDiscoverer(f)

	ref, err := d.Discover(context.Background(), func(ctx context.Context) error {
		f.SeedBin("clip-b", "clip-a")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "clip-a", ref.ID)
}

func TestDiscoverImportErrorPropagates(t *testing.T) {
	f := enginetest.New()
	d := newDiscoverer(f)

	boom := errors.New("dbus gone")
	_, err := d.Discover(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestDiscoverWaitsSettleInterval(t *testing.T) {
	f := enginetest.New().WillImport("/media/a.mp4", "1")
	var slept time.Duration
	d := New(f, 300*time.Millisecond, logging.Nop()).WithSleep(
		func(ctx context.Context, dur time.Duration) error {
			slept = dur
			return nil
		})

	_, err := d.DiscoverPath(context.Background(), "/media/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, slept)
}

func TestDiscoverPathFillsRef(t *testing.T) {
	f := enginetest.New().WillImport("/media/scenes/a.mp4", "7")
	d := newDiscoverer(f)

	ref, err := d.DiscoverPath(context.Background(), "/media/scenes/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "7", ref.ID)
	assert.Equal(t, "/media/scenes/a.mp4", ref.SourcePath)
	assert.Equal(t, "a.mp4", ref.DisplayName)
}
