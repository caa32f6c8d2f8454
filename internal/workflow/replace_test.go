package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kdenlive-mcp/internal/enginetest"
	"kdenlive-mcp/pkg/models"
)

// seedTimeline places three scene clips on the video track and returns
// their timeline IDs in position order.
func seedTimeline(t *testing.T, f *enginetest.FakeEngine) []int {
	t.Helper()
	ctx := context.Background()
	f.SeedBin("1", "2", "3")
	f.WithDuration("1", 100).WithDuration("2", 100).WithDuration("3", 100)
	var ids []int
	for i, bin := range []string{"1", "2", "3"} {
		id, err := f.InsertClip(ctx, bin, 3, i*100)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func newFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestReplaceScenePreservesPositionAndDuration(t *testing.T) {
	f := enginetest.New()
	ids := seedTimeline(t, f)
	file := newFile(t, "retake.mp4")
	f.WillImport(file, "9").WithDuration("9", 250)
	svc := newTestService(f)

	out, err := svc.ReplaceScene(context.Background(), 2, file)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Status)
	require.Len(t, out.Placed, 1)
	assert.Equal(t, 100, out.Placed[0].Position)
	assert.Equal(t, 100, out.Placed[0].Duration, "resized to the old duration")

	placements := f.Placements()
	_, oldAlive := placements[ids[1]]
	assert.False(t, oldAlive, "old clip removed")
	got := placements[out.Placed[0].ClipID]
	assert.Equal(t, "9", got.BinID)
	assert.Equal(t, 100, got.Position)
	assert.Equal(t, 100, got.Duration)
}

func TestReplaceSceneOrdinalOutOfRangeIsFailFast(t *testing.T) {
	f := enginetest.New()
	seedTimeline(t, f)
	svc := newTestService(f)

	before := f.Mutations
	out, err := svc.ReplaceScene(context.Background(), 7, "/media/retake.mp4")
	require.ErrorIs(t, err, models.ErrOutOfRange)
	assert.Equal(t, models.StatusFailed, out.Status)
	assert.Equal(t, before, f.Mutations, "no mutating calls on out-of-range ordinal")
}

func TestReplaceSceneImportFailureLeavesTimelineUntouched(t *testing.T) {
	f := enginetest.New()
	ids := seedTimeline(t, f)
	svc := newTestService(f)

	// The file is unknown to the fake: the import fails silently.
	out, err := svc.ReplaceScene(context.Background(), 2, newFile(t, "retake.mp4"))
	require.ErrorIs(t, err, models.ErrNoNewClip)
	assert.Equal(t, models.StatusFailed, out.Status)

	info, err := f.ClipInfo(context.Background(), ids[1])
	require.NoError(t, err, "original clip still queryable")
	assert.Equal(t, 100, info.Position)
	assert.Equal(t, 100, info.Duration)
}

func TestReplaceSceneInsertFailureAfterDeleteIsPartialState(t *testing.T) {
	f := enginetest.New()
	ids := seedTimeline(t, f)
	file := newFile(t, "retake.mp4")
	f.WillImport(file, "9").FailInsert("9")
	svc := newTestService(f)

	out, err := svc.ReplaceScene(context.Background(), 2, file)
	var pse *models.PartialStateError
	require.True(t, errors.As(err, &pse), "want PartialStateError, got %v", err)
	assert.Contains(t, pse.Lost, "scene 2")
	assert.Equal(t, models.StatusFailed, out.Status)

	_, alive := f.Placements()[ids[1]]
	assert.False(t, alive, "the old clip is genuinely gone; caller must know")
}

func TestReplaceSceneResizeFailureIsLoggedNotReverted(t *testing.T) {
	f := enginetest.New()
	seedTimeline(t, f)
	file := newFile(t, "retake.mp4")
	f.WillImport(file, "9").WithDuration("9", 250).FailResize()
	svc := newTestService(f)

	out, err := svc.ReplaceScene(context.Background(), 2, file)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletedWithFailures, out.Status)
	require.Len(t, out.Placed, 1, "replacement stays placed")
}

func TestReplaceClipByID(t *testing.T) {
	f := enginetest.New()
	ids := seedTimeline(t, f)
	f.SeedBin("9")
	f.WithDuration("9", 40)
	svc := newTestService(f)

	out, err := svc.ReplaceClip(context.Background(), ids[0], "9", true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Status)

	placements := f.Placements()
	_, oldAlive := placements[ids[0]]
	assert.False(t, oldAlive)
	got := placements[out.Placed[0].ClipID]
	assert.Equal(t, "9", got.BinID)
	assert.Equal(t, 0, got.Position)
	assert.Equal(t, 100, got.Duration, "matched to old duration")
	assert.Equal(t, 3, got.TrackID, "stays on the old clip's track")
}

func TestReplaceClipUnknownID(t *testing.T) {
	f := enginetest.New()
	svc := newTestService(f)

	before := f.Mutations
	_, err := svc.ReplaceClip(context.Background(), 999, "9", true)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, before, f.Mutations)
}
