package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kdenlive-mcp/internal/discovery"
	"kdenlive-mcp/internal/enginetest"
	"kdenlive-mcp/internal/logging"
	"kdenlive-mcp/pkg/models"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newTestService(f *enginetest.FakeEngine) *Service {
	disc := discovery.New(f, 0, logging.Nop()).WithSleep(noSleep)
	return NewService(f, disc, Options{
		DefaultClipDuration: 125,
		DefaultTransition:   13,
	}, logging.Nop()).WithSleep(noSleep)
}

// sceneDir writes empty scene files and returns the directory.
func sceneDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return dir
}

func TestBuildTimelineSequencesAllClips(t *testing.T) {
	dir := sceneDir(t, "scene1.mp4", "scene2.mp4", "scene3.mp4")
	f := enginetest.New().
		WillImport(filepath.Join(dir, "scene1.mp4"), "1").
		WillImport(filepath.Join(dir, "scene2.mp4"), "2").
		WillImport(filepath.Join(dir, "scene3.mp4"), "3").
		WithDuration("1", 100).WithDuration("2", 80).WithDuration("3", 60)
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Status)
	require.Len(t, out.Clips, 3)
	require.Len(t, out.Placed, 3)

	// Sequential placement: each clip starts where the previous ended.
	assert.Equal(t, 0, out.Placed[0].Position)
	assert.Equal(t, 100, out.Placed[1].Position)
	assert.Equal(t, 180, out.Placed[2].Position)
	for i := 0; i+1 < len(out.Placed); i++ {
		assert.LessOrEqual(t, out.Placed[i].Position+out.Placed[i].Duration, out.Placed[i+1].Position)
	}
}

func TestBuildTimelineContinuesPastFailedImport(t *testing.T) {
	dir := sceneDir(t, "scene1.mp4", "scene2.mp4", "scene3.mp4")
	// scene2 is not registered: its import fails silently in the engine.
	f := enginetest.New().
		WillImport(filepath.Join(dir, "scene1.mp4"), "1").
		WillImport(filepath.Join(dir, "scene3.mp4"), "3").
		WithDuration("1", 100).WithDuration("3", 60)
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletedWithFailures, out.Status)
	assert.Len(t, out.Clips, 2)
	assert.Len(t, out.Placed, 2)
	assert.Equal(t, 1, out.Failures)

	failing := 0
	for _, line := range out.Log {
		if strings.Contains(line, "import failed") && strings.Contains(line, "scene2.mp4") {
			failing++
		}
	}
	assert.Equal(t, 1, failing, "exactly one log line names the failed file")
}

func TestBuildTimelineFallsBackToExistingBinClips(t *testing.T) {
	dir := sceneDir(t, "scene1.mp4")
	f := enginetest.New().SeedBin("4", "2").
		WithDuration("2", 50).WithDuration("4", 50)
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletedWithFailures, out.Status)
	require.Len(t, out.Placed, 2)
	// Existing clips are used in deterministic numeric order.
	assert.Equal(t, "2", out.Placed[0].Bin.ID)
	assert.Equal(t, "4", out.Placed[1].Bin.ID)
}

func TestBuildTimelineFailsWithNothingAvailable(t *testing.T) {
	dir := sceneDir(t, "scene1.mp4")
	f := enginetest.New()
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir})
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, models.StatusFailed, out.Status)
}

func TestBuildTimelineNoFilesMatched(t *testing.T) {
	f := enginetest.New()
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: t.TempDir()})
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, models.StatusFailed, out.Status)
	assert.Equal(t, 0, f.Mutations)
}

func TestBuildTimelineTransitionsOverlapAdjacentPairs(t *testing.T) {
	dir := sceneDir(t, "a.mp4", "b.mp4", "c.mp4")
	f := enginetest.New().
		WillImport(filepath.Join(dir, "a.mp4"), "1").
		WillImport(filepath.Join(dir, "b.mp4"), "2").
		WillImport(filepath.Join(dir, "c.mp4"), "3").
		WithDuration("1", 100).WithDuration("2", 100).WithDuration("3", 100)
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir, TransitionFrames: 13})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Status)

	// After the dissolves each following clip starts inside the previous
	// one by at most the transition length.
	byBin := make(map[string]enginetest.Placement)
	for _, p := range f.Placements() {
		byBin[p.BinID] = p
	}
	first, second, third := byBin["1"], byBin["2"], byBin["3"]
	assert.Less(t, second.Position, first.Position+first.Duration)
	assert.GreaterOrEqual(t, second.Position, first.Position+first.Duration-13)
	assert.Less(t, third.Position, second.Position+second.Duration)
	assert.GreaterOrEqual(t, third.Position, second.Position+second.Duration-13)
}

func TestBuildTimelinePairFailureDoesNotBlockLaterPairs(t *testing.T) {
	dir := sceneDir(t, "a.mp4", "b.mp4", "c.mp4")
	f := enginetest.New().
		WillImport(filepath.Join(dir, "a.mp4"), "1").
		WillImport(filepath.Join(dir, "b.mp4"), "2").
		WillImport(filepath.Join(dir, "c.mp4"), "3").
		WithDuration("1", 100).WithDuration("2", 100).WithDuration("3", 100).
		FailMix(100, 101) // first placed pair
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir, TransitionFrames: 13})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletedWithFailures, out.Status)
	assert.Equal(t, 1, out.Failures)
}

func TestBuildTimelineDefaultDurationKeepsCursorMoving(t *testing.T) {
	dir := sceneDir(t, "a.mp4", "b.mp4")
	// No durations registered: the engine reports 0 for both.
	f := enginetest.New().
		WillImport(filepath.Join(dir, "a.mp4"), "1").
		WillImport(filepath.Join(dir, "b.mp4"), "2")
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir})
	require.NoError(t, err)
	require.Len(t, out.Placed, 2)
	assert.Equal(t, 0, out.Placed[0].Position)
	assert.Equal(t, 125, out.Placed[1].Position)
	assert.Equal(t, 125, out.Placed[0].Duration)
}

func TestBuildTimelineSkipsRefusedInsert(t *testing.T) {
	dir := sceneDir(t, "a.mp4", "b.mp4")
	f := enginetest.New().
		WillImport(filepath.Join(dir, "a.mp4"), "1").
		WillImport(filepath.Join(dir, "b.mp4"), "2").
		WithDuration("1", 100).WithDuration("2", 100).
		FailInsert("1")
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletedWithFailures, out.Status)
	require.Len(t, out.Placed, 1)
	assert.Equal(t, "2", out.Placed[0].Bin.ID)
	assert.Equal(t, 0, out.Placed[0].Position, "cursor does not advance past a skipped clip")
}

func TestBuildTimelineAudioBed(t *testing.T) {
	dir := sceneDir(t, "a.mp4")
	audio := filepath.Join(dir, "music.wav")
	require.NoError(t, os.WriteFile(audio, []byte("x"), 0o644))
	f := enginetest.New().
		WillImport(filepath.Join(dir, "a.mp4"), "1").
		WillImport(audio, "9").
		WithDuration("1", 100)
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir, AudioPath: audio})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Status)

	var audioPlacement *models.PlacedClip
	for i := range out.Placed {
		if out.Placed[i].Bin.ID == "9" {
			audioPlacement = &out.Placed[i]
		}
	}
	require.NotNil(t, audioPlacement)
	assert.Equal(t, 2, audioPlacement.TrackID, "first audio track")
	assert.Equal(t, 0, audioPlacement.Position)
}

func TestBuildTimelineAudioFailureOnlyDegrades(t *testing.T) {
	dir := sceneDir(t, "a.mp4")
	f := enginetest.New().
		WillImport(filepath.Join(dir, "a.mp4"), "1").
		WithDuration("1", 100)
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{
		Dir:       dir,
		AudioPath: filepath.Join(dir, "missing.wav"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletedWithFailures, out.Status)
	require.Len(t, out.Placed, 1)
}

func TestBuildTimelineCreatesVideoTrackWhenMissing(t *testing.T) {
	dir := sceneDir(t, "a.mp4")
	f := enginetest.New().NoTracks().
		WillImport(filepath.Join(dir, "a.mp4"), "1").
		WithDuration("1", 100)
	svc := newTestService(f)

	out, err := svc.BuildTimeline(context.Background(), BuildRequest{Dir: dir})
	require.NoError(t, err)
	require.Len(t, out.Placed, 1)

	tracks, err := f.ListTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, tracks[0].ID, out.Placed[0].TrackID)
}
