package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	"kdenlive-mcp/internal/planner"
	"kdenlive-mcp/pkg/models"
)

// ReplaceScene swaps the Nth clip (1-based) on the first video track for a
// freshly imported file, preserving the old clip's position and duration.
//
// The ordinal lookup is fail-fast: "replace scene N" has no partial result
// when N does not exist, so nothing is mutated and models.ErrOutOfRange
// comes back. The import runs before the delete, so an import failure
// leaves the timeline untouched. The one irreversible window is insert
// failing after the delete succeeded; that surfaces as
// *models.PartialStateError, never as a silent log line.
func (s *Service) ReplaceScene(ctx context.Context, sceneNumber int, newFile string) (*models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newOutcome()

	tracks, err := s.client.ListTracks(ctx)
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("list tracks: %w", err)
	}
	track, err := planner.SelectTrack(tracks, models.TrackKindVideo)
	if err != nil {
		out.Status = models.StatusFailed
		return out, err
	}

	clips, err := s.client.ClipsOnTrack(ctx, track.ID)
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("clips on track %d: %w", track.ID, err)
	}
	if sceneNumber < 1 || sceneNumber > len(clips) {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("scene %d (track has %d): %w", sceneNumber, len(clips), models.ErrOutOfRange)
	}
	oldID := clips[sceneNumber-1]

	oldInfo, err := s.client.ClipInfo(ctx, oldID)
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("old clip %d: %w", oldID, err)
	}
	out.Logf("scene %d is clip %d (%q) at %d, %d frames",
		sceneNumber, oldID, oldInfo.Name, oldInfo.Position, oldInfo.Duration)

	// Import before touching the timeline: a failed import must not cost
	// the caller the old clip.
	ref, err := s.disc.DiscoverPath(ctx, newFile)
	if err != nil {
		out.Status = models.StatusFailed
		out.Logf("import failed, timeline untouched: %v", err)
		return out, fmt.Errorf("import %s: %w", filepath.Base(newFile), err)
	}
	out.Clips = append(out.Clips, ref)

	if ok, err := s.client.DeleteClip(ctx, oldID); err != nil || !ok {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("delete clip %d: %w", oldID, firstErr(err, models.ErrNotFound))
	}

	newID, err := s.client.InsertClip(ctx, ref.ID, track.ID, oldInfo.Position)
	if err != nil || newID < 0 {
		out.Status = models.StatusFailed
		pse := &models.PartialStateError{
			Lost: fmt.Sprintf("scene %d (clip %d, %q)", sceneNumber, oldID, oldInfo.Name),
			Err:  firstErr(err, fmt.Errorf("engine refused insert of bin clip %s", ref.ID)),
		}
		out.Logf("%v", pse)
		return out, pse
	}

	placed := models.PlacedClip{
		ClipID: newID, Bin: ref, TrackID: track.ID,
		Position: oldInfo.Position, Duration: oldInfo.Duration,
	}
	if oldInfo.Duration > 0 {
		if actual, err := s.client.ResizeClip(ctx, newID, oldInfo.Duration, true); err != nil {
			out.Failf("resize of clip %d to %d frames failed (%v)", newID, oldInfo.Duration, err)
		} else if actual > 0 {
			placed.Duration = actual
		}
	}
	out.Placed = append(out.Placed, placed)
	out.Logf("replaced scene %d with %s (clip %d) at %d",
		sceneNumber, ref.DisplayName, newID, oldInfo.Position)

	out.Finish()
	return out, nil
}

// ReplaceClip swaps a timeline clip for an already-imported bin clip,
// keyed by timeline clip ID. Same delete/insert window as ReplaceScene.
func (s *Service) ReplaceClip(ctx context.Context, clipID int, binID string, matchDuration bool) (*models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newOutcome()

	info, err := s.client.ClipInfo(ctx, clipID)
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("clip %d: %w", clipID, err)
	}

	trackID := info.TrackID
	if trackID < 0 {
		tracks, err := s.client.ListTracks(ctx)
		if err != nil {
			out.Status = models.StatusFailed
			return out, fmt.Errorf("list tracks: %w", err)
		}
		track, err := planner.SelectTrack(tracks, models.TrackKindVideo)
		if err != nil {
			out.Status = models.StatusFailed
			return out, err
		}
		trackID = track.ID
	}

	if ok, err := s.client.DeleteClip(ctx, clipID); err != nil || !ok {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("delete clip %d: %w", clipID, firstErr(err, models.ErrNotFound))
	}

	newID, err := s.client.InsertClip(ctx, binID, trackID, info.Position)
	if err != nil || newID < 0 {
		out.Status = models.StatusFailed
		pse := &models.PartialStateError{
			Lost: fmt.Sprintf("clip %d (%q)", clipID, info.Name),
			Err:  firstErr(err, fmt.Errorf("engine refused insert of bin clip %s", binID)),
		}
		out.Logf("%v", pse)
		return out, pse
	}

	placed := models.PlacedClip{
		ClipID: newID, Bin: models.ClipRef{ID: binID}, TrackID: trackID,
		Position: info.Position, Duration: info.Duration,
	}
	if matchDuration && info.Duration > 0 {
		if actual, err := s.client.ResizeClip(ctx, newID, info.Duration, true); err != nil {
			out.Failf("resize of clip %d failed (%v)", newID, err)
		} else if actual > 0 {
			placed.Duration = actual
		}
	}
	out.Placed = append(out.Placed, placed)
	out.Logf("replaced clip %d (%q) with bin clip %s as clip %d", clipID, info.Name, binID, newID)

	out.Finish()
	return out, nil
}

func firstErr(err error, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}
