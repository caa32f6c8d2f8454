package workflow

import (
	"context"
	"fmt"

	"kdenlive-mcp/internal/planner"
	"kdenlive-mcp/pkg/models"
)

// AddTransitionsBatch applies a dissolve between every adjacent pair of
// clips on a track, in position order. Per-pair failures accumulate in
// the outcome; the loop never aborts. trackID <= 0 resolves to the first
// video track; frames <= 0 uses the configured default.
func (s *Service) AddTransitionsBatch(ctx context.Context, trackID, frames int) (*models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newOutcome()

	if frames <= 0 {
		frames = s.opts.DefaultTransition
	}
	if trackID <= 0 {
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

	clips, err := s.client.ClipsOnTrack(ctx, trackID)
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("clips on track %d: %w", trackID, err)
	}
	if len(clips) < 2 {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("track %d has %d clips, need 2: %w", trackID, len(clips), models.ErrOutOfRange)
	}

	applied := 0
	for i := 0; i+1 < len(clips); i++ {
		a, b := clips[i], clips[i+1]
		ok, err := s.client.AddMix(ctx, a, b, frames)
		if err != nil || !ok {
			out.Failf("pair %d->%d failed", a, b)
			continue
		}
		applied++
		out.Logf("dissolve %d frames between %d and %d", frames, a, b)
	}
	out.Logf("applied %d of %d transitions on track %d", applied, len(clips)-1, trackID)

	out.Finish()
	return out, nil
}
