package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"kdenlive-mcp/internal/planner"
	"kdenlive-mcp/pkg/models"
)

// BuildRequest describes a full timeline assembly.
type BuildRequest struct {
	// Dir holds the candidate source files.
	Dir string
	// Pattern is the glob matched inside Dir. Empty means "*.mp4".
	Pattern string
	// AudioPath optionally adds a music/audio file on the first audio
	// track. Empty skips the step.
	AudioPath string
	// TransitionFrames is the cross-dissolve length between adjacent
	// placements. 0 disables transitions, negative uses the default.
	TransitionFrames int
}

// BuildTimeline imports every file matching the request, sequences the
// successful imports on the first video track, applies pairwise
// transitions, and optionally adds an audio bed. Individual step failures
// are logged into the outcome and do not abort the run; the outcome is
// Failed only when no clips could be imported, found, or placed.
func (s *Service) BuildTimeline(ctx context.Context, req BuildRequest) (*models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newOutcome()

	pattern := req.Pattern
	if pattern == "" {
		pattern = "*.mp4"
	}
	dir, err := filepath.Abs(req.Dir)
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("resolve dir %q: %w", req.Dir, err)
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		out.Status = models.StatusFailed
		out.Logf("no files matched %q in %s", pattern, dir)
		return out, fmt.Errorf("no files matched %q in %s: %w", pattern, dir, models.ErrNotFound)
	}

	// Importing: one file at a time, collecting successes and failures
	// independently.
	for _, f := range files {
		ref, err := s.disc.DiscoverPath(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				out.Status = models.StatusFailed
				return out, ctx.Err()
			}
			out.Failf("import failed: %s (%v)", filepath.Base(f), err)
			continue
		}
		out.Clips = append(out.Clips, ref)
		out.Logf("imported %s as bin clip %s", ref.DisplayName, ref.ID)
	}

	// Fallback: nothing imported this run, reuse whatever a prior run left
	// in the root bin folder before giving up.
	if len(out.Clips) == 0 {
		existing, err := s.client.FolderClipIDs(ctx, "-1")
		if err != nil || len(existing) == 0 {
			out.Status = models.StatusFailed
			out.Logf("no clips imported and none already in bin")
			return out, fmt.Errorf("no clips available: %w", models.ErrNotFound)
		}
		sort.Slice(existing, func(i, j int) bool { return binIDLess(existing[i], existing[j]) })
		for _, id := range existing {
			out.Clips = append(out.Clips, models.ClipRef{ID: id, DisplayName: "bin-" + id})
		}
		out.Logf("using %d existing bin clips", len(existing))
	}

	// Placing: first video track, sequential cursor, skip on failure.
	track, err := planner.EnsureTrack(ctx, s.client, models.TrackKindVideo)
	if err != nil {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("no video track: %w", err)
	}
	out.Logf("target track %d (%s)", track.ID, track.Name)

	cursor := planner.NewCursor(s.opts.DefaultClipDuration)
	for _, ref := range out.Clips {
		at := cursor.Position()
		clipID, err := s.client.InsertClip(ctx, ref.ID, track.ID, at)
		if err != nil || clipID < 0 {
			out.Failf("skip %s: insert failed at %d", ref.DisplayName, at)
			continue
		}
		if err := s.settleInsert(ctx); err != nil {
			out.Status = models.StatusFailed
			return out, err
		}
		dur := 0
		if info, err := s.client.ClipInfo(ctx, clipID); err == nil {
			dur = info.Duration
		}
		used := cursor.Advance(dur)
		if dur <= 0 {
			out.Logf("%s: engine reported no duration, assuming %d frames", ref.DisplayName, used)
		}
		out.Placed = append(out.Placed, models.PlacedClip{
			ClipID:   clipID,
			Bin:      ref,
			TrackID:  track.ID,
			Position: at,
			Duration: used,
		})
		out.Logf("placed %s as clip %d at %d (%d frames)", ref.DisplayName, clipID, at, used)
	}
	if len(out.Placed) == 0 {
		out.Status = models.StatusFailed
		out.Logf("no clips placed on timeline")
		return out, fmt.Errorf("no clips placed: %w", models.ErrNotFound)
	}

	// Augmenting: pairwise dissolves, then the optional audio bed. Each
	// failure is independent.
	if req.TransitionFrames != 0 && len(out.Placed) >= 2 {
		frames := req.TransitionFrames
		if frames < 0 {
			frames = s.opts.DefaultTransition
		}
		applied := 0
		for i := 0; i+1 < len(out.Placed); i++ {
			a, b := out.Placed[i].ClipID, out.Placed[i+1].ClipID
			ok, err := s.client.AddMix(ctx, a, b, frames)
			if err != nil || !ok {
				out.Failf("transition %d->%d failed", a, b)
				continue
			}
			applied++
		}
		out.Logf("applied %d transitions (%d frames each)", applied, frames)
	}

	if req.AudioPath != "" {
		s.addAudioBed(ctx, out, req.AudioPath)
	}

	out.Finish()
	return out, nil
}

func (s *Service) addAudioBed(ctx context.Context, out *models.Outcome, path string) {
	ref, err := s.disc.DiscoverPath(ctx, path)
	if err != nil {
		out.Failf("audio import failed: %s (%v)", filepath.Base(path), err)
		return
	}
	out.Clips = append(out.Clips, ref)

	track, err := planner.EnsureTrack(ctx, s.client, models.TrackKindAudio)
	if err != nil {
		out.Failf("audio: no audio track (%v)", err)
		return
	}
	clipID, err := s.client.InsertClip(ctx, ref.ID, track.ID, 0)
	if err != nil || clipID < 0 {
		out.Failf("audio: insert failed on track %d", track.ID)
		return
	}
	out.Placed = append(out.Placed, models.PlacedClip{
		ClipID: clipID, Bin: ref, TrackID: track.ID, Position: 0,
	})
	out.Logf("audio bed %s placed on track %d", ref.DisplayName, track.ID)
}

// binIDLess orders bin IDs numerically when possible.
func binIDLess(a, b string) bool {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return an < bn
	}
	return a < b
}
