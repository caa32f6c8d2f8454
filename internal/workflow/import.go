package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	"kdenlive-mcp/pkg/models"
)

// ImportMedia imports files into the bin one at a time, resolving each new
// clip's ID by discovery. Per-file failures accumulate; the outcome is
// Failed only when nothing imported.
func (s *Service) ImportMedia(ctx context.Context, paths []string) (*models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newOutcome()
	if len(paths) == 0 {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("no paths given: %w", models.ErrNotFound)
	}

	for _, p := range paths {
		ref, err := s.disc.DiscoverPath(ctx, p)
		if err != nil {
			if ctx.Err() != nil {
				out.Status = models.StatusFailed
				return out, ctx.Err()
			}
			out.Failf("import failed: %s (%v)", filepath.Base(p), err)
			continue
		}
		out.Clips = append(out.Clips, ref)
		out.Logf("imported %s as bin clip %s", ref.DisplayName, ref.ID)
	}

	if len(out.Clips) == 0 {
		out.Status = models.StatusFailed
		return out, fmt.Errorf("no clips imported: %w", models.ErrNoNewClip)
	}
	out.Finish()
	return out, nil
}
