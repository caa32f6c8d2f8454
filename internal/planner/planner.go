// Package planner decides where a clip goes when the caller did not say:
// which track of a kind, and at what position in a sequential run.
package planner

import (
	"context"
	"fmt"
	"sort"

	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/pkg/models"
)

// SelectTrack returns the first track of the requested kind: lowest
// SortKey wins, ID breaks ties so the choice is stable when the engine
// reports equal positions. models.ErrNoTrack when none exist.
func SelectTrack(tracks []models.Track, kind models.TrackKind) (models.Track, error) {
	var candidates []models.Track
	for _, t := range tracks {
		if t.Kind == kind {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return models.Track{}, fmt.Errorf("%s: %w", kind, models.ErrNoTrack)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].SortKey != candidates[j].SortKey {
			return candidates[i].SortKey < candidates[j].SortKey
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], nil
}

// EnsureTrack selects the first track of kind, creating a default one
// ("V1"/"A1") when the timeline has none. Creation failing is the only
// error surfaced; an empty timeline is not.
func EnsureTrack(ctx context.Context, client kdenlive.Client, kind models.TrackKind) (models.Track, error) {
	tracks, err := client.ListTracks(ctx)
	if err != nil {
		return models.Track{}, err
	}
	track, err := SelectTrack(tracks, kind)
	if err == nil {
		return track, nil
	}

	name, audio := "V1", false
	if kind == models.TrackKindAudio {
		name, audio = "A1", true
	}
	id, err := client.AddTrack(ctx, name, audio)
	if err != nil {
		return models.Track{}, fmt.Errorf("create %s track: %w", kind, err)
	}
	if id < 0 {
		return models.Track{}, fmt.Errorf("create %s track: engine refused: %w", kind, models.ErrNoTrack)
	}
	return models.Track{ID: id, Kind: kind, Name: name}, nil
}

// Cursor tracks the next sequential position on a track. When the engine
// will not report a placement's true duration the configured default is
// substituted so the run keeps advancing deterministically.
type Cursor struct {
	pos             int
	defaultDuration int
}

// NewCursor starts at frame 0.
func NewCursor(defaultDuration int) *Cursor {
	return &Cursor{defaultDuration: defaultDuration}
}

// Position is the frame the next placement should start at.
func (c *Cursor) Position() int { return c.pos }

// Advance moves the cursor past a placement and returns the duration
// actually used (the default when placedDuration is not positive).
func (c *Cursor) Advance(placedDuration int) int {
	d := placedDuration
	if d <= 0 {
		d = c.defaultDuration
	}
	c.pos += d
	return d
}
