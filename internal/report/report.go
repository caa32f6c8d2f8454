// Package report renders engine state as compact markdown for tool
// output: one table row per clip keeps a long timeline readable by an
// agent at a few tokens per row.
package report

import (
	"context"
	"fmt"
	"strings"

	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/pkg/models"
	"kdenlive-mcp/pkg/timecode"
)

// Inspector reads engine state and formats it.
type Inspector struct {
	client kdenlive.Client
	fps    float64
}

// NewInspector builds an Inspector rendering timecodes at fps.
func NewInspector(client kdenlive.Client, fps float64) *Inspector {
	if fps <= 0 {
		fps = timecode.DefaultFPS
	}
	return &Inspector{client: client, fps: fps}
}

// TimelineSummary renders one section per track with a clip table.
// kindFilter is "video", "audio", or "" for all. Adjacent clips that
// overlap are shown as a dissolve of the overlap length.
func (in *Inspector) TimelineSummary(ctx context.Context, kindFilter string) (string, error) {
	tracks, err := in.client.ListTracks(ctx)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "Timeline is empty.", nil
	}

	var sections []string
	for _, t := range tracks {
		if kindFilter != "" && string(t.Kind) != kindFilter {
			continue
		}
		section, err := in.trackSection(ctx, t)
		if err != nil {
			return "", err
		}
		sections = append(sections, section)
	}
	if len(sections) == 0 {
		return "No matching tracks.", nil
	}
	return strings.Join(sections, "\n\n"), nil
}

func (in *Inspector) trackSection(ctx context.Context, t models.Track) (string, error) {
	label := "V"
	if t.Kind == models.TrackKindAudio {
		label = "A"
	}
	title := fmt.Sprintf("%s%d", label, t.ID)
	if t.Name != "" {
		title += " — " + t.Name
	}

	ids, err := in.client.ClipsOnTrack(ctx, t.ID)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return fmt.Sprintf("## %s — 0 clips", title), nil
	}

	infos := make([]models.ClipInfo, len(ids))
	total := 0
	for i, id := range ids {
		info, err := in.client.ClipInfo(ctx, id)
		if err != nil {
			info = models.ClipInfo{Name: fmt.Sprintf("clip-%d", id)}
		}
		infos[i] = info
		total += info.Duration
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s — %d clips, %df (%s)\n\n", title, len(ids), total, timecode.FromFrames(total, in.fps))
	b.WriteString("| # | clip_id | start | end | dur | filename | transition |\n")
	b.WriteString("|---|---------|-------|-----|-----|----------|------------|\n")
	for i, info := range infos {
		trans := "--"
		if i > 0 {
			overlap := infos[i-1].Position + infos[i-1].Duration - info.Position
			if overlap > 0 {
				trans = fmt.Sprintf("dissolve %df", overlap)
			}
		}
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %d | %s | %s |\n",
			i, ids[i],
			timecode.FromFrames(info.Position, in.fps),
			timecode.FromFrames(info.Position+info.Duration, in.fps),
			info.Duration, info.Name, trans)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// TrackList renders all tracks with their clip counts.
func (in *Inspector) TrackList(ctx context.Context) (string, error) {
	tracks, err := in.client.ListTracks(ctx)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "Timeline has no tracks.", nil
	}
	var b strings.Builder
	b.WriteString("| track_id | type | name | clips |\n")
	b.WriteString("|----------|------|------|-------|\n")
	for _, t := range tracks {
		count := 0
		if ids, err := in.client.ClipsOnTrack(ctx, t.ID); err == nil {
			count = len(ids)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d |\n", t.ID, t.Kind, t.Name, count)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// MediaPool renders the clip IDs in one bin folder ("-1" for all).
func (in *Inspector) MediaPool(ctx context.Context, folderID string) (string, error) {
	var ids []string
	var err error
	if folderID == "" || folderID == "-1" {
		ids, err = in.client.ListClipIDs(ctx)
	} else {
		ids, err = in.client.FolderClipIDs(ctx, folderID)
	}
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "Media pool is empty.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d clip(s) in bin:\n\n", len(ids))
	b.WriteString("| bin_id |\n|--------|\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "| %s |\n", id)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// OutcomeText renders a workflow outcome: status line, log, and counters.
func OutcomeText(out *models.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Status:** %s (run %s)\n", out.Status, out.RunID)
	fmt.Fprintf(&b, "**Clips:** %d imported, %d placed", len(out.Clips), len(out.Placed))
	if out.Failures > 0 {
		fmt.Fprintf(&b, ", %d step(s) failed", out.Failures)
	}
	b.WriteString("\n")
	for _, line := range out.Log {
		b.WriteString("- " + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
