// Package models defines the domain types shared between the engine
// boundary, the orchestration services, and the MCP tool surface.
package models

// TrackKind distinguishes the two families of timeline tracks.
type TrackKind string

const (
	TrackKindVideo TrackKind = "video"
	TrackKindAudio TrackKind = "audio"
)

// ClipRef points at a clip in the project bin. The ID is assigned by
// Kdenlive and is opaque to us; we never own the clip, only refer to it.
type ClipRef struct {
	ID          string `json:"id"`
	SourcePath  string `json:"source_path,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Track is one timeline track as reported by the engine. SortKey is the
// track's position in the timeline stack; the lowest SortKey of a kind is
// the "first" track of that kind.
type Track struct {
	ID      int       `json:"id"`
	Kind    TrackKind `json:"kind"`
	SortKey int       `json:"sort_key"`
	Name    string    `json:"name,omitempty"`
}

// PlacedClip is a bin clip instance placed on a track. Position and
// Duration are in frames. Overlap between adjacent placements on the same
// track is a transition, not an error.
type PlacedClip struct {
	ClipID   int     `json:"clip_id"`
	Bin      ClipRef `json:"bin"`
	TrackID  int     `json:"track_id"`
	Position int     `json:"position"`
	Duration int     `json:"duration"`
}

// ClipInfo is the engine's view of a timeline clip. TrackID is -1 when
// the engine did not report one.
type ClipInfo struct {
	Position int    `json:"position"`
	Duration int    `json:"duration"`
	TrackID  int    `json:"track_id"`
	Name     string `json:"name"`
}

// UndoStatus mirrors the engine's undo stack state. Index/Count describe
// the position within the linear stack; the texts name the next undoable
// and redoable operations.
type UndoStatus struct {
	CanUndo  bool   `json:"can_undo"`
	CanRedo  bool   `json:"can_redo"`
	UndoText string `json:"undo_text,omitempty"`
	RedoText string `json:"redo_text,omitempty"`
	Index    int    `json:"index"`
	Count    int    `json:"count"`
}

// Checkpoint is a saved project snapshot registered under a label.
type Checkpoint struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}
