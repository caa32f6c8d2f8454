// Package kdenlive is the boundary to a running Kdenlive instance. The
// engine's scripting surface is reached over D-Bus and every value it
// returns is text; this package coerces those strings into the typed
// models exactly once, so nothing above it ever sees raw wire output.
package kdenlive

import (
	"context"

	"kdenlive-mcp/pkg/models"
)

// Client is the full set of engine primitives the orchestration layer
// consumes. Each call can fail independently; several are fire-and-forget
// on the engine side and need a settle wait before their effect is
// observable (the discovery package owns that wait).
type Client interface {
	// ListClipIDs returns a snapshot of every clip ID in the project bin.
	ListClipIDs(ctx context.Context) ([]string, error)
	// FolderClipIDs returns the clip IDs in one bin folder ("-1" = root).
	FolderClipIDs(ctx context.Context, folderID string) ([]string, error)
	// AddProjectClip asks the engine to import a file into the bin. The
	// engine gives no usable synchronous result; discovery diffs the bin.
	AddProjectClip(ctx context.Context, path string) error

	// ListTracks returns all timeline tracks.
	ListTracks(ctx context.Context) ([]models.Track, error)
	// AddTrack creates a track and returns its ID.
	AddTrack(ctx context.Context, name string, audio bool) (int, error)
	// ClipsOnTrack returns timeline clip IDs on a track in position order.
	ClipsOnTrack(ctx context.Context, trackID int) ([]int, error)

	// InsertClip places a bin clip on a track. A negative returned ID is
	// an engine-side refusal; an error is a transport or parse failure.
	InsertClip(ctx context.Context, binID string, trackID, position int) (int, error)
	// ClipInfo queries a placed clip. Returns models.ErrNotFound when the
	// engine does not know the clip.
	ClipInfo(ctx context.Context, clipID int) (models.ClipInfo, error)
	// DeleteClip removes a placed clip.
	DeleteClip(ctx context.Context, clipID int) (bool, error)
	// ResizeClip trims a placed clip to duration frames and returns the
	// duration the engine actually applied. fromEnd anchors the left edge.
	ResizeClip(ctx context.Context, clipID, duration int, fromEnd bool) (int, error)
	// AddMix applies a same-track dissolve between two adjacent clips.
	AddMix(ctx context.Context, clipIDA, clipIDB, duration int) (bool, error)

	// ProjectPath returns the project file's canonical location, or
	// models.ErrNotFound for an unsaved project.
	ProjectPath(ctx context.Context) (string, error)
	// SaveProjectAs writes the full project state to path.
	SaveProjectAs(ctx context.Context, path string) (bool, error)
	// LoadProject replaces the live session with the project at path.
	LoadProject(ctx context.Context, path string) (bool, error)

	Undo(ctx context.Context, steps int) (bool, error)
	Redo(ctx context.Context, steps int) (bool, error)
	UndoStatus(ctx context.Context) (models.UndoStatus, error)
}
