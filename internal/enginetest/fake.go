// Package enginetest provides a scriptable in-memory stand-in for the
// Kdenlive client, used by the service tests. It models just enough
// engine state for the workflows: a bin, tracks, placements, a project
// file with snapshots, and an undo stack report.
package enginetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/pkg/models"
)

var _ kdenlive.Client = (*FakeEngine)(nil)

// Placement is the fake's record of one timeline clip.
type Placement struct {
	BinID    string
	TrackID  int
	Position int
	Duration int
	Name     string
}

// FakeEngine implements kdenlive.Client against in-memory state.
// Imports succeed only for paths registered via WillImport, mirroring the
// real engine's silent import failures. Every mutating call bumps
// Mutations so fail-fast tests can assert nothing was touched.
type FakeEngine struct {
	mu sync.Mutex

	Bin        []string
	importWill map[string]string

	Tracks      []models.Track
	nextTrackID int

	placements map[int]*Placement
	nextClipID int
	durations  map[string]int
	insertFail map[string]bool
	mixFail    map[[2]int]bool
	resizeFail bool

	ProjectFile string
	State       string
	Snapshots   map[string]string
	saveFail    map[string]bool

	UndoSt models.UndoStatus
	undoOK bool
	redoOK bool

	Mutations int
}

// New returns an empty fake with one video and one audio track.
func New() *FakeEngine {
	return &FakeEngine{
		importWill: make(map[string]string),
		Tracks: []models.Track{
			{ID: 2, Kind: models.TrackKindAudio, SortKey: 0, Name: "A1"},
			{ID: 3, Kind: models.TrackKindVideo, SortKey: 1, Name: "V1"},
		},
		nextTrackID: 10,
		placements:  make(map[int]*Placement),
		nextClipID:  100,
		durations:   make(map[string]int),
		insertFail:  make(map[string]bool),
		mixFail:     make(map[[2]int]bool),
		Snapshots:   make(map[string]string),
		saveFail:    make(map[string]bool),
		undoOK:      true,
		redoOK:      true,
	}
}

// WillImport makes an AddProjectClip of path create binID in the bin.
func (f *FakeEngine) WillImport(path, binID string) *FakeEngine {
	f.importWill[path] = binID
	return f
}

// WithDuration sets the duration the engine reports for placements of a
// bin clip. Unset bin clips report 0.
func (f *FakeEngine) WithDuration(binID string, frames int) *FakeEngine {
	f.durations[binID] = frames
	return f
}

// FailInsert makes inserts of binID return the engine's refusal (-1).
func (f *FakeEngine) FailInsert(binID string) *FakeEngine {
	f.insertFail[binID] = true
	return f
}

// FailMix makes the a->b transition fail.
func (f *FakeEngine) FailMix(a, b int) *FakeEngine {
	f.mixFail[[2]int{a, b}] = true
	return f
}

// FailResize makes every resize return an error.
func (f *FakeEngine) FailResize() *FakeEngine {
	f.resizeFail = true
	return f
}

// FailSave makes SaveProjectAs refuse one path.
func (f *FakeEngine) FailSave(path string) *FakeEngine {
	f.saveFail[path] = true
	return f
}

// SeedBin puts clips in the bin without an import.
func (f *FakeEngine) SeedBin(binIDs ...string) *FakeEngine {
	f.Bin = append(f.Bin, binIDs...)
	return f
}

// NoTracks removes all tracks.
func (f *FakeEngine) NoTracks() *FakeEngine {
	f.Tracks = nil
	return f
}

// NothingToUndo makes Undo and Redo report an empty stack.
func (f *FakeEngine) NothingToUndo() *FakeEngine {
	f.undoOK = false
	f.redoOK = false
	return f
}

// Placements returns a copy of the live placements keyed by clip ID.
func (f *FakeEngine) Placements() map[int]Placement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]Placement, len(f.placements))
	for id, p := range f.placements {
		out[id] = *p
	}
	return out
}

func (f *FakeEngine) mutate() {
	f.Mutations++
}

func (f *FakeEngine) ListClipIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Bin...), nil
}

func (f *FakeEngine) FolderClipIDs(ctx context.Context, folderID string) ([]string, error) {
	return f.ListClipIDs(ctx)
}

func (f *FakeEngine) AddProjectClip(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	if binID, ok := f.importWill[path]; ok {
		f.Bin = append(f.Bin, binID)
	}
	// A path the fake was not told about fails silently, like the engine.
	return nil
}

func (f *FakeEngine) ListTracks(ctx context.Context) ([]models.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Track(nil), f.Tracks...), nil
}

func (f *FakeEngine) AddTrack(ctx context.Context, name string, audio bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	kind := models.TrackKindVideo
	if audio {
		kind = models.TrackKindAudio
	}
	id := f.nextTrackID
	f.nextTrackID++
	f.Tracks = append(f.Tracks, models.Track{ID: id, Kind: kind, SortKey: len(f.Tracks), Name: name})
	return id, nil
}

func (f *FakeEngine) ClipsOnTrack(ctx context.Context, trackID int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int
	for id, p := range f.placements {
		if p.TrackID == trackID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return f.placements[ids[i]].Position < f.placements[ids[j]].Position
	})
	return ids, nil
}

func (f *FakeEngine) InsertClip(ctx context.Context, binID string, trackID, position int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	if f.insertFail[binID] {
		return -1, nil
	}
	id := f.nextClipID
	f.nextClipID++
	f.placements[id] = &Placement{
		BinID:    binID,
		TrackID:  trackID,
		Position: position,
		Duration: f.durations[binID],
		Name:     "bin-" + binID,
	}
	return id, nil
}

func (f *FakeEngine) ClipInfo(ctx context.Context, clipID int) (models.ClipInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.placements[clipID]
	if !ok {
		return models.ClipInfo{}, fmt.Errorf("clip %d: %w", clipID, models.ErrNotFound)
	}
	return models.ClipInfo{Position: p.Position, Duration: p.Duration, TrackID: p.TrackID, Name: p.Name}, nil
}

func (f *FakeEngine) DeleteClip(ctx context.Context, clipID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	if _, ok := f.placements[clipID]; !ok {
		return false, nil
	}
	delete(f.placements, clipID)
	return true, nil
}

func (f *FakeEngine) ResizeClip(ctx context.Context, clipID, duration int, fromEnd bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	if f.resizeFail {
		return 0, fmt.Errorf("resize refused")
	}
	p, ok := f.placements[clipID]
	if !ok {
		return 0, fmt.Errorf("clip %d: %w", clipID, models.ErrNotFound)
	}
	p.Duration = duration
	return duration, nil
}

func (f *FakeEngine) AddMix(ctx context.Context, clipIDA, clipIDB, duration int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	if f.mixFail[[2]int{clipIDA, clipIDB}] {
		return false, nil
	}
	a, okA := f.placements[clipIDA]
	b, okB := f.placements[clipIDB]
	if !okA || !okB {
		return false, nil
	}
	// Model the dissolve as overlap: the earlier clip extends into the
	// later one, positions stay put.
	if a.Position <= b.Position {
		a.Duration += duration
	} else {
		b.Duration += duration
	}
	return true, nil
}

func (f *FakeEngine) ProjectPath(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ProjectFile == "" {
		return "", fmt.Errorf("project unsaved: %w", models.ErrNotFound)
	}
	return f.ProjectFile, nil
}

func (f *FakeEngine) SaveProjectAs(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	if f.saveFail[path] {
		return false, nil
	}
	f.Snapshots[path] = f.State
	return true, nil
}

func (f *FakeEngine) LoadProject(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	state, ok := f.Snapshots[path]
	if !ok {
		return false, nil
	}
	f.State = state
	return true, nil
}

func (f *FakeEngine) Undo(ctx context.Context, steps int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	return f.undoOK, nil
}

func (f *FakeEngine) Redo(ctx context.Context, steps int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutate()
	return f.redoOK, nil
}

func (f *FakeEngine) UndoStatus(ctx context.Context) (models.UndoStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.UndoSt, nil
}
