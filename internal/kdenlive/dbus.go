package kdenlive

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"kdenlive-mcp/internal/logging"
	"kdenlive-mcp/pkg/models"
)

// Runner executes one external command. Injected so tests can script the
// engine without a live Kdenlive on the session bus.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner runs commands on the host.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Options configures a DBusClient.
type Options struct {
	// Service is the engine's D-Bus name.
	Service string
	// Path is the object path of the scripting interface.
	Path string
	// CommandTimeout bounds one call.
	CommandTimeout time.Duration
}

// DBusClient drives Kdenlive's scripting surface by shelling out to
// qdbus. One method call = one qdbus invocation; the reply is plain text.
type DBusClient struct {
	opts   Options
	runner Runner
	log    *logging.Logger
}

// NewDBusClient builds a client against the host's qdbus.
func NewDBusClient(opts Options, log *logging.Logger) *DBusClient {
	return NewDBusClientWithRunner(opts, OSRunner{}, log)
}

// NewDBusClientWithRunner injects the command runner.
func NewDBusClientWithRunner(opts Options, runner Runner, log *logging.Logger) *DBusClient {
	if opts.Service == "" {
		opts.Service = "org.kde.kdenlive"
	}
	if opts.Path == "" {
		opts.Path = "/MainApplication"
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 10 * time.Second
	}
	return &DBusClient{opts: opts, runner: runner, log: log.Component("kdenlive")}
}

func (c *DBusClient) call(ctx context.Context, method string, args ...string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.opts.CommandTimeout)
	defer cancel()

	qargs := append([]string{c.opts.Service, c.opts.Path, method}, args...)
	out, err := c.runner.Run(callCtx, "qdbus", qargs...)
	if err != nil {
		c.log.Debug("engine call failed", "method", method, "error", err)
		return "", fmt.Errorf("engine call %s: %w", method, err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func (c *DBusClient) ListClipIDs(ctx context.Context) ([]string, error) {
	out, err := c.call(ctx, "getAllClipIds")
	if err != nil {
		return nil, err
	}
	return parseIDList(out), nil
}

func (c *DBusClient) FolderClipIDs(ctx context.Context, folderID string) ([]string, error) {
	out, err := c.call(ctx, "getFolderClipIds", folderID)
	if err != nil {
		return nil, err
	}
	return parseIDList(out), nil
}

func (c *DBusClient) AddProjectClip(ctx context.Context, path string) error {
	// Fire-and-forget: the reply carries nothing trustworthy.
	_, err := c.call(ctx, "addProjectClip", path)
	return err
}

func (c *DBusClient) ListTracks(ctx context.Context) ([]models.Track, error) {
	out, err := c.call(ctx, "getAllTracksInfo")
	if err != nil {
		return nil, err
	}
	var tracks []models.Track
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec := parseRecord(line)
		id := intField(rec, -1, "id", "track_id")
		if id < 0 {
			continue
		}
		kind := models.TrackKindVideo
		if parseBool(rec["audio"]) {
			kind = models.TrackKindAudio
		}
		tracks = append(tracks, models.Track{
			ID:      id,
			Kind:    kind,
			SortKey: intField(rec, 0, "position"),
			Name:    rec["name"],
		})
	}
	return tracks, nil
}

func (c *DBusClient) AddTrack(ctx context.Context, name string, audio bool) (int, error) {
	out, err := c.call(ctx, "addTrack", name, strconv.FormatBool(audio))
	if err != nil {
		return -1, err
	}
	return parseInt(out, -1), nil
}

func (c *DBusClient) ClipsOnTrack(ctx context.Context, trackID int) ([]int, error) {
	out, err := c.call(ctx, "getClipsOnTrack", strconv.Itoa(trackID))
	if err != nil {
		return nil, err
	}
	return parseIntList(out), nil
}

func (c *DBusClient) InsertClip(ctx context.Context, binID string, trackID, position int) (int, error) {
	out, err := c.call(ctx, "insertClip", binID, strconv.Itoa(trackID), strconv.Itoa(position))
	if err != nil {
		return -1, err
	}
	return parseInt(out, -1), nil
}

func (c *DBusClient) ClipInfo(ctx context.Context, clipID int) (models.ClipInfo, error) {
	out, err := c.call(ctx, "getTimelineClipInfo", strconv.Itoa(clipID))
	if err != nil {
		return models.ClipInfo{}, err
	}
	kv := parseKVLines(out)
	if len(kv) == 0 {
		return models.ClipInfo{}, fmt.Errorf("clip %d: %w", clipID, models.ErrNotFound)
	}
	return models.ClipInfo{
		Position: intField(kv, 0, "position", "start"),
		Duration: intField(kv, 0, "duration"),
		TrackID:  intField(kv, -1, "track_id", "track"),
		Name:     kv["name"],
	}, nil
}

func (c *DBusClient) DeleteClip(ctx context.Context, clipID int) (bool, error) {
	out, err := c.call(ctx, "deleteTimelineClip", strconv.Itoa(clipID))
	if err != nil {
		return false, err
	}
	return parseBool(out), nil
}

func (c *DBusClient) ResizeClip(ctx context.Context, clipID, duration int, fromEnd bool) (int, error) {
	out, err := c.call(ctx, "resizeClip", strconv.Itoa(clipID), strconv.Itoa(duration), strconv.FormatBool(fromEnd))
	if err != nil {
		return 0, err
	}
	return parseInt(out, 0), nil
}

func (c *DBusClient) AddMix(ctx context.Context, clipIDA, clipIDB, duration int) (bool, error) {
	out, err := c.call(ctx, "addMix", strconv.Itoa(clipIDA), strconv.Itoa(clipIDB), strconv.Itoa(duration))
	if err != nil {
		return false, err
	}
	return parseBool(out), nil
}

func (c *DBusClient) ProjectPath(ctx context.Context) (string, error) {
	out, err := c.call(ctx, "getProjectPath")
	if err != nil {
		return "", err
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return "", fmt.Errorf("project has no path yet: %w", models.ErrNotFound)
	}
	return path, nil
}

func (c *DBusClient) SaveProjectAs(ctx context.Context, path string) (bool, error) {
	out, err := c.call(ctx, "saveProjectAs", path)
	if err != nil {
		return false, err
	}
	return parseBool(out), nil
}

func (c *DBusClient) LoadProject(ctx context.Context, path string) (bool, error) {
	out, err := c.call(ctx, "loadProject", path)
	if err != nil {
		return false, err
	}
	return parseBool(out), nil
}

func (c *DBusClient) Undo(ctx context.Context, steps int) (bool, error) {
	out, err := c.call(ctx, "undo", strconv.Itoa(steps))
	if err != nil {
		return false, err
	}
	return parseBool(out), nil
}

func (c *DBusClient) Redo(ctx context.Context, steps int) (bool, error) {
	out, err := c.call(ctx, "redo", strconv.Itoa(steps))
	if err != nil {
		return false, err
	}
	return parseBool(out), nil
}

func (c *DBusClient) UndoStatus(ctx context.Context) (models.UndoStatus, error) {
	out, err := c.call(ctx, "undoStatus")
	if err != nil {
		return models.UndoStatus{}, err
	}
	kv := parseKVLines(out)
	return models.UndoStatus{
		CanUndo:  parseBool(kv["can_undo"]),
		CanRedo:  parseBool(kv["can_redo"]),
		UndoText: kv["undo_text"],
		RedoText: kv["redo_text"],
		Index:    intField(kv, 0, "index"),
		Count:    intField(kv, 0, "count"),
	}, nil
}

var _ Client = (*DBusClient)(nil)
