package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"kdenlive-mcp/internal/report"
	"kdenlive-mcp/internal/undo"
	"kdenlive-mcp/internal/workflow"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"build_timeline",
			mcp.WithDescription("Build a complete timeline: import media from a directory, sequence the clips, add transitions, optionally add an audio bed"),
			mcp.WithString("video_dir", mcp.Required(), mcp.Description("Directory containing the scene video clips")),
			mcp.WithString("pattern", mcp.Description("Glob pattern for video files (default *.mp4)")),
			mcp.WithString("audio_path", mcp.Description("Optional path to an audio/music file")),
			mcp.WithNumber("transition_frames", mcp.Description("Cross-dissolve duration in frames, 0 to skip (default 13)")),
		),
		s.handleBuildTimeline,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"replace_scene",
			mcp.WithDescription("Replace one scene clip on the first video track by scene number (1-based), preserving its position and duration"),
			mcp.WithNumber("scene_number", mcp.Required(), mcp.Description("Scene number, 1-based")),
			mcp.WithString("new_file", mcp.Required(), mcp.Description("Absolute path to the replacement video file")),
		),
		s.handleReplaceScene,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"replace_clip",
			mcp.WithDescription("Replace a timeline clip by clip ID with an already-imported bin clip. To replace by scene number with auto-import, use replace_scene"),
			mcp.WithNumber("clip_id", mcp.Required(), mcp.Description("Timeline clip ID to replace")),
			mcp.WithString("new_bin_id", mcp.Required(), mcp.Description("Bin ID of the replacement clip")),
			mcp.WithBoolean("match_duration", mcp.Description("Trim the new clip to the old duration (default true)")),
		),
		s.handleReplaceClip,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"add_transition",
			mcp.WithDescription("Add a dissolve between two adjacent timeline clips"),
			mcp.WithNumber("clip_id_a", mcp.Required(), mcp.Description("First clip's timeline ID")),
			mcp.WithNumber("clip_id_b", mcp.Required(), mcp.Description("Second clip's timeline ID")),
			mcp.WithNumber("duration", mcp.Description("Transition duration in frames (default 13)")),
		),
		s.handleAddTransition,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"add_transitions_batch",
			mcp.WithDescription("Add dissolves between all adjacent clip pairs on a track"),
			mcp.WithNumber("track_id", mcp.Description("Track ID; omit for the first video track")),
			mcp.WithNumber("duration", mcp.Description("Transition duration in frames (default 13)")),
		),
		s.handleAddTransitionsBatch,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"import_media",
			mcp.WithDescription("Import media files into the bin. For import plus timeline assembly use build_timeline"),
			mcp.WithArray("file_paths", mcp.Required(), mcp.Description("Absolute file paths to import")),
		),
		s.handleImportMedia,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_media_pool",
			mcp.WithDescription("List clips in the media pool"),
			mcp.WithString("folder_id", mcp.Description("Bin folder ID, -1 for all clips")),
		),
		s.handleGetMediaPool,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_timeline_summary",
			mcp.WithDescription("Timeline contents as markdown tables, one per track"),
			mcp.WithString("track_type", mcp.Description("Filter: video, audio, or all (default all)")),
		),
		s.handleTimelineSummary,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_track_list",
			mcp.WithDescription("List all timeline tracks"),
		),
		s.handleTrackList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"checkpoint_save",
			mcp.WithDescription("Save a restorable snapshot of the current project state"),
			mcp.WithString("label", mcp.Description("Checkpoint label, auto-generated if empty")),
		),
		s.handleCheckpointSave,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"checkpoint_restore",
			mcp.WithDescription("Restore a previously saved checkpoint"),
			mcp.WithString("label", mcp.Description("Checkpoint label; empty restores the most recent")),
		),
		s.handleCheckpointRestore,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"undo",
			mcp.WithDescription("Undo the last operation(s)"),
			mcp.WithNumber("steps", mcp.Description("Number of operations to undo (default 1)")),
		),
		s.handleUndo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"redo",
			mcp.WithDescription("Redo previously undone operation(s)"),
			mcp.WithNumber("steps", mcp.Description("Number of operations to redo (default 1)")),
		),
		s.handleRedo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"undo_status",
			mcp.WithDescription("Show undo/redo stack position and pending operations"),
		),
		s.handleUndoStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"save_project",
			mcp.WithDescription("Save the project, optionally to a new path"),
			mcp.WithString("path", mcp.Description("Target path; empty saves to the current project path")),
		),
		s.handleSaveProject,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"load_project",
			mcp.WithDescription("Load a project file, replacing the live session"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Project file path")),
		),
		s.handleLoadProject,
	)
}

func (s *Server) handleBuildTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := toolArgs(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}
	dir := argString(args, "video_dir", "")
	if dir == "" {
		return mcp.NewToolResultError("Missing required parameter: video_dir"), nil
	}
	out, err := s.workflows.BuildTimeline(ctx, workflow.BuildRequest{
		Dir:              dir,
		Pattern:          argString(args, "pattern", ""),
		AudioPath:        argString(args, "audio_path", ""),
		TransitionFrames: argInt(args, "transition_frames", -1),
	})
	return outcomeResult(report.OutcomeText(out), err), nil
}

func (s *Server) handleReplaceScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := toolArgs(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}
	scene := argInt(args, "scene_number", 0)
	file := argString(args, "new_file", "")
	if scene == 0 || file == "" {
		return mcp.NewToolResultError("Missing required parameters: scene_number, new_file"), nil
	}
	out, err := s.workflows.ReplaceScene(ctx, scene, file)
	return outcomeResult(report.OutcomeText(out), err), nil
}

func (s *Server) handleReplaceClip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := toolArgs(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}
	clipID := argInt(args, "clip_id", -1)
	binID := argString(args, "new_bin_id", "")
	if clipID < 0 || binID == "" {
		return mcp.NewToolResultError("Missing required parameters: clip_id, new_bin_id"), nil
	}
	out, err := s.workflows.ReplaceClip(ctx, clipID, binID, argBool(args, "match_duration", true))
	return outcomeResult(report.OutcomeText(out), err), nil
}

func (s *Server) handleAddTransition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := toolArgs(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}
	a := argInt(args, "clip_id_a", -1)
	b := argInt(args, "clip_id_b", -1)
	if a < 0 || b < 0 {
		return mcp.NewToolResultError("Missing required parameters: clip_id_a, clip_id_b"), nil
	}
	frames := argInt(args, "duration", 13)
	applied, err := s.client.AddMix(ctx, a, b, frames)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !applied {
		return mcp.NewToolResultError(fmt.Sprintf("Could not add transition between %d and %d", a, b)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added dissolve (%df) between clips %d and %d", frames, a, b)), nil
}

func (s *Server) handleAddTransitionsBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := toolArgs(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}
	out, err := s.workflows.AddTransitionsBatch(ctx, argInt(args, "track_id", 0), argInt(args, "duration", 0))
	return outcomeResult(report.OutcomeText(out), err), nil
}

func (s *Server) handleImportMedia(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := toolArgs(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}
	paths := argStrings(args, "file_paths")
	if len(paths) == 0 {
		return mcp.NewToolResultError("Missing required parameter: file_paths"), nil
	}
	out, err := s.workflows.ImportMedia(ctx, paths)
	return outcomeResult(report.OutcomeText(out), err), nil
}

func (s *Server) handleGetMediaPool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := toolArgs(request)
	text, err := s.insp.MediaPool(ctx, argString(args, "folder_id", "-1"))
	return outcomeResult(text, err), nil
}

func (s *Server) handleTimelineSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := toolArgs(request)
	filter := argString(args, "track_type", "all")
	if filter == "all" {
		filter = ""
	}
	text, err := s.insp.TimelineSummary(ctx, filter)
	return outcomeResult(text, err), nil
}

func (s *Server) handleTrackList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.insp.TrackList(ctx)
	return outcomeResult(text, err), nil
}

func (s *Server) handleCheckpointSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := toolArgs(request)
	cp, err := s.ckpt.Save(ctx, argString(args, "label", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Checkpoint %q saved: %s", cp.Label, cp.Path)), nil
}

func (s *Server) handleCheckpointRestore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := toolArgs(request)
	cp, err := s.ckpt.Restore(ctx, argString(args, "label", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Restored checkpoint %q from %s", cp.Label, cp.Path)), nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := toolArgs(request)
	msg, err := s.undo.Undo(ctx, argInt(args, "steps", 1))
	return outcomeResult(msg, err), nil
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := toolArgs(request)
	msg, err := s.undo.Redo(ctx, argInt(args, "steps", 1))
	return outcomeResult(msg, err), nil
}

func (s *Server) handleUndoStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.undo.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(undo.FormatStatus(st)), nil
}

func (s *Server) handleSaveProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := toolArgs(request)
	path := argString(args, "path", "")
	if path == "" {
		current, err := s.client.ProjectPath(ctx)
		if err != nil {
			return mcp.NewToolResultError("Project has no path yet; pass one explicitly"), nil
		}
		path = current
	}
	saved, err := s.client.SaveProjectAs(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !saved {
		return mcp.NewToolResultError(fmt.Sprintf("Engine refused save to %s", path)), nil
	}
	return mcp.NewToolResultText("Project saved: " + path), nil
}

func (s *Server) handleLoadProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := toolArgs(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}
	path := argString(args, "path", "")
	if path == "" {
		return mcp.NewToolResultError("Missing required parameter: path"), nil
	}
	loaded, err := s.client.LoadProject(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !loaded {
		return mcp.NewToolResultError(fmt.Sprintf("Engine could not load %s", path)), nil
	}
	return mcp.NewToolResultText("Project loaded: " + path), nil
}
