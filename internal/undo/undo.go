// Package undo forwards to the engine's native linear undo stack and
// formats its status. No orchestration lives here; the stringly wire
// values are already typed by the kdenlive boundary.
package undo

import (
	"context"
	"fmt"
	"strings"

	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/pkg/models"
)

// Reporter exposes the engine's undo/redo stack.
type Reporter struct {
	client kdenlive.Client
}

// NewReporter wires a Reporter.
func NewReporter(client kdenlive.Client) *Reporter {
	return &Reporter{client: client}
}

// Undo steps the stack back and describes the new position. A false from
// the engine means there was nothing to undo.
func (r *Reporter) Undo(ctx context.Context, steps int) (string, error) {
	if steps < 1 {
		steps = 1
	}
	ok, err := r.client.Undo(ctx, steps)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Nothing to undo.", nil
	}
	return r.describe(ctx, fmt.Sprintf("Undid %d operation(s).", steps), true)
}

// Redo steps the stack forward.
func (r *Reporter) Redo(ctx context.Context, steps int) (string, error) {
	if steps < 1 {
		steps = 1
	}
	ok, err := r.client.Redo(ctx, steps)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Nothing to redo.", nil
	}
	return r.describe(ctx, fmt.Sprintf("Redid %d operation(s).", steps), false)
}

// Status returns the typed stack state.
func (r *Reporter) Status(ctx context.Context) (models.UndoStatus, error) {
	return r.client.UndoStatus(ctx)
}

// FormatStatus renders a status for tool output.
func FormatStatus(st models.UndoStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stack position: %d/%d\n", st.Index, st.Count)
	if st.CanUndo {
		fmt.Fprintf(&b, "Can undo: %q\n", st.UndoText)
	} else {
		b.WriteString("Can undo: no\n")
	}
	if st.CanRedo {
		fmt.Fprintf(&b, "Can redo: %q", st.RedoText)
	} else {
		b.WriteString("Can redo: no")
	}
	return b.String()
}

func (r *Reporter) describe(ctx context.Context, prefix string, undo bool) (string, error) {
	st, err := r.client.UndoStatus(ctx)
	if err != nil {
		// The step itself succeeded; report that much.
		return prefix, nil
	}
	msg := fmt.Sprintf("%s Stack position: %d/%d.", prefix, st.Index, st.Count)
	if undo && st.UndoText != "" {
		msg += fmt.Sprintf(" Next undo: %q", st.UndoText)
	}
	if !undo && st.RedoText != "" {
		msg += fmt.Sprintf(" Next redo: %q", st.RedoText)
	}
	return msg, nil
}
