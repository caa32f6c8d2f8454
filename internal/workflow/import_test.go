package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kdenlive-mcp/internal/enginetest"
	"kdenlive-mcp/pkg/models"
)

func TestImportMediaAccumulatesPerFile(t *testing.T) {
	f := enginetest.New().
		WillImport("/media/a.mp4", "1").
		WillImport("/media/c.mp4", "2")
	svc := newTestService(f)

	out, err := svc.ImportMedia(context.Background(), []string{"/media/a.mp4", "/media/b.mp4", "/media/c.mp4"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompletedWithFailures, out.Status)
	require.Len(t, out.Clips, 2)
	assert.Equal(t, "1", out.Clips[0].ID)
	assert.Equal(t, "a.mp4", out.Clips[0].DisplayName)
	assert.Equal(t, "2", out.Clips[1].ID)
	assert.Equal(t, 1, out.Failures)
}

func TestImportMediaFailsWhenNothingImports(t *testing.T) {
	f := enginetest.New()
	svc := newTestService(f)

	out, err := svc.ImportMedia(context.Background(), []string{"/media/a.mp4"})
	require.ErrorIs(t, err, models.ErrNoNewClip)
	assert.Equal(t, models.StatusFailed, out.Status)
}

func TestImportMediaNoPaths(t *testing.T) {
	svc := newTestService(enginetest.New())

	out, err := svc.ImportMedia(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, out.Status)
}
