package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialStateErrorUnwraps(t *testing.T) {
	inner := errors.New("engine refused insert")
	err := fmt.Errorf("replace: %w", &PartialStateError{Lost: "scene 2 (clip 101)", Err: inner})

	var pse *PartialStateError
	assert.True(t, errors.As(err, &pse))
	assert.Equal(t, "scene 2 (clip 101)", pse.Lost)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, pse.Error(), "scene 2 (clip 101)")
}

func TestOutcomeFinish(t *testing.T) {
	var out Outcome
	out.Logf("step one")
	out.Finish()
	assert.Equal(t, StatusCompleted, out.Status)

	out.Failf("step two broke")
	out.Finish()
	assert.Equal(t, StatusCompletedWithFailures, out.Status)
	assert.Equal(t, []string{"step one", "step two broke"}, out.Log)
}
