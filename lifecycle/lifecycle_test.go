package lifecycle

import (
	"errors"
	"testing"

	"civicconnect-be/apperrors"
	"civicconnect-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legal enumerates the entire move set; every pair not listed here must
// be rejected.
var legal = map[models.IssueStatus][]models.IssueStatus{
	models.Pending:    {models.InProgress, models.Escalated},
	models.InProgress: {models.Resolved, models.Closed, models.Escalated},
	models.Resolved:   {models.Closed, models.Escalated},
	models.Escalated:  {models.InProgress, models.Closed},
	models.Closed:     {},
}

func allowed(from, to models.IssueStatus) bool {
	for _, next := range legal[from] {
		if next == to {
			return true
		}
	}
	return false
}

func TestCanTransitionExhaustive(t *testing.T) {
	for _, from := range models.Statuses {
		for _, to := range models.Statuses {
			assert.Equal(t, allowed(from, to), CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(models.Pending, models.InProgress))
	require.NoError(t, Validate(models.Escalated, models.Closed))
	require.NoError(t, Validate(models.Resolved, models.Escalated))

	// An issue in progress may be closed directly, without passing
	// through Resolved first.
	require.NoError(t, Validate(models.InProgress, models.Closed))

	err := Validate(models.Pending, models.Resolved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	err = Validate(models.Closed, models.InProgress)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	// Identity moves are not in the graph either.
	err = Validate(models.Pending, models.Pending)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestValidateUnknownTarget(t *testing.T) {
	err := Validate(models.Pending, models.IssueStatus("Reopened"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.False(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestValidateForceClose(t *testing.T) {
	for _, from := range []models.IssueStatus{models.Pending, models.InProgress, models.Resolved, models.Escalated} {
		assert.NoError(t, ValidateForceClose(from), "from %s", from)
	}
	assert.ErrorIs(t, ValidateForceClose(models.Closed), apperrors.ErrAlreadyClosed)
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(models.Closed))
	for _, s := range []models.IssueStatus{models.Pending, models.InProgress, models.Resolved, models.Escalated} {
		assert.False(t, Terminal(s), "%s", s)
	}
}
