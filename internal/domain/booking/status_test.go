package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
)

func TestCheckTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusInquiry, StatusQuoted},
		{StatusInquiry, StatusCancelled},
		{StatusQuoted, StatusConfirmed},
		{StatusQuoted, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, tr := range allowed {
		assert.NoError(t, CheckTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}

	rejected := []struct{ from, to Status }{
		{StatusInquiry, StatusConfirmed},
		{StatusInquiry, StatusCompleted},
		{StatusQuoted, StatusInquiry},
		{StatusQuoted, StatusCompleted},
		{StatusConfirmed, StatusInquiry},
		{StatusConfirmed, StatusQuoted},
		{StatusCompleted, StatusCancelled},
		{StatusCompleted, StatusConfirmed},
		{StatusCancelled, StatusInquiry},
		{StatusCancelled, StatusQuoted},
	}
	for _, tr := range rejected {
		err := CheckTransition(tr.from, tr.to)
		require.Error(t, err, "%s -> %s", tr.from, tr.to)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidStatusTransition, appErr.Code)
	}
}

func TestCheckTransition_UnknownTarget(t *testing.T) {
	err := CheckTransition(StatusInquiry, Status("shipped"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusInquiry))
	assert.False(t, IsTerminal(StatusQuoted))
	assert.False(t, IsTerminal(StatusConfirmed))
}

func TestBooking_TransitionTo_StampsTimestampsOnce(t *testing.T) {
	b := NewBooking(id.New(), 2, "USD")

	firstConfirm := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, b.TransitionTo(StatusQuoted, firstConfirm))
	require.NoError(t, b.TransitionTo(StatusConfirmed, firstConfirm))

	require.NotNil(t, b.ConfirmedAt)
	assert.Equal(t, firstConfirm, *b.ConfirmedAt)

	completion := time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC)
	require.NoError(t, b.TransitionTo(StatusCompleted, completion))
	require.NotNil(t, b.CompletedAt)
	assert.Equal(t, completion, *b.CompletedAt)

	// Confirmation stamp survives later transitions untouched.
	assert.Equal(t, firstConfirm, *b.ConfirmedAt)
}

func TestBooking_TransitionTo_RejectedTransitionLeavesStateUntouched(t *testing.T) {
	b := NewBooking(id.New(), 2, "USD")

	err := b.TransitionTo(StatusCompleted, time.Now())
	require.Error(t, err)
	assert.Equal(t, StatusInquiry, b.Status)
	assert.Nil(t, b.CompletedAt)
}
