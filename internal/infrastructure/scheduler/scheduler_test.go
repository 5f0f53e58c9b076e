package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/application/dto"
)

type fakeReconciler struct {
	calls  int
	repair bool
	err    error
}

func (f *fakeReconciler) ReconcileAll(_ context.Context, repair bool) (*dto.ReconcileResponse, error) {
	f.calls++
	f.repair = repair
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ReconcileResponse{Checked: 3, Drifts: []dto.ReconcileDriftResponse{{RockID: "r1"}}}, nil
}

func TestNewScheduler_ExpresionInvalida(t *testing.T) {
	_, err := NewScheduler("cada hora", false, &fakeReconciler{}, nil)
	assert.Error(t, err)
}

func TestRunReconcile(t *testing.T) {
	f := &fakeReconciler{}
	s, err := NewScheduler("30 3 * * *", true, f, nil)
	require.NoError(t, err)

	s.RunReconcile()
	assert.Equal(t, 1, f.calls)
	assert.True(t, f.repair)

	f.err = errors.New("db caída")
	s.RunReconcile()
	assert.Equal(t, 2, f.calls)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler("0 0 1 1 *", false, &fakeReconciler{}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()
}
