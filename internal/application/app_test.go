package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/infrastructure/inference"
)

func newTestApp(t *testing.T, camera *fakeCamera, model *constModel) (*App, *recordingPresenter) {
	t.Helper()
	f := newScoringFixture(t, model)
	f.svc.camera = camera
	gate, _ := newGate(f.auth, f.presenter, f.ui)
	opts := entity.StartOptions{Facing: entity.FacingFront, Resolution: entity.Resolution{Width: 1280, Height: 720}}
	return NewApp(gate, f.svc, camera, model, f.presenter, opts, zap.NewNop()), f.presenter
}

func TestApp_StartWithoutCameraFails(t *testing.T) {
	camera := &fakeCamera{startErr: fmt.Errorf("%w: no front camera", entity.ErrNoDeviceFound)}
	a, _ := newTestApp(t, camera, newConstModel(0.5))

	err := a.Start(context.Background())
	require.True(t, errors.Is(err, entity.ErrNoDeviceFound))
}

func TestApp_StartWithBusyCameraContinues(t *testing.T) {
	camera := &fakeCamera{startErr: fmt.Errorf("%w: device busy", entity.ErrInputUnavailable)}
	a, p := newTestApp(t, camera, newConstModel(0.5))

	require.NoError(t, a.Start(context.Background()))
	shownList, _ := p.snapshot()
	require.Equal(t, []shown{{title: titleCameraError, message: msgCameraInput}}, shownList)
}

func TestApp_ShootAndClose(t *testing.T) {
	camera := &fakeCamera{image: pngFrame(t, 150, 150)}
	model := newConstModel(0.73)
	a, _ := newTestApp(t, camera, model)

	require.NoError(t, a.Start(context.Background()))
	require.True(t, camera.started)

	require.NoError(t, a.Shoot(context.Background()))
	require.Eventually(t, func() bool { return !a.scoring.InProgress() }, time.Second, time.Millisecond)

	img, err := a.Preview(context.Background(), entity.Viewport{X: 9, Y: 16})
	require.NoError(t, err)
	require.Equal(t, 9, img.Bounds().Dx())

	require.NoError(t, a.Close())
	require.True(t, camera.closed)
	require.True(t, model.closed)
}

func TestApp_PreviewAndForegroundWithoutPermission(t *testing.T) {
	f := newScoringFixture(t, newConstModel(0.5))
	f.auth.state = entity.PermissionDenied
	gate, _ := newGate(f.auth, f.presenter, f.ui)
	a := NewApp(gate, f.svc, f.camera, nil, f.presenter, entity.StartOptions{}, zap.NewNop())

	_, err := a.Preview(context.Background(), entity.Viewport{X: 9, Y: 16})
	require.ErrorIs(t, err, entity.ErrPermissionDenied)

	a.Foreground()
	_, notAuthorized := f.presenter.snapshot()
	require.Equal(t, 1, notAuthorized)
}

type slowModel struct {
	running            atomic.Bool
	closedWhileRunning atomic.Bool
	closed             atomic.Bool
}

func (m *slowModel) InputShape() entity.Shape  { return entity.InputShape() }
func (m *slowModel) OutputShape() entity.Shape { return entity.OutputShape() }

func (m *slowModel) Run(in []float32) ([]float32, error) {
	m.running.Store(true)
	defer m.running.Store(false)
	time.Sleep(300 * time.Millisecond)
	return []float32{0.5}, nil
}

func (m *slowModel) Close() error {
	m.closedWhileRunning.Store(m.running.Load())
	m.closed.Store(true)
	return nil
}

func TestApp_CloseAfterTimeoutWaitsForModel(t *testing.T) {
	model := &slowModel{}
	f := newScoringFixture(t, newConstModel(0))
	f.svc.engine = inference.NewEngine(20 * time.Millisecond)
	f.svc.model = model
	gate, _ := newGate(f.auth, f.presenter, f.ui)
	a := NewApp(gate, f.svc, f.camera, model, f.presenter, entity.StartOptions{}, zap.NewNop())

	ch, err := a.scoring.Shutter(context.Background())
	require.NoError(t, err)
	res := receive(t, ch)
	require.ErrorIs(t, res.Err, entity.ErrTimeout)

	require.NoError(t, a.Close())
	require.True(t, model.closed.Load())
	require.False(t, model.closedWhileRunning.Load())
}
