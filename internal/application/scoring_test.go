package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
	"how-pretty/internal/infrastructure/inference"
	"how-pretty/internal/infrastructure/storage"
	"how-pretty/internal/infrastructure/vision"
)

type scoringFixture struct {
	svc       *ScoringService
	camera    *fakeCamera
	auth      *fakeAuthorizer
	presenter *recordingPresenter
	ui        *queueDispatcher
	history   *storage.MemoryScoreRepository
}

func newScoringFixture(t *testing.T, model *constModel) *scoringFixture {
	t.Helper()
	f := &scoringFixture{
		camera:    &fakeCamera{image: pngFrame(t, 320, 240)},
		auth:      &fakeAuthorizer{state: entity.PermissionAuthorized},
		presenter: &recordingPresenter{},
		ui:        newQueueDispatcher(),
		history:   storage.NewMemoryScoreRepository(),
	}
	gate, _ := newGate(f.auth, f.presenter, f.ui)
	f.svc = NewScoringService(ScoringDeps{
		Camera:    f.camera,
		Prep:      vision.NewPreprocessor(),
		Engine:    inference.NewEngine(0),
		Model:     model,
		History:   f.history,
		Presenter: f.presenter,
		UI:        f.ui,
		Gate:      gate,
		Logger:    zap.NewNop(),
	})
	return f
}

func TestScoringService_EndToEnd(t *testing.T) {
	f := newScoringFixture(t, newConstModel(0.73))

	ch, err := f.svc.Shutter(context.Background())
	require.NoError(t, err)

	res := receive(t, ch)
	require.NoError(t, res.Err)
	require.Equal(t, float32(0.73), res.Score)

	f.ui.Drain()
	shownList, _ := f.presenter.snapshot()
	require.Equal(t, []shown{{title: "0.73", message: ""}}, shownList)

	recent, err := f.svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, float32(0.73), recent[0].Score)
}

func TestScoringService_SerializesShutter(t *testing.T) {
	f := newScoringFixture(t, newConstModel(0.5))
	release := make(chan struct{})
	f.camera.gate = release

	ch, err := f.svc.Shutter(context.Background())
	require.NoError(t, err)
	require.True(t, f.svc.InProgress())

	_, err = f.svc.Shutter(context.Background())
	require.True(t, errors.Is(err, entity.ErrCaptureInProgress))

	close(release)
	receive(t, ch)
	require.False(t, f.svc.InProgress())

	ch, err = f.svc.Shutter(context.Background())
	require.NoError(t, err)
	receive(t, ch)
}

func TestScoringService_DecodeFailureIsShown(t *testing.T) {
	f := newScoringFixture(t, newConstModel(0.5))
	f.camera.image = entity.CapturedImage{Data: []byte("garbage"), Format: "jpeg"}

	ch, err := f.svc.Shutter(context.Background())
	require.NoError(t, err)
	res := receive(t, ch)
	require.True(t, errors.Is(res.Err, entity.ErrDecodeFailed))

	f.ui.Drain()
	shownList, _ := f.presenter.snapshot()
	require.Len(t, shownList, 1)
	require.Equal(t, titlePhotoError, shownList[0].title)

	recent, err := f.history.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, recent)
}

func TestScoringService_FormatMismatchIsShown(t *testing.T) {
	model := newConstModel(0.5)
	model.in = entity.Shape{1, 224, 224, 3}
	f := newScoringFixture(t, model)

	ch, err := f.svc.Shutter(context.Background())
	require.NoError(t, err)
	res := receive(t, ch)
	require.True(t, errors.Is(res.Err, entity.ErrFormatMismatch))

	f.ui.Drain()
	shownList, _ := f.presenter.snapshot()
	require.Len(t, shownList, 1)
	require.Equal(t, titleScoringError, shownList[0].title)
	require.Contains(t, shownList[0].message, "format mismatch")
}

func TestScoringService_CaptureErrorIsShown(t *testing.T) {
	f := newScoringFixture(t, newConstModel(0.5))
	f.camera.err = entity.ErrSessionStopped

	ch, err := f.svc.Shutter(context.Background())
	require.NoError(t, err)
	receive(t, ch)

	f.ui.Drain()
	shownList, _ := f.presenter.snapshot()
	require.Equal(t, []shown{{title: titleCameraError, message: msgCameraInput}}, shownList)
}

func TestScoringService_PermissionDenied(t *testing.T) {
	f := newScoringFixture(t, newConstModel(0.5))
	f.auth.state = entity.PermissionDenied

	_, err := f.svc.Shutter(context.Background())
	require.True(t, errors.Is(err, entity.ErrPermissionDenied))
	require.False(t, f.svc.InProgress())

	f.ui.Drain()
	_, notAuth := f.presenter.snapshot()
	require.Equal(t, 1, notAuth)
}

func TestScoringService_UndeterminedDoesNotShowNotAuthorized(t *testing.T) {
	f := newScoringFixture(t, newConstModel(0.5))
	f.auth.state = entity.PermissionUndetermined

	_, err := f.svc.Shutter(context.Background())
	require.ErrorIs(t, err, entity.ErrPermissionDenied)
	require.False(t, f.svc.InProgress())

	require.Zero(t, f.ui.Pending())
	shownList, notAuth := f.presenter.snapshot()
	require.Empty(t, shownList)
	require.Zero(t, notAuth)
}
