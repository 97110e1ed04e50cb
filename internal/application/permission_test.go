package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"how-pretty/internal/domain/entity"
)

func newGate(auth *fakeAuthorizer, p *recordingPresenter, d *queueDispatcher) (*PermissionGate, *fakeSettings) {
	settings := &fakeSettings{}
	return NewPermissionGate(auth, settings, p, d, zap.NewNop()), settings
}

func TestPermissionGate_AuthorizedIsNoop(t *testing.T) {
	auth := &fakeAuthorizer{state: entity.PermissionAuthorized}
	p, d := &recordingPresenter{}, newQueueDispatcher()
	gate, _ := newGate(auth, p, d)

	gate.Check()

	shownList, notAuth := p.snapshot()
	require.Empty(t, shownList)
	require.Zero(t, notAuth)
	require.Zero(t, d.Pending())
	require.Zero(t, auth.requestCount())
}

func TestPermissionGate_DeniedShowsSynchronously(t *testing.T) {
	for _, state := range []entity.PermissionState{entity.PermissionDenied, entity.PermissionRestricted} {
		auth := &fakeAuthorizer{state: state}
		p, d := &recordingPresenter{}, newQueueDispatcher()
		gate, _ := newGate(auth, p, d)

		gate.Check()

		_, notAuth := p.snapshot()
		require.Equal(t, 1, notAuth, state)
		require.Zero(t, d.Pending())
	}
}

func TestPermissionGate_UndeterminedDenialPostsToUI(t *testing.T) {
	auth := &fakeAuthorizer{state: entity.PermissionUndetermined, answer: false}
	p, d := &recordingPresenter{}, newQueueDispatcher()
	gate, _ := newGate(auth, p, d)

	gate.Check()
	d.waitPosted(t)

	// до выполнения цикла интерфейса ничего не показано
	_, notAuth := p.snapshot()
	require.Zero(t, notAuth)

	d.Drain()
	_, notAuth = p.snapshot()
	require.Equal(t, 1, notAuth)
}

func TestPermissionGate_UndeterminedGrantShowsNothing(t *testing.T) {
	hold := make(chan struct{})
	auth := &fakeAuthorizer{state: entity.PermissionUndetermined, answer: true, hold: hold}
	p, d := &recordingPresenter{}, newQueueDispatcher()
	gate, _ := newGate(auth, p, d)

	gate.Check()
	gate.Check() // запрос уже идёт
	require.Equal(t, 1, auth.requestCount())

	close(hold)
	require.Eventually(t, func() bool { return !gate.requesting.Load() }, time.Second, time.Millisecond)

	require.Zero(t, d.Pending())
	_, notAuth := p.snapshot()
	require.Zero(t, notAuth)
}

func TestPermissionGate_OpenSettingsRechecks(t *testing.T) {
	auth := &fakeAuthorizer{state: entity.PermissionDenied}
	p, d := &recordingPresenter{}, newQueueDispatcher()
	gate, settings := newGate(auth, p, d)

	gate.OpenSettings()
	d.waitPosted(t)
	require.Equal(t, 1, settings.opened)

	d.Drain()
	_, notAuth := p.snapshot()
	require.Equal(t, 1, notAuth)
}
