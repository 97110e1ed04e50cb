package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"how-pretty/internal/domain/entity"
)

type fakeAuthorizer struct {
	mu       sync.Mutex
	state    entity.PermissionState
	answer   bool
	hold     chan struct{} // если задан, ответ ждёт закрытия канала
	requests int
}

func (a *fakeAuthorizer) AuthorizationStatus() entity.PermissionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *fakeAuthorizer) RequestAccess(callback func(granted bool)) {
	a.mu.Lock()
	a.requests++
	answer, hold := a.answer, a.hold
	a.mu.Unlock()

	// ответ ОС приходит из чужой горутины
	go func() {
		if hold != nil {
			<-hold
		}
		callback(answer)
	}()
}

func (a *fakeAuthorizer) requestCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests
}

type fakeSettings struct{ opened int }

func (s *fakeSettings) Open(done func()) {
	s.opened++
	go done()
}

type shown struct{ title, message string }

type recordingPresenter struct {
	mu            sync.Mutex
	shown         []shown
	notAuthorized int
}

func (p *recordingPresenter) Show(title, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, shown{title, message})
}

func (p *recordingPresenter) ShowNotAuthorized() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notAuthorized++
}

func (p *recordingPresenter) snapshot() ([]shown, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shown(nil), p.shown...), p.notAuthorized
}

// queueDispatcher копит функции; они выполняются только в Drain, как в цикле интерфейса.
type queueDispatcher struct {
	mu     sync.Mutex
	queue  []func()
	posted chan struct{}
}

func newQueueDispatcher() *queueDispatcher {
	return &queueDispatcher{posted: make(chan struct{}, 64)}
}

func (d *queueDispatcher) Post(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
	d.posted <- struct{}{}
}

func (d *queueDispatcher) Drain() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		fn()
	}
}

func (d *queueDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *queueDispatcher) waitPosted(t *testing.T) {
	t.Helper()
	select {
	case <-d.posted:
	case <-time.After(time.Second):
		t.Fatal("nothing posted to the UI loop")
	}
}

type fakeCamera struct {
	mu       sync.Mutex
	image    entity.CapturedImage
	err      error
	startErr error
	gate     chan struct{}
	closed   bool
	started  bool
}

func (c *fakeCamera) Start(ctx context.Context, opts entity.StartOptions) error {
	c.started = c.startErr == nil
	return c.startErr
}

func (c *fakeCamera) Capture(ctx context.Context) <-chan entity.CaptureResult {
	ch := make(chan entity.CaptureResult, 1)
	c.mu.Lock()
	img, err, gate := c.image, c.err, c.gate
	c.mu.Unlock()
	go func() {
		if gate != nil {
			<-gate
		}
		ch <- entity.CaptureResult{Image: img, Err: err}
	}()
	return ch
}

func (c *fakeCamera) Preview(ctx context.Context, viewport entity.Viewport) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, viewport.X, viewport.Y)), nil
}

func (c *fakeCamera) Close() error {
	c.closed = true
	return nil
}

type constModel struct {
	score  float32
	in     entity.Shape
	closed bool
}

func newConstModel(score float32) *constModel {
	return &constModel{score: score, in: entity.InputShape()}
}

func (m *constModel) InputShape() entity.Shape            { return m.in }
func (m *constModel) OutputShape() entity.Shape           { return entity.OutputShape() }
func (m *constModel) Run(in []float32) ([]float32, error) { return []float32{m.score}, nil }
func (m *constModel) Close() error {
	m.closed = true
	return nil
}

func pngFrame(t *testing.T, w, h int) entity.CapturedImage {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return entity.CapturedImage{Data: buf.Bytes(), Format: "png", Width: w, Height: h, CapturedAt: time.Now()}
}

func receive(t *testing.T, ch <-chan entity.InferenceResult) entity.InferenceResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("scoring cycle did not finish")
		return entity.InferenceResult{}
	}
}
