// Package mainloop горутина, которой принадлежит всё, что видит пользователь.
// Фоновая работа передаёт сюда функции вместо прямых вызовов презентера.
package mainloop

import (
	"context"
	"sync"
)

// Loop выполняет переданные функции по одной, по порядку, в горутине, вызвавшей Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// New создаёт цикл.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post ставит fn в очередь. Можно вызывать из любой горутины, не блокирует.
// После завершения Run функции отбрасываются.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run выполняет функции до отмены ctx. Оставшиеся в очереди выполняются
// перед выходом.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.drain()
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			l.drain()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}
