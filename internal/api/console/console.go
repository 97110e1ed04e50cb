package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"how-pretty/internal/api"
	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

const helpText = `Commands:
  shoot (or empty line)  take a photo and score it
  grant                  open camera access settings
  history                show recent scores
  help                   show this help
  quit                   exit`

// Console терминальный front end: команды из stdin, окна в stdout.
type Console struct {
	in   io.Reader
	out  io.Writer
	ui   port.Dispatcher
	ctrl api.Controller
	quit func()

	mu      sync.Mutex
	pending chan bool

	// notAuthorized меняется только в горутине интерфейса
	notAuthorized bool
}

// New создаёт консоль. Контроллер подключается позже через Bind.
func New(in io.Reader, out io.Writer, ui port.Dispatcher) *Console {
	return &Console{in: in, out: out, ui: ui}
}

// Bind подключает контроллер и функцию завершения.
func (c *Console) Bind(ctrl api.Controller, quit func()) {
	c.ctrl = ctrl
	c.quit = quit
}

// Run читает команды до EOF или quit.
func (c *Console) Run(ctx context.Context) error {
	c.printf("%s\n", helpText)

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if c.answer(line) {
			continue
		}
		if !c.handle(ctx, strings.ToLower(line)) {
			break
		}
	}

	if c.quit != nil {
		c.quit()
	}
	return scanner.Err()
}

// handle разбирает команду; false означает выход.
func (c *Console) handle(ctx context.Context, cmd string) bool {
	switch cmd {
	case "", "shoot", "s":
		c.ui.Post(func() {
			c.remind()
			c.shoot(ctx)
		})
	case "grant", "g":
		c.ui.Post(func() {
			c.notAuthorized = false
			c.ctrl.OpenSettings()
		})
	case "history", "h":
		c.ui.Post(func() {
			c.remind()
			records, err := c.ctrl.History(ctx, api.HistoryLimit)
			if err != nil {
				c.Show("History error", err.Error())
				return
			}
			c.printf("%s\n", api.FormatHistory(records))
		})
	case "foreground", "f":
		c.ui.Post(c.ctrl.Foreground)
	case "help", "?":
		c.printf("%s\n", helpText)
	case "quit", "q", "exit":
		return false
	default:
		c.printf("Unknown command %q. Type help for the list.\n", cmd)
	}
	return true
}

func (c *Console) shoot(ctx context.Context) {
	err := c.ctrl.Shoot(ctx)
	switch {
	case err == nil:
		c.printf("Scoring...\n")
	case errors.Is(err, entity.ErrCaptureInProgress):
		c.printf("Still scoring the previous photo.\n")
	case errors.Is(err, entity.ErrPermissionDenied):
		// призыв уже показан либо запрос доступа ещё открыт
	default:
		c.Show("Camera error", err.Error())
	}
}

// remind повторяет призыв выдать доступ, пока пользователь его не выполнил.
func (c *Console) remind() {
	if c.notAuthorized {
		c.printNotAuthorized()
	}
}

// Show печатает окно с кнопкой OK.
func (c *Console) Show(title, message string) {
	if message == "" {
		c.printf("\n*** %s ***\n[ OK ]\n", title)
		return
	}
	c.printf("\n*** %s ***\n%s\n[ OK ]\n", title, message)
}

// ShowNotAuthorized печатает призыв выдать доступ.
func (c *Console) ShowNotAuthorized() {
	c.notAuthorized = true
	c.printNotAuthorized()
}

func (c *Console) printNotAuthorized() {
	c.printf("\n%s\n[ %s ] type grant\n", api.NotAuthorizedText, api.GrantAccessLabel)
}

// Ask задаёт вопрос; ответом считается следующая строка ввода.
func (c *Console) Ask(ctx context.Context, question string) (bool, error) {
	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return false, errors.New("another question is already open")
	}
	ch := make(chan bool, 1)
	c.pending = ch
	c.mu.Unlock()

	c.printf("%s [y/n] ", question)

	select {
	case granted := <-ch:
		return granted, nil
	case <-ctx.Done():
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		return false, ctx.Err()
	}
}

// answer передаёт строку открытому вопросу; true, если строка поглощена.
func (c *Console) answer(line string) bool {
	c.mu.Lock()
	ch := c.pending
	c.mu.Unlock()
	if ch == nil {
		return false
	}

	var granted bool
	switch strings.ToLower(line) {
	case "y", "yes":
		granted = true
	case "n", "no":
		granted = false
	default:
		c.printf("Please answer y or n: ")
		return true
	}

	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
	ch <- granted
	return true
}

func (c *Console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Проверка реализации интерфейса
var _ port.Presenter = (*Console)(nil)
