package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/disintegration/imaging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"how-pretty/internal/api"
	"how-pretty/internal/domain/entity"
	"how-pretty/internal/domain/port"
)

const (
	msgStart = `📸 How pretty are you?

Send /shoot and I will take a photo with the camera and score it.

📋 Commands:
/shoot — take a photo and score it
/preview — show what the camera sees
/history — recent scores
/grant — camera access settings
/help — this help`

	msgHelp = `ℹ️ How it works:

1️⃣ Look into the camera
2️⃣ Send /shoot
3️⃣ Get your score

📋 Commands:
/shoot /preview /history /grant`

	msgScoring        = "⏳ Scoring..."
	msgBusy           = "⏳ Still scoring the previous photo."
	msgUnknownCommand = "❓ Unknown command. Use /help."
	msgSendCommand    = "📸 Send /shoot to take a photo."
	msgAllow          = "Allow"
	msgDontAllow      = "Don't Allow"
)

// Данные inline-кнопок.
const (
	dataOK      = "ok"
	dataGrant   = "grant"
	dataConsent = "consent:"
)

// previewViewport размер превью, отправляемого в чат.
var previewViewport = entity.Viewport{X: 360, Y: 640}

// Bot Telegram front end: команды превращаются в действия контроллера, результаты приходят сообщениями.
type Bot struct {
	api    *tgbotapi.BotAPI
	ui     port.Dispatcher
	ctrl   api.Controller
	logger *zap.Logger

	mu      sync.Mutex
	chats   map[int64]struct{}
	pending *question
}

type question struct {
	text   string
	answer chan bool
}

// NewBot создаёт нового бота
func NewBot(token string, ui port.Dispatcher, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram authorized", zap.String("account", botAPI.Self.UserName))

	return newBot(botAPI, ui, logger), nil
}

func newBot(botAPI *tgbotapi.BotAPI, ui port.Dispatcher, logger *zap.Logger) *Bot {
	return &Bot{
		api:    botAPI,
		ui:     ui,
		logger: logger,
		chats:  make(map[int64]struct{}),
	}
}

// Bind подключает контроллер приложения.
func (b *Bot) Bind(ctrl api.Controller) {
	b.ctrl = ctrl
}

// Run читает обновления до отмены контекста. Обработка идёт в горутине интерфейса.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			b.ui.Post(func() { b.handleMessage(ctx, msg) })
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	b.subscribe(msg.Chat.ID)

	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgSendCommand)
		return
	}

	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgStart)
		b.resendQuestion(msg.Chat.ID)
		b.ctrl.Foreground()

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "shoot":
		err := b.ctrl.Shoot(ctx)
		switch {
		case err == nil:
			b.sendMessage(msg.Chat.ID, msgScoring)
		case errors.Is(err, entity.ErrCaptureInProgress):
			b.sendMessage(msg.Chat.ID, msgBusy)
		case errors.Is(err, entity.ErrPermissionDenied):
			// призыв уже отправлен либо запрос доступа ещё открыт
		default:
			b.Show("Camera error", err.Error())
		}

	case "preview":
		b.sendPreview(ctx, msg.Chat.ID)

	case "history":
		records, err := b.ctrl.History(ctx, api.HistoryLimit)
		if err != nil {
			b.logger.Error("load history", zap.Error(err))
			b.sendMessage(msg.Chat.ID, "⚠️ Could not load history.")
			return
		}
		b.sendMessage(msg.Chat.ID, api.FormatHistory(records))

	case "grant":
		b.ctrl.OpenSettings()

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleCallback обрабатывает нажатия inline-кнопок. Ответ на вопрос о
// доступе передаётся сразу, остальное идёт через горутину интерфейса.
func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("answer callback", zap.Error(err))
	}
	if cb.Message == nil {
		return
	}
	chatID, messageID := cb.Message.Chat.ID, cb.Message.MessageID

	action, granted := parseCallback(cb.Data)
	switch action {
	case dataOK:
		b.ui.Post(func() { b.deleteMessage(chatID, messageID) })
	case dataGrant:
		b.ui.Post(func() {
			b.deleteMessage(chatID, messageID)
			b.ctrl.OpenSettings()
		})
	case dataConsent:
		b.resolveQuestion(granted)
		b.ui.Post(func() { b.deleteMessage(chatID, messageID) })
	}
}

// parseCallback разбирает данные кнопки.
func parseCallback(data string) (action string, granted bool) {
	switch data {
	case dataOK, dataGrant:
		return data, false
	case dataConsent + "yes":
		return dataConsent, true
	case dataConsent + "no":
		return dataConsent, false
	}
	return "", false
}

// Show отправляет окно с кнопкой OK во все чаты.
func (b *Bot) Show(title, message string) {
	text := title
	if message != "" {
		text = fmt.Sprintf("%s\n%s", title, message)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("OK", dataOK)),
	)
	for _, chatID := range b.subscribers() {
		b.send(chatID, text, markup)
	}
}

// ShowNotAuthorized отправляет призыв выдать доступ с кнопкой Grant Access.
func (b *Bot) ShowNotAuthorized() {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(api.GrantAccessLabel, dataGrant)),
	)
	for _, chatID := range b.subscribers() {
		b.send(chatID, api.NotAuthorizedText, markup)
	}
}

// Ask спрашивает согласие во всех чатах и ждёт первого ответа. Если чатов
// ещё нет, вопрос отправится по /start.
func (b *Bot) Ask(ctx context.Context, text string) (bool, error) {
	q := &question{text: text, answer: make(chan bool, 1)}

	b.mu.Lock()
	if b.pending != nil {
		b.mu.Unlock()
		return false, errors.New("another question is already open")
	}
	b.pending = q
	b.mu.Unlock()

	b.ui.Post(func() {
		for _, chatID := range b.subscribers() {
			b.sendQuestion(chatID, q)
		}
	})

	select {
	case granted := <-q.answer:
		return granted, nil
	case <-ctx.Done():
		b.mu.Lock()
		if b.pending == q {
			b.pending = nil
		}
		b.mu.Unlock()
		return false, ctx.Err()
	}
}

func (b *Bot) resolveQuestion(granted bool) {
	b.mu.Lock()
	q := b.pending
	b.pending = nil
	b.mu.Unlock()

	if q != nil {
		q.answer <- granted
	}
}

func (b *Bot) resendQuestion(chatID int64) {
	b.mu.Lock()
	q := b.pending
	b.mu.Unlock()

	if q != nil {
		b.sendQuestion(chatID, q)
	}
}

func (b *Bot) sendQuestion(chatID int64, q *question) {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msgAllow, dataConsent+"yes"),
			tgbotapi.NewInlineKeyboardButtonData(msgDontAllow, dataConsent+"no"),
		),
	)
	b.send(chatID, q.text, markup)
}

func (b *Bot) sendPreview(ctx context.Context, chatID int64) {
	img, err := b.ctrl.Preview(ctx, previewViewport)
	if err != nil {
		if errors.Is(err, entity.ErrPermissionDenied) {
			b.ShowNotAuthorized()
			return
		}
		b.logger.Warn("preview failed", zap.Error(err))
		b.sendMessage(chatID, "⚠️ Camera preview is not available.")
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		b.logger.Error("encode preview", zap.Error(err))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "preview.jpg", Bytes: buf.Bytes()})
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("send preview", zap.Error(err))
	}
}

func (b *Bot) subscribe(chatID int64) {
	b.mu.Lock()
	b.chats[chatID] = struct{}{}
	b.mu.Unlock()
}

func (b *Bot) subscribers() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]int64, 0, len(b.chats))
	for id := range b.chats {
		ids = append(ids, id)
	}
	return ids
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(chatID, text, nil)
}

func (b *Bot) send(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.Warn("delete message", zap.Error(err))
	}
}

// Проверка реализации интерфейса
var _ port.Presenter = (*Bot)(nil)
