// Package bot — транспорт Telegram: long polling, разбор апдейтов в события,
// проверка доступа, ограничение частоты, упорядоченная по сессиям обработка
// и отрисовка экранов.
package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/remna-admin-bot/internal/bot/filters"
	"serotonyl.ru/remna-admin-bot/internal/bot/middleware"
	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/conversation"
	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

// Sender — часть tgbotapi.BotAPI, нужная для ответов.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Poller — источник апдейтов (tgbotapi.BotAPI).
type Poller interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Options — параметры транспорта.
type Options struct {
	Workers           int
	QueueSize         int
	UpdateTimeout     int
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Bot — главная структура транспорта.
type Bot struct {
	api   Sender
	ctrl  *conversation.Controller
	store *session.Store
	guard *filters.AccessGuard

	rateLimiter *middleware.RateLimiter
	dispatcher  *Dispatcher
	timeout     int
}

// New создаёт бота; Close освобождает его горутины.
func New(api Sender, ctrl *conversation.Controller, store *session.Store, guard *filters.AccessGuard, opts Options) *Bot {
	return &Bot{
		api:         api,
		ctrl:        ctrl,
		store:       store,
		guard:       guard,
		rateLimiter: middleware.NewRateLimiter(opts.RateLimitRequests, opts.RateLimitWindow),
		dispatcher:  NewDispatcher(opts.Workers, opts.QueueSize),
		timeout:     opts.UpdateTimeout,
	}
}

// Start запускает polling и блокируется до отмены ctx или закрытия канала.
func (b *Bot) Start(ctx context.Context, p Poller) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := p.GetUpdatesChan(u)

	log.WithField("timeout_sec", b.timeout).Info("Бот запущен и ожидает сообщения...")

	b.Run(ctx, updates)
	p.StopReceivingUpdates()
}

// Run читает апдейты из канала до отмены ctx или закрытия канала.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// Close дожидается обработки принятых апдейтов и останавливает фоновые горутины.
func (b *Bot) Close() {
	b.dispatcher.Close()
	b.rateLimiter.Close()
}

// incoming — апдейт, разобранный в событие сессии.
type incoming struct {
	kind       string
	from       *tgbotapi.User
	chat       *tgbotapi.Chat
	messageID  int
	callbackID string
	ev         event.Event
	raw        string
}

func (in incoming) sessionID() int64 { return in.from.ID }

// parseUpdate превращает апдейт в событие. Всё, кроме текста и нажатий, игнорируется.
func parseUpdate(update tgbotapi.Update) (incoming, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return incoming{}, false
		}
		sel, err := DecodeCallback(cq.Data)
		if err != nil {
			log.WithField("session_id", cq.From.ID).WithError(err).Debug("Непонятные callback-данные")
			sel = event.Selection{Action: event.ActionUnknown}
		}
		return incoming{
			kind:       "callback",
			from:       cq.From,
			chat:       cq.Message.Chat,
			messageID:  cq.Message.MessageID,
			callbackID: cq.ID,
			ev:         sel,
			raw:        cq.Data,
		}, true
	}

	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil || m.Text == "" {
		return incoming{}, false
	}
	in := incoming{kind: "message", from: m.From, chat: m.Chat, ev: event.Text{Raw: m.Text}, raw: m.Text}
	if m.IsCommand() {
		in.kind = "command"
		switch m.Command() {
		case "start", "menu":
			in.ev = event.Select(event.MainMenu)
		case "cancel":
			in.ev = event.Select(event.Cancel)
		}
	}
	return in, true
}

// HandleUpdate проверяет апдейт и ставит его в очередь сессии.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	in, ok := parseUpdate(update)
	if !ok {
		return
	}
	middleware.LogIncoming(in.sessionID(), in.chat.ID, in.kind, in.raw)

	if !b.guard.CheckAccess(in.from, in.chat) {
		countUpdate(in.kind, outcomeDenied)
		b.refuse(in, common.ErrNotAdmin)
		return
	}
	if !b.rateLimiter.Allow(in.sessionID()) {
		log.WithField("session_id", in.sessionID()).Debug("rate limited")
		countUpdate(in.kind, outcomeLimited)
		b.refuse(in, common.ErrRateLimited)
		return
	}

	if err := b.dispatcher.Submit(ctx, in.sessionID(), func() { b.process(ctx, in) }); err != nil {
		countUpdate(in.kind, outcomeDropped)
		log.WithField("session_id", in.sessionID()).WithError(err).Warn("Апдейт не поставлен в очередь")
	}
}

// process выполняется в воркере сессии.
func (b *Bot) process(ctx context.Context, in incoming) {
	defer middleware.RecoverFromPanic(in.sessionID())

	eff := b.handle(ctx, in)
	countUpdate(in.kind, outcomeHandled)
	b.deliver(in, eff)
}

// handle держит замок сессии только на время перехода; замок снимается и при панике.
func (b *Bot) handle(ctx context.Context, in incoming) conversation.Effect {
	sess, release := b.store.Acquire(in.sessionID())
	defer release()

	_, eff := b.ctrl.HandleEvent(ctx, sess, in.ev)
	return eff
}

// deliver: на нажатие правим сообщение с кнопкой, на текст отправляем новое.
func (b *Bot) deliver(in incoming, eff conversation.Effect) {
	logger := log.WithField("session_id", in.sessionID())

	if in.callbackID != "" {
		if _, err := b.api.Request(tgbotapi.NewCallback(in.callbackID, "")); err != nil {
			logger.WithError(err).Debug("Не удалось ответить на callback")
		}
		if in.messageID != 0 {
			_, err := b.api.Send(editMessage(in.chat.ID, in.messageID, eff))
			if err == nil || strings.Contains(err.Error(), "message is not modified") {
				return
			}
			logger.WithError(err).Debug("Не удалось изменить сообщение, отправляем новое")
		}
	}

	if _, err := b.api.Send(newMessage(in.chat.ID, eff)); err != nil {
		logger.WithError(err).Error("Ошибка отправки сообщения")
	}
}

// refuse коротко отвечает без передачи события в диалог.
func (b *Bot) refuse(in incoming, reason error) {
	if in.callbackID != "" {
		if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(in.callbackID, reason.Error())); err != nil {
			log.WithError(err).Debug("Не удалось ответить на callback")
		}
		return
	}
	if !in.chat.IsPrivate() {
		return
	}
	b.SendMessageToUser(in.chat.ID, "❌ "+reason.Error())
}

// SendMessageToUser отправляет сообщение администратору (для отчётов).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, clip(text))
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось отправить сообщение")
	} else {
		log.WithField("user_id", userID).Debug("message sent")
	}
}
