// Package filters — проверки входящих апдейтов до передачи в диалог.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// AccessGuard пропускает только администраторов из списка и только в личке.
type AccessGuard struct {
	allowed map[int64]struct{}
}

func NewAccessGuard(adminIDs []int64) *AccessGuard {
	g := &AccessGuard{allowed: make(map[int64]struct{}, len(adminIDs))}
	for _, id := range adminIDs {
		g.allowed[id] = struct{}{}
	}
	return g
}

// Allowed — id есть в списке администраторов.
func (g *AccessGuard) Allowed(userID int64) bool {
	_, ok := g.allowed[userID]
	return ok
}

// Len — размер списка.
func (g *AccessGuard) Len() int { return len(g.allowed) }

// CheckAccess решает, обрабатывать ли апдейт от from в чате chat.
func (g *AccessGuard) CheckAccess(from *tgbotapi.User, chat *tgbotapi.Chat) bool {
	if from == nil || chat == nil {
		log.WithField("component", "AccessGuard").Warn("nil from/chat")
		return false
	}

	logger := log.WithFields(log.Fields{
		"component":  "AccessGuard",
		"session_id": from.ID,
		"chat_id":    chat.ID,
		"chat_type":  chat.Type,
	})

	if !chat.IsPrivate() {
		logger.Debug("deny: not private")
		return false
	}
	if !g.Allowed(from.ID) {
		logger.WithField("username", from.UserName).Info("deny: not an admin")
		return false
	}
	return true
}
