// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// LogIncoming логирует входящее событие сессии.
// Записывает: session_id, chat_id, вид события и данные (первые 50 символов).
func LogIncoming(sessionID, chatID int64, kind, data string) {
	if utf8.RuneCountInString(data) > 50 {
		data = string([]rune(data)[:50]) + "..."
	}

	log.WithFields(log.Fields{
		"session_id": sessionID,
		"chat_id":    chatID,
		"kind":       kind,
		"data":       data,
	}).Debug("Входящее событие")
}
