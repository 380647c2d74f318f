package middleware

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic вызывается через defer в обработчике события сессии.
func RecoverFromPanic(sessionID int64) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"component":  "panic_recovery",
			"session_id": sessionID,
			"panic":      fmt.Sprintf("%v", r),
			"stack":      string(debug.Stack()),
		}).Error("ПАНИКА в обработчике — восстановлено")
	}
}
