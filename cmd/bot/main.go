// Package main — точка входа бота.
// Команды: без аргументов запускает бота, ping проверяет доступ к панели,
// audit показывает последние записи журнала.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	setupLogging()

	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("Завершение с ошибкой")
		os.Exit(1)
	}
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
