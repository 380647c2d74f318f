package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Классы отказов. «Не найдено» отделено от сбоев транспорта:
// для поиска это законный ответ, а не авария.
var (
	// ErrNotFound — API ответил 404
	ErrNotFound = errors.New("не найдено")
	// ErrStatus — любой другой не-2xx статус
	ErrStatus = errors.New("API вернул ошибку")
	// ErrTransport — сеть, таймаут, отмена контекста
	ErrTransport = errors.New("API недоступен")
	// ErrMalformed — ответ или запрос не удалось (де)сериализовать
	ErrMalformed = errors.New("некорректный JSON")
)

// StatusError — не-2xx ответ API. Body урезан до maxErrorBody для логов.
type StatusError struct {
	Verb   Verb
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: статус %d: %s", e.Verb, e.Path, e.Status, e.Body)
}

// Is позволяет проверять errors.Is(err, ErrNotFound) и errors.Is(err, ErrStatus).
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrStatus:
		return true
	}
	return false
}

// Outcome — метка исхода вызова для метрик и аудита.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "transport"
	}
}
