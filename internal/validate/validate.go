// Package validate — чистые проверки ввода для пошаговых диалогов.
// Каждая функция принимает сырую строку и возвращает типизированное значение
// или *Rejection с понятной администратору причиной. Никакого I/O, никаких паник.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"serotonyl.ru/remna-admin-bot/internal/common"
)

// Validator проверяет сырой ввод для одного поля.
type Validator func(raw string) (any, error)

// Rejection — отказ валидатора. Не системная ошибка: диалог просто
// переспрашивает то же поле, показав Reason.
type Rejection struct {
	Reason error
}

func (r *Rejection) Error() string { return r.Reason.Error() }

func (r *Rejection) Unwrap() error { return r.Reason }

func reject(reason error) error { return &Rejection{Reason: reason} }

// IsRejection сообщает, что err — отказ валидатора, а не сбой.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{6,34}$`)
	tagRe      = regexp.MustCompile(`^[A-Z0-9_]{1,16}$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Username: ^[A-Za-z0-9_-]{6,34}$
func Username(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if !usernameRe.MatchString(s) {
		return nil, reject(common.ErrInvalidUsername)
	}
	return s, nil
}

// Tag проверяет формат только непустого значения; пустая строка — «без тега».
func Tag(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s != "" && !tagRe.MatchString(s) {
		return nil, reject(common.ErrInvalidTag)
	}
	return s, nil
}

// Email проверяет формат только непустого значения.
func Email(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s != "" && !emailRe.MatchString(s) {
		return nil, reject(common.ErrInvalidEmail)
	}
	return s, nil
}

// Date разбирает YYYY-MM-DD и возвращает полночь этого дня по UTC.
func Date(raw string) (any, error) {
	t, err := time.ParseInLocation(common.DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return nil, reject(common.ErrInvalidDate)
	}
	return t, nil
}

// NonNegativeInt — лимит трафика в байтах, лимит устройств.
func NonNegativeInt(raw string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return nil, reject(common.ErrNegativeNumber)
	}
	return n, nil
}

// Int — внешний числовой идентификатор (Telegram ID), знак не ограничен.
func Int(raw string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, reject(common.ErrNotInteger)
	}
	return n, nil
}

// UUID — идентификатор сущности панели.
func UUID(raw string) (any, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, reject(common.ErrInvalidUUID)
	}
	return id.String(), nil
}

// Port — сетевой порт хоста.
func Port(raw string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > 65535 {
		return nil, reject(common.ErrInvalidPort)
	}
	return n, nil
}

// Text возвращает валидатор непустой строки длиной не больше max символов.
func Text(max int) Validator {
	return func(raw string) (any, error) {
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, reject(common.ErrEmptyValue)
		}
		if utf8.RuneCountInString(s) > max {
			return nil, reject(common.ErrValueTooLong)
		}
		return s, nil
	}
}

// Choice проверяет, что значение кнопки входит в закрытый набор.
func Choice(allowed ...string) Validator {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(raw string) (any, error) {
		if _, ok := set[raw]; !ok {
			return nil, reject(common.ErrInvalidChoice)
		}
		return raw, nil
	}
}

// SearchTerm — строка поиска: непустая, не длиннее 64 символов.
var SearchTerm = Text(64)
