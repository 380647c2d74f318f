// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Тексты ошибок показываются администратору как есть,
// поэтому они написаны по-русски и без технических деталей.
package common

import "errors"

// Ошибки валидации полей (пошаговые диалоги)
var (
	// ErrInvalidUsername — имя пользователя не подходит под формат панели
	ErrInvalidUsername = errors.New("неверный формат имени пользователя: только латинские буквы, цифры, _ и -, длина от 6 до 34 символов")
	// ErrInvalidTag — тег не подходит под формат панели
	ErrInvalidTag = errors.New("неверный формат тега: только ЗАГЛАВНЫЕ буквы, цифры и _, максимум 16 символов")
	// ErrInvalidEmail — некорректный email
	ErrInvalidEmail = errors.New("неверный формат email")
	// ErrInvalidDate — дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("неверный формат даты, используйте YYYY-MM-DD")
	// ErrNegativeNumber — ожидалось целое число >= 0
	ErrNegativeNumber = errors.New("неверный формат числа, введите целое число >= 0")
	// ErrNotInteger — ожидалось целое число
	ErrNotInteger = errors.New("неверный формат числа, введите целое число")
	// ErrInvalidChoice — значение не из списка кнопок
	ErrInvalidChoice = errors.New("выберите один из вариантов на кнопках")
	// ErrChoiceExpected — для поля с кнопками прислали текст
	ErrChoiceExpected = errors.New("для этого поля нужно нажать одну из кнопок")
	// ErrTextExpected — для текстового поля нажали кнопку выбора
	ErrTextExpected = errors.New("для этого поля нужно отправить текстовое сообщение")
	// ErrInvalidUUID — строка не является UUID
	ErrInvalidUUID = errors.New("неверный формат UUID")
	// ErrInvalidPort — порт вне диапазона 1-65535
	ErrInvalidPort = errors.New("порт должен быть целым числом от 1 до 65535")
	// ErrEmptyValue — пустое значение для обязательного поля
	ErrEmptyValue = errors.New("значение не может быть пустым")
	// ErrValueTooLong — значение длиннее допустимого
	ErrValueTooLong = errors.New("значение слишком длинное")
	// ErrFieldRequired — обязательное поле нельзя пропустить
	ErrFieldRequired = errors.New("это поле обязательно, его нельзя пропустить")
)

// Ошибки доступа
var (
	// ErrNotAdmin — пользователь не в списке администраторов
	ErrNotAdmin = errors.New("вы не авторизованы для использования этого бота")
	// ErrRateLimited — слишком много действий подряд
	ErrRateLimited = errors.New("слишком много запросов, подождите немного")
)
