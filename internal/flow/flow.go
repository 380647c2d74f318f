// Package flow — пошаговый сбор полей. FieldFlow[T] — упорядоченный список
// полей плюс аккумулятор типа T; по нему работают создание и редактирование
// пользователя, создание хоста, массовое обновление и поиск.
package flow

import (
	"time"

	"serotonyl.ru/remna-admin-bot/internal/session"
	"serotonyl.ru/remna-admin-bot/internal/validate"
)

// Choice — вариант для поля-перечисления.
type Choice struct {
	Label string
	Value string
}

// Field описывает одно поле потока.
type Field[T any] struct {
	Name     string
	Prompt   string
	Required bool
	Validate validate.Validator
	// Choices заданы только у перечислений: значение приходит нажатием кнопки.
	Choices []Choice
	// Assign переносит проверенное значение в аккумулятор.
	Assign func(acc *T, v any)
}

// Step — поле без типа аккумулятора, то, что видит Collector.
type Step struct {
	Name     string
	Prompt   string
	Required bool
	Validate validate.Validator
	Choices  []Choice
}

// IsChoice — поле ждёт нажатие варианта, а не текст.
func (s Step) IsChoice() bool { return len(s.Choices) > 0 }

// Plan — нетипизированный взгляд на поток.
type Plan interface {
	Tag() session.Flow
	Len() int
	Step(i int) Step
}

// FieldFlow — поток сбора полей в аккумулятор T.
type FieldFlow[T any] struct {
	Flow   session.Flow
	Fields []Field[T]
	// Defaults заполняет значения по умолчанию до переноса собранных полей.
	Defaults func(acc *T, now time.Time)
}

func (f *FieldFlow[T]) Tag() session.Flow { return f.Flow }

func (f *FieldFlow[T]) Len() int { return len(f.Fields) }

func (f *FieldFlow[T]) Step(i int) Step {
	fld := f.Fields[i]
	return Step{
		Name:     fld.Name,
		Prompt:   fld.Prompt,
		Required: fld.Required,
		Validate: fld.Validate,
		Choices:  fld.Choices,
	}
}

// Build собирает аккумулятор: сначала значения по умолчанию, затем всё, что есть в scratch.
// Пропущенные поля остаются со значениями по умолчанию.
func (f *FieldFlow[T]) Build(scratch *session.Scratch, now time.Time) T {
	var acc T
	if f.Defaults != nil {
		f.Defaults(&acc, now)
	}
	for _, fld := range f.Fields {
		v, ok := scratch.Get(fld.Name)
		if !ok || fld.Assign == nil {
			continue
		}
		fld.Assign(&acc, v)
	}
	return acc
}

var _ Plan = (*FieldFlow[struct{}])(nil)
