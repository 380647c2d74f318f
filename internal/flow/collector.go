package flow

import (
	"errors"

	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/session"
	"serotonyl.ru/remna-admin-bot/internal/validate"
)

// InputKind — вид ввода для текущего поля.
type InputKind int

const (
	InputText   InputKind = iota // свободный текст
	InputChoice                  // нажатие варианта
	InputSkip                    // кнопка «Пропустить»
)

// Input — один ввод администратора.
type Input struct {
	Kind InputKind
	Raw  string
}

func TextInput(raw string) Input { return Input{Kind: InputText, Raw: raw} }
func ChoiceInput(v string) Input { return Input{Kind: InputChoice, Raw: v} }
func SkipInput() Input           { return Input{Kind: InputSkip} }

// Result — исход одного шага.
type Result int

const (
	Advanced Result = iota // значение принято, есть следующее поле
	Rejected               // ввод отвергнут, индекс не сдвинулся
	Complete               // все поля пройдены
)

func (r Result) String() string {
	switch r {
	case Advanced:
		return "advanced"
	case Rejected:
		return "rejected"
	default:
		return "complete"
	}
}

var errNoFlow = errors.New("нет активного потока")

// Collect применяет ввод к текущему полю сессии. При отказе Scratch и FieldIndex
// не меняются, а вторым значением возвращается *validate.Rejection с причиной.
// Сама сессия остаётся в том же потоке, решение о состоянии принимает контроллер.
func Collect(plan Plan, sess *session.Session, in Input) (Result, error) {
	if plan == nil || sess.PendingFlow != plan.Tag() {
		return Rejected, errNoFlow
	}
	if sess.FieldIndex >= plan.Len() {
		return Complete, nil
	}

	step := plan.Step(sess.FieldIndex)
	switch in.Kind {
	case InputSkip:
		if step.Required {
			return Rejected, &validate.Rejection{Reason: common.ErrFieldRequired}
		}
		return advance(plan, sess), nil

	case InputChoice:
		if !step.IsChoice() {
			return Rejected, &validate.Rejection{Reason: common.ErrTextExpected}
		}

	case InputText:
		if step.IsChoice() {
			return Rejected, &validate.Rejection{Reason: common.ErrChoiceExpected}
		}
	}

	v, err := step.Validate(in.Raw)
	if err != nil {
		return Rejected, err
	}
	sess.Scratch.Set(step.Name, v)
	return advance(plan, sess), nil
}

func advance(plan Plan, sess *session.Session) Result {
	sess.FieldIndex++
	if sess.FieldIndex >= plan.Len() {
		return Complete
	}
	return Advanced
}

// Current возвращает поле, которое сейчас ждёт ввода.
func Current(plan Plan, sess *session.Session) (Step, bool) {
	if plan == nil || sess.FieldIndex >= plan.Len() {
		return Step{}, false
	}
	return plan.Step(sess.FieldIndex), true
}
