package conversation

import "serotonyl.ru/remna-admin-bot/internal/event"

// Button — кнопка, нажатие которой вернётся событием Selection.
type Button struct {
	Label     string
	Selection event.Selection
}

// Effect — что показать администратору. Отрисовкой занимается транспорт.
type Effect struct {
	Text    string
	Buttons [][]Button
	// AwaitText — следующим ждём текстовое сообщение, а не нажатие.
	AwaitText bool
}

func btn(label string, a event.Action, target ...string) Button {
	return Button{Label: label, Selection: event.Select(a, target...)}
}

func row(b ...Button) []Button { return b }

// prefixed добавляет строку-статус перед текстом экрана.
func (e Effect) prefixed(line string) Effect {
	if line == "" {
		return e
	}
	if e.Text == "" {
		e.Text = line
		return e
	}
	e.Text = line + "\n\n" + e.Text
	return e
}

// Selections возвращает все события, которые можно получить с этого экрана.
func (e Effect) Selections() []event.Selection {
	var out []event.Selection
	for _, r := range e.Buttons {
		for _, b := range r {
			out = append(out, b.Selection)
		}
	}
	return out
}

// Has сообщает, есть ли на экране кнопка с этим действием.
func (e Effect) Has(a event.Action) bool {
	for _, s := range e.Selections() {
		if s.Action == a {
			return true
		}
	}
	return false
}
