package conversation

import (
	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/flow"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

var kindTitles = map[session.Kind]string{
	session.KindUsers:    "👥 Пользователи",
	session.KindNodes:    "🖥️ Серверы",
	session.KindHosts:    "🌐 Хосты",
	session.KindInbounds: "🔌 Inbounds",
	session.KindBulk:     "🔄 Массовые операции",
	session.KindStats:    "📊 Статистика",
}

func menuBtn(kind session.Kind) Button {
	return btn(kindTitles[kind], event.Menu, string(kind))
}

func homeBtn() Button { return btn("🏠 Главное меню", event.MainMenu) }

func cancelBtn() Button { return btn("❌ Отмена", event.Cancel) }

func mainMenu() Effect {
	return Effect{
		Text: "🎛️ Главное меню Remnawave Admin\n\nВыберите раздел для управления:",
		Buttons: [][]Button{
			row(menuBtn(session.KindUsers), menuBtn(session.KindNodes)),
			row(menuBtn(session.KindHosts), menuBtn(session.KindInbounds)),
			row(menuBtn(session.KindBulk), menuBtn(session.KindStats)),
			row(btn("➕ Создать пользователя", event.UserCreate)),
		},
	}
}

func menuScreen(kind session.Kind) Effect {
	switch kind {
	case session.KindUsers:
		return Effect{
			Text: "👥 Управление пользователями\n\nВыберите действие:",
			Buttons: [][]Button{
				row(btn("📋 Список пользователей", event.UsersList)),
				row(btn("🔍 Найти пользователя", event.UserSearch)),
				row(btn("➕ Создать пользователя", event.UserCreate)),
				row(homeBtn()),
			},
		}
	case session.KindNodes:
		return Effect{
			Text: "🖥️ Управление серверами\n\nВыберите действие:",
			Buttons: [][]Button{
				row(btn("📋 Список серверов", event.NodesList)),
				row(btn("📊 Трафик в реальном времени", event.NodesUsage)),
				row(btn("🔄 Перезапустить все", event.NodesRestartAll)),
				row(homeBtn()),
			},
		}
	case session.KindHosts:
		return Effect{
			Text: "🌐 Управление хостами\n\nВыберите действие:",
			Buttons: [][]Button{
				row(btn("📋 Список хостов", event.HostsList)),
				row(btn("➕ Создать хост", event.HostCreate)),
				row(homeBtn()),
			},
		}
	case session.KindInbounds:
		return Effect{
			Text: "🔌 Управление Inbounds\n\nВыберите действие:",
			Buttons: [][]Button{
				row(btn("📋 Список Inbounds", event.InboundsList)),
				row(homeBtn()),
			},
		}
	case session.KindBulk:
		return Effect{
			Text: "🔄 Массовые операции\n\n⚠️ Действия применяются ко всем пользователям панели.",
			Buttons: [][]Button{
				row(btn("🔄 Сбросить трафик всем", event.BulkResetTraffic)),
				row(btn("❌ Удалить отключённых", event.BulkDeleteDisabled)),
				row(btn("❌ Удалить истёкших", event.BulkDeleteExpired)),
				row(btn("📝 Массовое обновление", event.BulkUpdate)),
				row(homeBtn()),
			},
		}
	case session.KindStats:
		return Effect{
			Text: "📊 Статистика\n\nВыберите отчёт:",
			Buttons: [][]Button{
				row(btn("🖥️ Система", event.StatsSystem)),
				row(btn("📈 Трафик", event.StatsBandwidth)),
				row(btn("🌍 Серверы за 7 дней", event.StatsNodes)),
				row(homeBtn()),
			},
		}
	}
	return mainMenu()
}

func searchPicker() Effect {
	e := Effect{Text: "🔍 Выберите способ поиска:"}
	for _, m := range flow.SearchModes {
		e.Buttons = append(e.Buttons, row(btn(m.Label, event.UserSearch, m.Value)))
	}
	e.Buttons = append(e.Buttons, row(menuBtn(session.KindUsers)))
	return e
}

func editPicker(uuid, name string) Effect {
	e := Effect{Text: "📝 Редактирование пользователя " + name + "\n\nВыберите поле:"}
	for _, f := range flow.EditableFields {
		e.Buttons = append(e.Buttons, row(btn(f.Label, event.UserEditField, f.Value)))
	}
	e.Buttons = append(e.Buttons, row(btn("🔙 Назад", event.UserView, uuid)))
	return e
}
