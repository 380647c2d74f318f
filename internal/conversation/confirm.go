package conversation

import (
	"context"
	"fmt"

	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

// destructive описывает действие, которое выполняется только после подтверждения.
type destructive struct {
	kind session.Kind
	// perItem — действие над конкретной сущностью (Target — её uuid).
	perItem bool
	// removes — после успеха сущности больше нет, карточку не показываем.
	removes bool
	// part — действие над частью сущности Subject (Target — ключ части, например HWID).
	// Выполняется через runPart; prompt получает ключ и имя сущности.
	part    bool
	prompt  string // %s — имя сущности
	done    string
	failed  string
	run     func(ctx context.Context, api *gateway.Remnawave, target string) error
	runPart func(ctx context.Context, api *gateway.Remnawave, subject, key string) error
}

func userAction(action string) func(context.Context, *gateway.Remnawave, string) error {
	return func(ctx context.Context, api *gateway.Remnawave, id string) error {
		return api.UserAction(ctx, id, action)
	}
}

func nodeAction(action string) func(context.Context, *gateway.Remnawave, string) error {
	return func(ctx context.Context, api *gateway.Remnawave, id string) error {
		return api.NodeAction(ctx, id, action)
	}
}

func hostAction(action string) func(context.Context, *gateway.Remnawave, string) error {
	return func(ctx context.Context, api *gateway.Remnawave, id string) error {
		return api.HostAction(ctx, id, action)
	}
}

func inboundBulk(op string) func(context.Context, *gateway.Remnawave, string) error {
	return func(ctx context.Context, api *gateway.Remnawave, id string) error {
		return api.InboundBulk(ctx, op, id)
	}
}

var destructiveActions = map[event.Action]destructive{
	event.UserDisable: {
		kind: session.KindUsers, perItem: true,
		prompt: "⚠️ Отключить пользователя %s?",
		done:   "Пользователь отключён.",
		failed: "Не удалось отключить пользователя.",
		run:    userAction(gateway.UserActionDisable),
	},
	event.UserEnable: {
		kind: session.KindUsers, perItem: true,
		prompt: "⚠️ Включить пользователя %s?",
		done:   "Пользователь включён.",
		failed: "Не удалось включить пользователя.",
		run:    userAction(gateway.UserActionEnable),
	},
	event.UserResetTraffic: {
		kind: session.KindUsers, perItem: true,
		prompt: "⚠️ Сбросить трафик пользователя %s?",
		done:   "Трафик пользователя сброшен.",
		failed: "Не удалось сбросить трафик пользователя.",
		run:    userAction(gateway.UserActionResetTraffic),
	},
	event.UserRevoke: {
		kind: session.KindUsers, perItem: true,
		prompt: "⚠️ Отозвать подписку пользователя %s? Старая ссылка перестанет работать.",
		done:   "Подписка отозвана.",
		failed: "Не удалось отозвать подписку.",
		run:    userAction(gateway.UserActionRevoke),
	},
	event.UserDelete: {
		kind: session.KindUsers, perItem: true, removes: true,
		prompt: "⚠️ Удалить пользователя %s? Это действие необратимо.",
		done:   "Пользователь удалён.",
		failed: "Не удалось удалить пользователя.",
		run: func(ctx context.Context, api *gateway.Remnawave, id string) error {
			return api.DeleteUser(ctx, id)
		},
	},
	event.UserHwidDelete: {
		kind: session.KindUsers, part: true,
		prompt: "⚠️ Удалить устройство с HWID %s у пользователя %s?",
		done:   "Устройство удалено.",
		failed: "Не удалось удалить устройство.",
		runPart: func(ctx context.Context, api *gateway.Remnawave, id, hwid string) error {
			return api.DeleteHwidDevice(ctx, gateway.HwidDeviceRequest{UserUUID: id, Hwid: hwid})
		},
	},

	event.NodeEnable: {
		kind: session.KindNodes, perItem: true,
		prompt: "⚠️ Включить сервер %s?",
		done:   "Сервер включён.",
		failed: "Не удалось включить сервер.",
		run:    nodeAction(gateway.ActionEnable),
	},
	event.NodeDisable: {
		kind: session.KindNodes, perItem: true,
		prompt: "⚠️ Отключить сервер %s?",
		done:   "Сервер отключён.",
		failed: "Не удалось отключить сервер.",
		run:    nodeAction(gateway.ActionDisable),
	},
	event.NodeRestart: {
		kind: session.KindNodes, perItem: true,
		prompt: "⚠️ Перезапустить сервер %s?",
		done:   "Сервер перезапускается.",
		failed: "Не удалось перезапустить сервер.",
		run:    nodeAction(gateway.ActionRestart),
	},
	event.NodeDelete: {
		kind: session.KindNodes, perItem: true, removes: true,
		prompt: "⚠️ Удалить сервер %s? Это действие необратимо.",
		done:   "Сервер удалён.",
		failed: "Не удалось удалить сервер.",
		run: func(ctx context.Context, api *gateway.Remnawave, id string) error {
			return api.DeleteNode(ctx, id)
		},
	},
	event.NodesRestartAll: {
		kind:   session.KindNodes,
		prompt: "⚠️ Перезапустить все серверы?",
		done:   "Все серверы перезапускаются.",
		failed: "Не удалось перезапустить серверы.",
		run: func(ctx context.Context, api *gateway.Remnawave, _ string) error {
			return api.RestartAllNodes(ctx)
		},
	},

	event.HostEnable: {
		kind: session.KindHosts, perItem: true,
		prompt: "⚠️ Включить хост %s?",
		done:   "Хост включён.",
		failed: "Не удалось включить хост.",
		run:    hostAction(gateway.ActionEnable),
	},
	event.HostDisable: {
		kind: session.KindHosts, perItem: true,
		prompt: "⚠️ Отключить хост %s?",
		done:   "Хост отключён.",
		failed: "Не удалось отключить хост.",
		run:    hostAction(gateway.ActionDisable),
	},
	event.HostDelete: {
		kind: session.KindHosts, perItem: true, removes: true,
		prompt: "⚠️ Удалить хост %s? Это действие необратимо.",
		done:   "Хост удалён.",
		failed: "Не удалось удалить хост.",
		run: func(ctx context.Context, api *gateway.Remnawave, id string) error {
			return api.DeleteHost(ctx, id)
		},
	},

	event.InboundAddUsers: {
		kind: session.KindInbounds, perItem: true,
		prompt: "⚠️ Добавить inbound %s всем пользователям?",
		done:   "Inbound добавлен всем пользователям.",
		failed: "Не удалось добавить inbound пользователям.",
		run:    inboundBulk(gateway.InboundAddToUsers),
	},
	event.InboundRemoveUsers: {
		kind: session.KindInbounds, perItem: true,
		prompt: "⚠️ Убрать inbound %s у всех пользователей?",
		done:   "Inbound убран у всех пользователей.",
		failed: "Не удалось убрать inbound у пользователей.",
		run:    inboundBulk(gateway.InboundRemoveFromUsers),
	},
	event.InboundAddNodes: {
		kind: session.KindInbounds, perItem: true,
		prompt: "⚠️ Добавить inbound %s на все серверы?",
		done:   "Inbound добавлен на все серверы.",
		failed: "Не удалось добавить inbound на серверы.",
		run:    inboundBulk(gateway.InboundAddToNodes),
	},
	event.InboundRemoveNodes: {
		kind: session.KindInbounds, perItem: true,
		prompt: "⚠️ Убрать inbound %s со всех серверов?",
		done:   "Inbound убран со всех серверов.",
		failed: "Не удалось убрать inbound с серверов.",
		run:    inboundBulk(gateway.InboundRemoveFromNodes),
	},

	event.BulkResetTraffic: {
		kind:   session.KindBulk,
		prompt: "⚠️ Сбросить трафик ВСЕМ пользователям?",
		done:   "Трафик всех пользователей сброшен.",
		failed: "Не удалось сбросить трафик.",
		run: func(ctx context.Context, api *gateway.Remnawave, _ string) error {
			return api.ResetAllTraffic(ctx)
		},
	},
	event.BulkDeleteDisabled: {
		kind:   session.KindBulk,
		prompt: "⚠️ Удалить всех отключённых (DISABLED) пользователей? Это действие необратимо.",
		done:   "Отключённые пользователи удалены.",
		failed: "Не удалось удалить отключённых пользователей.",
		run: func(ctx context.Context, api *gateway.Remnawave, _ string) error {
			return api.DeleteUsersByStatus(ctx, gateway.UserDisabled)
		},
	},
	event.BulkDeleteExpired: {
		kind:   session.KindBulk,
		prompt: "⚠️ Удалить всех истёкших (EXPIRED) пользователей? Это действие необратимо.",
		done:   "Истёкшие пользователи удалены.",
		failed: "Не удалось удалить истёкших пользователей.",
		run: func(ctx context.Context, api *gateway.Remnawave, _ string) error {
			return api.DeleteUsersByStatus(ctx, gateway.UserExpired)
		},
	},
}

// ask переводит сессию в ConfirmPending. Удалённых вызовов нет.
func (c *Controller) ask(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	d, ok := destructiveActions[sel.Action]
	if !ok || ((d.perItem || d.part) && sel.Target == "") {
		return c.render(ctx, sess)
	}
	// Часть без сущности на экране: нажатие со старого сообщения.
	if d.part && sess.Subject == "" {
		return c.render(ctx, sess)
	}
	if d.perItem && sess.Subject != sel.Target {
		sess.Focus(sel.Target, "", false)
	}
	sess.Await(sel)
	sess.Go(session.ConfirmPending, d.kind)
	return c.confirmPrompt(sess)
}

func (c *Controller) confirmPrompt(sess *session.Session) Effect {
	pa := sess.PendingAction
	if pa == nil {
		return mainMenu()
	}
	d := destructiveActions[pa.Action]
	text := d.prompt
	switch {
	case d.part:
		text = fmt.Sprintf(d.prompt, pa.Target, subjectName(sess))
	case d.perItem:
		text = fmt.Sprintf(d.prompt, subjectName(sess))
	}
	return Effect{
		Text: text,
		Buttons: [][]Button{
			row(btn("✅ Подтвердить", event.Confirm), cancelBtn()),
		},
	}
}

// abort — любое событие, кроме Confirm: возврат к карточке сущности
// или к меню раздела без обращения к API.
func (c *Controller) abort(sess *session.Session) Effect {
	pa := sess.PendingAction
	if pa == nil {
		return c.openMenu(sess, sess.Menu)
	}
	d := destructiveActions[pa.Action]
	if d.part || (d.perItem && sess.Subject == pa.Target) {
		sess.Go(session.Detail, d.kind)
		return card(sess).prefixed("🚫 Действие отменено.")
	}
	return c.openMenu(sess, d.kind).prefixed("🚫 Действие отменено.")
}

// confirm выполняет ожидающее действие ровно одним удалённым вызовом.
func (c *Controller) confirm(ctx context.Context, sess *session.Session) Effect {
	pa := *sess.PendingAction
	d := destructiveActions[pa.Action]

	var err error
	if d.part {
		err = d.runPart(ctx, c.api, sess.Subject, pa.Target)
		c.record(ctx, sess, pa.Action, sess.Subject+"/"+pa.Target, err)
	} else {
		err = d.run(ctx, c.api, pa.Target)
		c.record(ctx, sess, pa.Action, pa.Target, err)
	}

	if err != nil {
		c.logFailure(sess, d.failed, err)
		if d.perItem || d.part {
			sess.Go(session.Detail, d.kind)
			return card(sess).prefixed("❌ " + d.failed)
		}
		return c.openMenu(sess, d.kind).prefixed("❌ " + d.failed)
	}

	if d.part {
		return c.devicesScreen(ctx, sess, sess.Subject, "✅ "+d.done)
	}
	if d.perItem && !d.removes {
		return c.showDetail(ctx, sess, d.kind, pa.Target, "✅ "+d.done)
	}
	if d.removes {
		sess.Focus("", "", false)
	}
	return c.openMenu(sess, d.kind).prefixed("✅ " + d.done)
}

func subjectName(sess *session.Session) string {
	if sess.SubjectName != "" {
		return sess.SubjectName
	}
	return common.ShortID(sess.Subject)
}

// card — краткая карточка из запомненных данных, без запроса к API.
func card(sess *session.Session) Effect {
	title := kindTitles[sess.Menu]
	return Effect{
		Text:    title + ": " + subjectName(sess),
		Buttons: detailButtons(sess.Menu, sess.Subject, sess.SubjectEnabled),
	}
}

func detailButtons(kind session.Kind, id string, enabled bool) [][]Button {
	switch kind {
	case session.KindUsers:
		return userButtons(id, enabled)
	case session.KindNodes:
		return nodeButtons(id, enabled)
	case session.KindHosts:
		return hostButtons(id, enabled)
	case session.KindInbounds:
		return inboundButtons(id)
	}
	return [][]Button{row(homeBtn())}
}
