package conversation

import (
	"context"
	"errors"

	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

var notFoundText = map[session.Kind]string{
	session.KindUsers:    "Пользователь не найден.",
	session.KindNodes:    "Сервер не найден.",
	session.KindHosts:    "Хост не найден.",
	session.KindInbounds: "Inbound не найден.",
}

var loadFailedText = map[session.Kind]string{
	session.KindUsers:    "Не удалось получить данные пользователя.",
	session.KindNodes:    "Не удалось получить данные сервера.",
	session.KindHosts:    "Не удалось получить данные хоста.",
	session.KindInbounds: "Не удалось получить данные inbound.",
}

// showDetail загружает сущность и показывает её карточку; line — строка-статус сверху.
func (c *Controller) showDetail(ctx context.Context, sess *session.Session, kind session.Kind, id, line string) Effect {
	var (
		e   Effect
		err error
	)
	switch kind {
	case session.KindUsers:
		var u gateway.User
		if u, err = c.api.User(ctx, id); err == nil {
			e = c.userCard(sess, u)
		}
	case session.KindNodes:
		var n gateway.Node
		if n, err = c.api.Node(ctx, id); err == nil {
			e = c.nodeCard(sess, n)
		}
	case session.KindHosts:
		var h gateway.Host
		if h, err = c.api.Host(ctx, id); err == nil {
			e = c.hostCard(sess, h)
		}
	case session.KindInbounds:
		var in gateway.Inbound
		if in, err = c.inbound(ctx, id); err == nil {
			e = c.inboundCard(sess, in)
		}
	default:
		return c.openMenu(sess, kind)
	}

	if err != nil {
		return c.lookupFailed(sess, kind, err).prefixed(line)
	}
	return e.prefixed(line)
}

// lookupFailed различает «не найдено» и прочие сбои чтения.
func (c *Controller) lookupFailed(sess *session.Session, kind session.Kind, err error) Effect {
	sess.Focus("", "", false)
	if errors.Is(err, gateway.ErrNotFound) {
		return c.failed(sess, kind, notFoundText[kind], err)
	}
	return c.failed(sess, kind, loadFailedText[kind], err)
}

// browse перерисовывает список раздела, на котором стоит сессия.
func (c *Controller) browse(ctx context.Context, sess *session.Session) Effect {
	switch sess.Menu {
	case session.KindUsers:
		return c.usersPage(ctx, sess, sess.Cursor)
	case session.KindNodes:
		return c.nodesList(ctx, sess, noSelection)
	case session.KindHosts:
		return c.hostsList(ctx, sess, noSelection)
	case session.KindInbounds:
		return c.inboundsList(ctx, sess, noSelection)
	}
	return c.openMenu(sess, sess.Menu)
}
