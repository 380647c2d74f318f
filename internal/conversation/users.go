package conversation

import (
	"context"
	"fmt"
	"strings"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

var noSelection event.Selection

func (c *Controller) usersList(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	return c.usersPage(ctx, sess, 0)
}

// usersNext на последней странице ничего не сдвигает.
func (c *Controller) usersNext(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	if sess.State != session.Browsing || sess.Menu != session.KindUsers {
		return c.usersPage(ctx, sess, 0)
	}
	cursor := sess.Cursor
	if cursor+c.pageSize < sess.Total {
		cursor += c.pageSize
	}
	return c.usersPage(ctx, sess, cursor)
}

// usersPrev на первой странице ничего не сдвигает.
func (c *Controller) usersPrev(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	if sess.State != session.Browsing || sess.Menu != session.KindUsers {
		return c.usersPage(ctx, sess, 0)
	}
	return c.usersPage(ctx, sess, max(sess.Cursor-c.pageSize, 0))
}

func (c *Controller) usersPage(ctx context.Context, sess *session.Session, cursor int) Effect {
	page, err := c.api.Users(ctx, cursor, c.pageSize)
	if err != nil {
		return c.failed(sess, session.KindUsers, "Не удалось получить список пользователей.", err)
	}
	// Пользователей стало меньше, чем курсор: переходим на последнюю страницу.
	if cursor > 0 && cursor >= page.Total {
		cursor = lastPage(page.Total, c.pageSize)
		if page, err = c.api.Users(ctx, cursor, c.pageSize); err != nil {
			return c.failed(sess, session.KindUsers, "Не удалось получить список пользователей.", err)
		}
	}

	sess.Go(session.Browsing, session.KindUsers)
	sess.Cursor, sess.Total = cursor, page.Total

	e := Effect{}
	if len(page.Users) == 0 {
		e.Text = "👥 Пользователей пока нет."
	} else {
		now := c.now()
		var b strings.Builder
		fmt.Fprintf(&b, "👥 Пользователи %d-%d из %d\n", cursor+1, cursor+len(page.Users), page.Total)
		for i, u := range page.Users {
			b.WriteString("\n" + userLine(cursor+i+1, u, now) + "\n")
			e.Buttons = append(e.Buttons, row(btn(fmt.Sprintf("%d. %s", cursor+i+1, u.Username), event.UserView, u.UUID)))
		}
		e.Text = strings.TrimRight(b.String(), "\n")
	}

	var nav []Button
	if cursor > 0 {
		nav = append(nav, btn("⬅️ Назад", event.UsersPrev))
	}
	if cursor+c.pageSize < page.Total {
		nav = append(nav, btn("Вперёд ➡️", event.UsersNext))
	}
	if len(nav) > 0 {
		e.Buttons = append(e.Buttons, nav)
	}
	e.Buttons = append(e.Buttons, row(menuBtn(session.KindUsers)))
	return e
}

func lastPage(total, size int) int {
	if total <= 0 {
		return 0
	}
	return (total - 1) / size * size
}

func (c *Controller) userView(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	return c.showDetail(ctx, sess, session.KindUsers, sel.Target, "")
}

func (c *Controller) userCard(sess *session.Session, u gateway.User) Effect {
	sess.Focus(u.UUID, u.Username, u.Active())
	sess.Go(session.Detail, session.KindUsers)
	return Effect{Text: formatUser(u, c.now()), Buttons: userButtons(u.UUID, u.Active())}
}

func userButtons(id string, active bool) [][]Button {
	toggle := btn("✅ Включить", event.UserEnable, id)
	if active {
		toggle = btn("🚫 Отключить", event.UserDisable, id)
	}
	return [][]Button{
		row(btn("📝 Редактировать", event.UserEdit, id)),
		row(btn("📱 Устройства", event.UserHwid, id), btn("📊 Статистика", event.UserStats, id)),
		row(toggle, btn("🔄 Сбросить трафик", event.UserResetTraffic, id)),
		row(btn("🔑 Отозвать подписку", event.UserRevoke, id), btn("🗑️ Удалить", event.UserDelete, id)),
		row(btn("🔙 К списку", event.UsersList), homeBtn()),
	}
}

func (c *Controller) userCreate(_ context.Context, sess *session.Session, _ event.Selection) Effect {
	sess.StartFlow(session.FlowCreateUser, "")
	return c.beginFlow(sess)
}

// userSearch без режима показывает выбор режима, с режимом — открывает поток поиска.
func (c *Controller) userSearch(_ context.Context, sess *session.Session, sel event.Selection) Effect {
	if _, ok := c.flows.Search(sel.Target); !ok {
		sess.Go(session.EntityMenu, session.KindUsers)
		return searchPicker()
	}
	sess.StartFlow(session.FlowSearchUser, sel.Target)
	return c.beginFlow(sess)
}

func (c *Controller) userEdit(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	if sess.Subject != sel.Target || sess.State != session.Detail {
		e := c.showDetail(ctx, sess, session.KindUsers, sel.Target, "")
		if sess.Subject != sel.Target {
			return e
		}
	}
	return editPicker(sess.Subject, subjectName(sess))
}

// userEditField открывает поток длины 1; текущее значение поля берётся свежим из API.
func (c *Controller) userEditField(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if _, ok := c.flows.EditUser(sel.Target); !ok || sess.Subject == "" || sess.Menu != session.KindUsers {
		return c.render(ctx, sess)
	}
	u, err := c.api.User(ctx, sess.Subject)
	if err != nil {
		return c.lookupFailed(sess, session.KindUsers, err)
	}
	sess.Focus(u.UUID, u.Username, u.Active())
	sess.StartFlow(session.FlowEditUser, sel.Target)
	sess.Seed = currentValue(u, sel.Target)
	return c.beginFlow(sess)
}
