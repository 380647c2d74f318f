package conversation

import (
	"context"
	"fmt"

	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

// usageDays — глубина статистики пользователя по нодам.
const usageDays = 30

// focusUser делает пользователя id текущей сущностью; запрос к API только если
// карточка другого пользователя или имя ещё не известно.
func (c *Controller) focusUser(ctx context.Context, sess *session.Session, id string) error {
	if sess.Subject == id && sess.SubjectName != "" {
		return nil
	}
	u, err := c.api.User(ctx, id)
	if err != nil {
		return err
	}
	sess.Focus(u.UUID, u.Username, u.Active())
	return nil
}

func (c *Controller) userHwid(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	return c.devicesScreen(ctx, sess, sel.Target, "")
}

// devicesScreen — HWID-устройства пользователя с кнопками удаления по одному.
func (c *Controller) devicesScreen(ctx context.Context, sess *session.Session, id, line string) Effect {
	if err := c.focusUser(ctx, sess, id); err != nil {
		return c.lookupFailed(sess, session.KindUsers, err).prefixed(line)
	}
	sess.Go(session.Detail, session.KindUsers)

	devices, err := c.api.UserHwidDevices(ctx, id)
	if err != nil {
		c.logFailure(sess, "Не удалось получить устройства пользователя.", err)
		return card(sess).prefixed("❌ Не удалось получить устройства пользователя.").prefixed(line)
	}

	e := Effect{Text: formatDevices(subjectName(sess), devices)}
	e.Buttons = append(e.Buttons, row(btn("➕ Добавить устройство", event.UserHwidAdd, id)))
	for i, d := range devices {
		e.Buttons = append(e.Buttons, row(btn(fmt.Sprintf("❌ Удалить %d", i+1), event.UserHwidDelete, d.Hwid)))
	}
	e.Buttons = append(e.Buttons, row(btn("🔙 К пользователю", event.UserView, id), homeBtn()))
	return e.prefixed(line)
}

func (c *Controller) userHwidAdd(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	if err := c.focusUser(ctx, sess, sel.Target); err != nil {
		return c.lookupFailed(sess, session.KindUsers, err)
	}
	sess.StartFlow(session.FlowAddHwid, "")
	return c.beginFlow(sess)
}

// userStats — текущий трафик пользователя и разбивка по нодам за usageDays.
func (c *Controller) userStats(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	u, err := c.api.User(ctx, sel.Target)
	if err != nil {
		return c.lookupFailed(sess, session.KindUsers, err)
	}
	sess.Focus(u.UUID, u.Username, u.Active())
	sess.Go(session.Detail, session.KindUsers)

	e := Effect{Buttons: [][]Button{
		row(btn("🔄 Обновить статистику", event.UserStats, u.UUID)),
		row(btn("🔙 К пользователю", event.UserView, u.UUID), homeBtn()),
	}}

	end := c.now()
	usage, err := c.api.UserUsage(ctx, u.UUID, end.AddDate(0, 0, -usageDays), end)
	if err != nil {
		c.logFailure(sess, "Не удалось получить статистику пользователя.", err)
		e.Text = formatUserUsage(u, nil)
		return e.prefixed(fmt.Sprintf("❌ Не удалось получить статистику за %d %s.", usageDays, common.PluralizeDays(usageDays)))
	}
	e.Text = formatUserUsage(u, usage)
	return e
}
