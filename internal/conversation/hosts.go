package conversation

import (
	"context"
	"fmt"
	"strings"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

func (c *Controller) hostsList(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	hosts, err := c.api.Hosts(ctx)
	if err != nil {
		return c.failed(sess, session.KindHosts, "Не удалось получить список хостов.", err)
	}
	sess.Go(session.Browsing, session.KindHosts)

	e := Effect{Text: "🌐 Хостов нет."}
	if len(hosts) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "🌐 Хосты (%d)\n", len(hosts))
		for i, h := range hosts {
			fmt.Fprintf(&b, "\n%d. %s %s\n   📍 %s:%d", i+1, hostStatus(h), h.Remark, h.Address, h.Port)
			e.Buttons = append(e.Buttons, row(btn(fmt.Sprintf("%s %s", hostStatus(h), h.Remark), event.HostView, h.UUID)))
		}
		e.Text = b.String()
	}
	e.Buttons = append(e.Buttons,
		row(btn("➕ Создать хост", event.HostCreate)),
		row(menuBtn(session.KindHosts)),
	)
	return e
}

func (c *Controller) hostView(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	return c.showDetail(ctx, sess, session.KindHosts, sel.Target, "")
}

func (c *Controller) hostCard(sess *session.Session, h gateway.Host) Effect {
	sess.Focus(h.UUID, h.Remark, !h.IsDisabled)
	sess.Go(session.Detail, session.KindHosts)
	return Effect{Text: formatHost(h), Buttons: hostButtons(h.UUID, !h.IsDisabled)}
}

func hostButtons(id string, enabled bool) [][]Button {
	toggle := btn("✅ Включить", event.HostEnable, id)
	if enabled {
		toggle = btn("🚫 Отключить", event.HostDisable, id)
	}
	return [][]Button{
		row(toggle, btn("🗑️ Удалить", event.HostDelete, id)),
		row(btn("🔙 К списку", event.HostsList), homeBtn()),
	}
}

func (c *Controller) hostCreate(_ context.Context, sess *session.Session, _ event.Selection) Effect {
	sess.StartFlow(session.FlowCreateHost, "")
	return c.beginFlow(sess)
}
