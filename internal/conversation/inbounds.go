package conversation

import (
	"context"
	"fmt"
	"strings"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

func (c *Controller) inboundsList(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	inbounds, err := c.api.InboundsFull(ctx)
	if err != nil {
		return c.failed(sess, session.KindInbounds, "Не удалось получить список inbounds.", err)
	}
	sess.Go(session.Browsing, session.KindInbounds)

	e := Effect{Text: "🔌 Inbounds нет."}
	if len(inbounds) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "🔌 Inbounds (%d)\n", len(inbounds))
		for i, in := range inbounds {
			fmt.Fprintf(&b, "\n%d. %s (%s, порт %d)", i+1, in.Tag, in.Type, in.Port)
			e.Buttons = append(e.Buttons, row(btn(in.Tag, event.InboundView, in.UUID)))
		}
		e.Text = b.String()
	}
	e.Buttons = append(e.Buttons, row(menuBtn(session.KindInbounds)))
	return e
}

// inbound — у панели нет выборки одного inbound, ищем в полном списке.
func (c *Controller) inbound(ctx context.Context, id string) (gateway.Inbound, error) {
	inbounds, err := c.api.InboundsFull(ctx)
	if err != nil {
		return gateway.Inbound{}, err
	}
	for _, in := range inbounds {
		if in.UUID == id {
			return in, nil
		}
	}
	return gateway.Inbound{}, fmt.Errorf("inbound %s: %w", id, gateway.ErrNotFound)
}

func (c *Controller) inboundView(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	return c.showDetail(ctx, sess, session.KindInbounds, sel.Target, "")
}

func (c *Controller) inboundCard(sess *session.Session, in gateway.Inbound) Effect {
	sess.Focus(in.UUID, in.Tag, true)
	sess.Go(session.Detail, session.KindInbounds)
	return Effect{Text: formatInbound(in), Buttons: inboundButtons(in.UUID)}
}

func inboundButtons(id string) [][]Button {
	return [][]Button{
		row(btn("👥 Добавить всем", event.InboundAddUsers, id), btn("👥 Убрать у всех", event.InboundRemoveUsers, id)),
		row(btn("🖥️ На все серверы", event.InboundAddNodes, id), btn("🖥️ Со всех серверов", event.InboundRemoveNodes, id)),
		row(btn("🔙 К списку", event.InboundsList), homeBtn()),
	}
}
