package conversation

import (
	"context"
	"fmt"
	"strings"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

func (c *Controller) nodesList(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	nodes, err := c.api.Nodes(ctx)
	if err != nil {
		return c.failed(sess, session.KindNodes, "Не удалось получить список серверов.", err)
	}
	sess.Go(session.Browsing, session.KindNodes)

	e := Effect{Text: "🖥️ Серверов нет."}
	if len(nodes) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "🖥️ Серверы (%d)\n", len(nodes))
		for i, n := range nodes {
			fmt.Fprintf(&b, "\n%d. %s %s\n   🌐 %s:%d, 👥 %d", i+1, nodeStatus(n), n.Name, n.Address, n.Port, n.UsersOnline)
			e.Buttons = append(e.Buttons, row(btn(fmt.Sprintf("%s %s", nodeStatus(n), n.Name), event.NodeView, n.UUID)))
		}
		e.Text = b.String()
	}
	e.Buttons = append(e.Buttons,
		row(btn("🔄 Обновить", event.Refresh)),
		row(menuBtn(session.KindNodes)),
	)
	return e
}

func (c *Controller) nodeView(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	if sel.Target == "" {
		return c.render(ctx, sess)
	}
	return c.showDetail(ctx, sess, session.KindNodes, sel.Target, "")
}

func (c *Controller) nodeCard(sess *session.Session, n gateway.Node) Effect {
	sess.Focus(n.UUID, n.Name, !n.IsDisabled)
	sess.Go(session.Detail, session.KindNodes)
	return Effect{Text: formatNode(n), Buttons: nodeButtons(n.UUID, !n.IsDisabled)}
}

func nodeButtons(id string, enabled bool) [][]Button {
	toggle := btn("✅ Включить", event.NodeEnable, id)
	if enabled {
		toggle = btn("🚫 Отключить", event.NodeDisable, id)
	}
	return [][]Button{
		row(toggle, btn("🔄 Перезапустить", event.NodeRestart, id)),
		row(btn("🗑️ Удалить", event.NodeDelete, id)),
		row(btn("🔙 К списку", event.NodesList), homeBtn()),
	}
}

func (c *Controller) nodesUsage(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	usage, err := c.api.NodesRealtimeUsage(ctx)
	if err != nil {
		return c.failed(sess, session.KindNodes, "Не удалось получить трафик серверов.", err)
	}
	sess.Go(session.EntityMenu, session.KindNodes)
	return Effect{
		Text: formatRealtime(usage),
		Buttons: [][]Button{
			row(btn("🔄 Обновить", event.NodesUsage)),
			row(menuBtn(session.KindNodes)),
		},
	}
}
