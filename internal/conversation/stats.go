package conversation

import (
	"context"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

func (c *Controller) bulkUpdate(_ context.Context, sess *session.Session, _ event.Selection) Effect {
	sess.StartFlow(session.FlowBulkUpdate, "")
	return c.beginFlow(sess)
}

func statsScreen(text string, again event.Action) Effect {
	return Effect{
		Text: text,
		Buttons: [][]Button{
			row(btn("🔄 Обновить", again)),
			row(menuBtn(session.KindStats)),
		},
	}
}

func (c *Controller) statsSystem(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	s, err := c.api.SystemStats(ctx)
	if err != nil {
		return c.failed(sess, session.KindStats, "Не удалось получить статистику системы.", err)
	}
	sess.Go(session.EntityMenu, session.KindStats)
	return statsScreen(FormatSystemStats(s), event.StatsSystem)
}

func (c *Controller) statsBandwidth(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	s, err := c.api.BandwidthStats(ctx)
	if err != nil {
		return c.failed(sess, session.KindStats, "Не удалось получить статистику трафика.", err)
	}
	sess.Go(session.EntityMenu, session.KindStats)
	return statsScreen(formatBandwidth(s), event.StatsBandwidth)
}

func (c *Controller) statsNodes(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	s, err := c.api.NodesStats(ctx)
	if err != nil {
		return c.failed(sess, session.KindStats, "Не удалось получить статистику серверов.", err)
	}
	sess.Go(session.EntityMenu, session.KindStats)
	return statsScreen(formatNodesStats(s), event.StatsNodes)
}
