package jobs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/conversation"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
)

const (
	reportPageSize = 100
	// Больше страниц отчёт не листает, остаток просто не попадёт в список.
	reportMaxPages = 50
	// Сколько истекающих пользователей показываем поимённо.
	reportMaxListed = 20
)

// Report собирает текст ежедневной сводки для администраторов.
type Report struct {
	api        *gateway.Remnawave
	expireDays int
	now        func() time.Time
}

func NewReport(api *gateway.Remnawave, expireDays int) *Report {
	return &Report{api: api, expireDays: expireDays, now: time.Now}
}

// Build: статистика системы + пользователи, у которых подписка истекает
// в ближайшие expireDays дней.
func (r *Report) Build(ctx context.Context) (string, error) {
	stats, err := r.api.SystemStats(ctx)
	if err != nil {
		return "", fmt.Errorf("system stats: %w", err)
	}
	expiring, err := r.expiring(ctx)
	if err != nil {
		return "", fmt.Errorf("expiring users: %w", err)
	}

	now := r.now()
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Ежедневный отчёт на %s\n\n", now.Format(common.DateLayout))
	b.WriteString(conversation.FormatSystemStats(stats))
	b.WriteString("\n\n")

	if len(expiring) == 0 {
		fmt.Fprintf(&b, "✅ В ближайшие %d %s подписки не истекают.", r.expireDays, common.PluralizeDays(r.expireDays))
		return b.String(), nil
	}
	fmt.Fprintf(&b, "⏳ Истекают в ближайшие %d %s: %s\n",
		r.expireDays, common.PluralizeDays(r.expireDays), common.FormatUsers(int64(len(expiring))))
	for i, u := range expiring {
		if i == reportMaxListed {
			fmt.Fprintf(&b, "… и ещё %d", len(expiring)-reportMaxListed)
			break
		}
		fmt.Fprintf(&b, "%s %s: %s\n", common.ExpireMarker(u.ExpireAt, now), u.Username, common.FormatExpire(u.ExpireAt, now))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (r *Report) expiring(ctx context.Context) ([]gateway.User, error) {
	now := r.now()
	until := now.Add(time.Duration(r.expireDays) * 24 * time.Hour)

	var out []gateway.User
	for page, start := 0, 0; page < reportMaxPages; page++ {
		p, err := r.api.Users(ctx, start, reportPageSize)
		if err != nil {
			return nil, err
		}
		for _, u := range p.Users {
			if u.ExpireAt.IsZero() || !u.ExpireAt.After(now) || u.ExpireAt.After(until) {
				continue
			}
			out = append(out, u)
		}
		start += len(p.Users)
		if len(p.Users) == 0 || start >= p.Total {
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpireAt.Before(out[j].ExpireAt) })
	return out, nil
}
