package conversation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
)

func statusEmoji(active bool) string {
	if active {
		return "✅"
	}
	return "❌"
}

func formatUser(u gateway.User, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 Пользователь: %s\n", u.Username)
	fmt.Fprintf(&b, "🆔 UUID: %s\n", u.UUID)
	if u.ShortUUID != "" {
		fmt.Fprintf(&b, "🔑 Короткий UUID: %s\n", u.ShortUUID)
	}
	fmt.Fprintf(&b, "%s Статус: %s\n", statusEmoji(u.Active()), u.Status)
	fmt.Fprintf(&b, "📈 Трафик: %s / %s\n", common.FormatBytes(u.UsedTrafficBytes), common.FormatLimit(u.TrafficLimitBytes))
	fmt.Fprintf(&b, "🔄 Стратегия сброса: %s\n", common.OrDash(u.TrafficLimitStrategy))
	fmt.Fprintf(&b, "%s Истекает: %s\n", common.ExpireMarker(u.ExpireAt, now), common.FormatExpire(u.ExpireAt, now))
	fmt.Fprintf(&b, "📝 Описание: %s\n", common.OrDash(u.Description))
	if u.TelegramID != nil {
		fmt.Fprintf(&b, "📱 Telegram ID: %d\n", *u.TelegramID)
	}
	if u.Email != "" {
		fmt.Fprintf(&b, "📧 Email: %s\n", u.Email)
	}
	if u.Tag != "" {
		fmt.Fprintf(&b, "🏷️ Тег: %s\n", u.Tag)
	}
	if u.HwidDeviceLimit != nil {
		fmt.Fprintf(&b, "📱 Лимит устройств: %d\n", *u.HwidDeviceLimit)
	}
	if u.SubscriptionURL != "" {
		fmt.Fprintf(&b, "🔗 Подписка: %s\n", u.SubscriptionURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func userLine(i int, u gateway.User, now time.Time) string {
	return fmt.Sprintf("%d. %s %s\n   📈 %s / %s\n   %s %s",
		i, statusEmoji(u.Active()), u.Username,
		common.FormatBytes(u.UsedTrafficBytes), common.FormatLimit(u.TrafficLimitBytes),
		common.ExpireMarker(u.ExpireAt, now), common.FormatExpire(u.ExpireAt, now))
}

// currentValue — текущее значение поля пользователя для подсказки при редактировании.
func currentValue(u gateway.User, field string) string {
	switch field {
	case "expireAt":
		if u.ExpireAt.IsZero() {
			return "не указано"
		}
		return u.ExpireAt.UTC().Format(common.DateLayout)
	case "trafficLimitBytes":
		return fmt.Sprintf("%d (%s)", u.TrafficLimitBytes, common.FormatLimit(u.TrafficLimitBytes))
	case "trafficLimitStrategy":
		return common.OrDash(u.TrafficLimitStrategy)
	case "description":
		return orUnset(u.Description)
	case "telegramId":
		if u.TelegramID == nil {
			return "не указано"
		}
		return strconv.FormatInt(*u.TelegramID, 10)
	case "email":
		return orUnset(u.Email)
	case "tag":
		return orUnset(u.Tag)
	case "hwidDeviceLimit":
		if u.HwidDeviceLimit == nil {
			return "не указано"
		}
		return strconv.FormatInt(*u.HwidDeviceLimit, 10)
	}
	return "не указано"
}

func orUnset(s string) string {
	if s == "" {
		return "не указано"
	}
	return s
}

func nodeStatus(n gateway.Node) string {
	if n.Online() {
		return "🟢"
	}
	return "🔴"
}

func formatNode(n gateway.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🖥️ Сервер: %s\n", n.Name)
	fmt.Fprintf(&b, "🆔 UUID: %s\n", n.UUID)
	fmt.Fprintf(&b, "🌐 Адрес: %s:%d\n", n.Address, n.Port)
	switch {
	case n.IsDisabled:
		b.WriteString("🔴 Статус: отключён\n")
	case n.IsConnected:
		b.WriteString("🟢 Статус: подключён\n")
	default:
		b.WriteString("🔴 Статус: нет связи\n")
	}
	if n.CountryCode != "" {
		fmt.Fprintf(&b, "🌍 Страна: %s\n", n.CountryCode)
	}
	if n.XrayVersion != "" {
		fmt.Fprintf(&b, "⚙️ Xray: %s\n", n.XrayVersion)
	}
	fmt.Fprintf(&b, "👥 Онлайн: %d\n", n.UsersOnline)
	fmt.Fprintf(&b, "📈 Трафик: %s / %s", common.FormatBytes(n.TrafficUsedBytes), common.FormatLimit(n.TrafficLimitBytes))
	return b.String()
}

func hostStatus(h gateway.Host) string {
	if h.IsDisabled {
		return "🔴"
	}
	return "🟢"
}

func formatHost(h gateway.Host) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌐 Хост: %s\n", h.Remark)
	fmt.Fprintf(&b, "🆔 UUID: %s\n", h.UUID)
	fmt.Fprintf(&b, "📍 Адрес: %s:%d\n", h.Address, h.Port)
	fmt.Fprintf(&b, "🔌 Inbound: %s\n", h.InboundUUID)
	if h.IsDisabled {
		b.WriteString("🔴 Статус: отключён")
	} else {
		b.WriteString("🟢 Статус: включён")
	}
	return b.String()
}

func formatInbound(in gateway.Inbound) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔌 Inbound: %s\n", in.Tag)
	fmt.Fprintf(&b, "🆔 UUID: %s\n", in.UUID)
	fmt.Fprintf(&b, "📡 Тип: %s\n", in.Type)
	fmt.Fprintf(&b, "🔢 Порт: %d", in.Port)
	if in.Users != nil {
		fmt.Fprintf(&b, "\n👥 Пользователи: %d активных, %d отключённых", in.Users.Enabled, in.Users.Disabled)
	}
	if in.Nodes != nil {
		fmt.Fprintf(&b, "\n🖥️ Серверы: %d активных, %d отключённых", in.Nodes.Enabled, in.Nodes.Disabled)
	}
	return b.String()
}

// FormatSystemStats используется и экраном статистики, и ежедневным отчётом.
func FormatSystemStats(s gateway.SystemStats) string {
	var b strings.Builder
	b.WriteString("🖥️ Статистика системы\n\n")
	fmt.Fprintf(&b, "⚙️ CPU: %d ядер (%d физических)\n", s.CPU.Cores, s.CPU.PhysicalCores)
	fmt.Fprintf(&b, "💾 Память: %s / %s\n", common.FormatBytes(s.Memory.Used), common.FormatBytes(s.Memory.Total))
	fmt.Fprintf(&b, "⏱️ Аптайм: %s\n\n", formatUptime(s.Uptime))

	fmt.Fprintf(&b, "👥 Всего: %s\n", common.FormatUsers(s.Users.TotalUsers))
	statuses := make([]string, 0, len(s.Users.StatusCounts))
	for st := range s.Users.StatusCounts {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		fmt.Fprintf(&b, "  • %s: %s\n", st, common.FormatNumber(s.Users.StatusCounts[st]))
	}

	fmt.Fprintf(&b, "\n🟢 Онлайн сейчас: %s\n", common.FormatNumber(s.OnlineStats.OnlineNow))
	fmt.Fprintf(&b, "📅 За сутки: %s\n", common.FormatNumber(s.OnlineStats.LastDay))
	fmt.Fprintf(&b, "📆 За неделю: %s\n", common.FormatNumber(s.OnlineStats.LastWeek))
	fmt.Fprintf(&b, "💤 Ни разу не подключались: %s\n", common.FormatNumber(s.OnlineStats.NeverOnline))
	fmt.Fprintf(&b, "🖥️ Серверов онлайн: %d", s.Nodes.TotalOnline)
	return b.String()
}

func formatUptime(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%d %s %d ч %d мин", days, common.PluralizeDays(days), hours, minutes)
}

func formatBandwidth(s gateway.BandwidthStats) string {
	var b strings.Builder
	b.WriteString("📈 Статистика трафика\n")
	for _, p := range []struct {
		title string
		v     gateway.BandwidthPeriod
	}{
		{"За 2 дня", s.LastTwoDays},
		{"За 7 дней", s.LastSevenDays},
		{"За 30 дней", s.Last30Days},
		{"Текущий месяц", s.CalendarMonth},
		{"Текущий год", s.CurrentYear},
	} {
		fmt.Fprintf(&b, "\n📊 %s: %s (было %s, разница %s)",
			p.title, common.OrDash(p.v.Current), common.OrDash(p.v.Previous), common.OrDash(p.v.Difference))
	}
	return b.String()
}

func formatNodesStats(s gateway.NodesStats) string {
	type total struct {
		name  string
		bytes int64
		days  int
	}
	byNode := map[string]*total{}
	for _, e := range s.LastSevenDays {
		t, ok := byNode[e.NodeName]
		if !ok {
			t = &total{name: e.NodeName}
			byNode[e.NodeName] = t
		}
		t.bytes += int64(e.TotalBytes)
		t.days++
	}
	totals := make([]*total, 0, len(byNode))
	for _, t := range byNode {
		totals = append(totals, t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].bytes != totals[j].bytes {
			return totals[i].bytes > totals[j].bytes
		}
		return totals[i].name < totals[j].name
	})

	var b strings.Builder
	b.WriteString("🌍 Трафик серверов за 7 дней\n")
	if len(totals) == 0 {
		b.WriteString("\nНет данных.")
		return b.String()
	}
	for i, t := range totals {
		fmt.Fprintf(&b, "\n%d. %s: %s (%d %s)", i+1, t.name, common.FormatBytes(t.bytes), t.days, common.PluralizeDays(t.days))
	}
	return b.String()
}

func formatRealtime(usage []gateway.NodeRealtimeUsage) string {
	var b strings.Builder
	b.WriteString("📊 Трафик серверов в реальном времени\n")
	if len(usage) == 0 {
		b.WriteString("\nНет активных серверов.")
		return b.String()
	}
	for i, n := range usage {
		fmt.Fprintf(&b, "\n%d. %s (%s)\n", i+1, n.NodeName, common.OrDash(n.CountryCode))
		fmt.Fprintf(&b, "   📥 %s (%s/с)\n", common.FormatBytes(n.DownloadBytes), common.FormatBytes(n.DownloadSpeed))
		fmt.Fprintf(&b, "   📤 %s (%s/с)\n", common.FormatBytes(n.UploadBytes), common.FormatBytes(n.UploadSpeed))
		fmt.Fprintf(&b, "   📊 %s (%s/с)", common.FormatBytes(n.TotalBytes), common.FormatBytes(n.TotalSpeed))
	}
	return b.String()
}

func formatDevices(owner string, devices []gateway.HwidDevice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📱 Устройства HWID пользователя %s\n", owner)
	if len(devices) == 0 {
		b.WriteString("\nУстройства не найдены. Можно добавить новое.")
		return b.String()
	}
	for i, d := range devices {
		fmt.Fprintf(&b, "\n%d. HWID: %s", i+1, d.Hwid)
		if d.Platform != "" {
			fmt.Fprintf(&b, "\n   📱 Платформа: %s", d.Platform)
		}
		if d.OsVersion != "" {
			fmt.Fprintf(&b, "\n   🖥️ Версия ОС: %s", d.OsVersion)
		}
		if d.DeviceModel != "" {
			fmt.Fprintf(&b, "\n   📱 Модель: %s", d.DeviceModel)
		}
		if len(d.CreatedAt) >= len(common.DateLayout) {
			fmt.Fprintf(&b, "\n   🕒 Добавлено: %s", d.CreatedAt[:len(common.DateLayout)])
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatUserUsage — трафик пользователя и суммы по нодам, по убыванию.
func formatUserUsage(u gateway.User, usage []gateway.UserUsage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика пользователя %s\n\n", u.Username)
	b.WriteString("📈 Текущее использование:\n")
	fmt.Fprintf(&b, "  • Использовано: %s\n", common.FormatBytes(u.UsedTrafficBytes))
	fmt.Fprintf(&b, "  • Лимит: %s\n", common.FormatLimit(u.TrafficLimitBytes))
	if u.TrafficLimitBytes > 0 {
		fmt.Fprintf(&b, "  • Процент: %.2f%%\n", float64(u.UsedTrafficBytes)/float64(u.TrafficLimitBytes)*100)
	}
	fmt.Fprintf(&b, "  • За всё время: %s\n", common.FormatBytes(u.LifetimeUsedBytes))

	type total struct {
		name  string
		bytes int64
	}
	byNode := map[string]*total{}
	for _, e := range usage {
		key := e.NodeUUID
		if key == "" {
			key = e.NodeName
		}
		t, ok := byNode[key]
		if !ok {
			t = &total{name: e.NodeName}
			if t.name == "" {
				t.name = "Неизвестный сервер"
			}
			byNode[key] = t
		}
		t.bytes += int64(e.Total)
	}
	totals := make([]*total, 0, len(byNode))
	for _, t := range byNode {
		totals = append(totals, t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].bytes != totals[j].bytes {
			return totals[i].bytes > totals[j].bytes
		}
		return totals[i].name < totals[j].name
	})

	fmt.Fprintf(&b, "\n🌍 По серверам за %d %s:", usageDays, common.PluralizeDays(usageDays))
	if len(totals) == 0 {
		b.WriteString("\n  Нет данных.")
	}
	for _, t := range totals {
		fmt.Fprintf(&b, "\n  • %s: %s", t.name, common.FormatBytes(t.bytes))
	}
	return b.String()
}
