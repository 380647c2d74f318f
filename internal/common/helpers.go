// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: форматирование трафика и дат, русская плюрализация, работа с временем.
package common

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout — формат даты, который вводит администратор.
const DateLayout = "2006-01-02"

// byteUnits — единицы для FormatBytes (степени 1024).
var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes форматирует размер трафика в читабельную строку.
//
// Примеры:
//
//	FormatBytes(0)          → "0 B"
//	FormatBytes(1536)       → "1.50 KB"
//	FormatBytes(1073741824) → "1.00 GB"
func FormatBytes(n int64) string {
	if n < 0 {
		return "-" + FormatBytes(-n)
	}
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, byteUnits[unit])
}

// FormatLimit как FormatBytes, но 0 означает «без лимита».
func FormatLimit(n int64) string {
	if n == 0 {
		return "∞"
	}
	return FormatBytes(n)
}

// MidnightUTC возвращает начало суток по UTC для даты t.
// Дата истечения в панели всегда хранится как полночь UTC.
func MidnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysLeft возвращает количество полных суток от now до t (может быть отрицательным).
func DaysLeft(t, now time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}

// FormatExpire форматирует дату истечения вместе с остатком дней.
// Пример: "2025-01-31 (12 дней)"
func FormatExpire(t, now time.Time) string {
	if t.IsZero() {
		return "не указана"
	}
	days := DaysLeft(t, now)
	return fmt.Sprintf("%s (%d %s)", t.UTC().Format(DateLayout), days, PluralizeDays(days))
}

// ExpireMarker возвращает эмодзи срочности: больше недели, меньше недели, истёк.
func ExpireMarker(t, now time.Time) string {
	switch days := DaysLeft(t, now); {
	case t.IsZero():
		return "📅"
	case days > 7:
		return "🟢"
	case days > 0:
		return "🟡"
	default:
		return "🔴"
	}
}

// LoadLocation загружает часовой пояс из конфига.
// Если не удалось — используем UTC+3 вручную, как и раньше для Москвы.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// ShortID возвращает первые 8 символов UUID для компактных списков.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "…"
}

// OrDash возвращает "—" для пустых строк.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
