package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Стратегии сброса лимита трафика.
const (
	StrategyNoReset = "NO_RESET"
	StrategyDay     = "DAY"
	StrategyWeek    = "WEEK"
	StrategyMonth   = "MONTH"
)

// Strategies — закрытый набор стратегий в порядке отображения.
var Strategies = []string{StrategyNoReset, StrategyDay, StrategyWeek, StrategyMonth}

// Статусы пользователя.
const (
	UserActive   = "ACTIVE"
	UserDisabled = "DISABLED"
	UserLimited  = "LIMITED"
	UserExpired  = "EXPIRED"
)

// User — пользователь панели.
type User struct {
	UUID                 string    `json:"uuid"`
	ShortUUID            string    `json:"shortUuid"`
	Username             string    `json:"username"`
	Status               string    `json:"status"`
	UsedTrafficBytes     int64     `json:"usedTrafficBytes"`
	LifetimeUsedBytes    int64     `json:"lifetimeUsedTrafficBytes"`
	TrafficLimitBytes    int64     `json:"trafficLimitBytes"`
	TrafficLimitStrategy string    `json:"trafficLimitStrategy"`
	ExpireAt             time.Time `json:"expireAt"`
	Description          string    `json:"description"`
	TelegramID           *int64    `json:"telegramId"`
	Email                string    `json:"email"`
	Tag                  string    `json:"tag"`
	HwidDeviceLimit      *int64    `json:"hwidDeviceLimit"`
	SubscriptionURL      string    `json:"subscriptionUrl"`
	OnlineAt             time.Time `json:"onlineAt"`
}

// Active сообщает, что пользователь включён.
func (u User) Active() bool { return u.Status == UserActive }

// UserPage — страница списка пользователей.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// CreateUserRequest — тело POST users. Пустые необязательные поля не отправляются.
type CreateUserRequest struct {
	Username             string    `json:"username"`
	TrafficLimitStrategy string    `json:"trafficLimitStrategy"`
	TrafficLimitBytes    int64     `json:"trafficLimitBytes"`
	ExpireAt             time.Time `json:"expireAt"`
	Description          string    `json:"description,omitempty"`
	TelegramID           *int64    `json:"telegramId,omitempty"`
	Email                string    `json:"email,omitempty"`
	Tag                  string    `json:"tag,omitempty"`
	HwidDeviceLimit      *int64    `json:"hwidDeviceLimit,omitempty"`
}

// UpdateUserRequest — тело PATCH users: uuid плюс изменённые поля.
type UpdateUserRequest struct {
	UUID                 string     `json:"uuid"`
	TrafficLimitStrategy string     `json:"trafficLimitStrategy,omitempty"`
	TrafficLimitBytes    *int64     `json:"trafficLimitBytes,omitempty"`
	ExpireAt             *time.Time `json:"expireAt,omitempty"`
	Description          *string    `json:"description,omitempty"`
	TelegramID           *int64     `json:"telegramId,omitempty"`
	Email                *string    `json:"email,omitempty"`
	Tag                  *string    `json:"tag,omitempty"`
	HwidDeviceLimit      *int64     `json:"hwidDeviceLimit,omitempty"`
}

// BulkUpdateRequest — тело users/bulk/all/update.
type BulkUpdateRequest struct {
	TrafficLimitBytes    *int64     `json:"trafficLimitBytes,omitempty"`
	TrafficLimitStrategy string     `json:"trafficLimitStrategy,omitempty"`
	ExpireAt             *time.Time `json:"expireAt,omitempty"`
}

// Empty сообщает, что изменять нечего.
func (r BulkUpdateRequest) Empty() bool {
	return r.TrafficLimitBytes == nil && r.TrafficLimitStrategy == "" && r.ExpireAt == nil
}

// HwidDevice — устройство, привязанное к пользователю.
type HwidDevice struct {
	Hwid        string `json:"hwid"`
	Platform    string `json:"platform"`
	OsVersion   string `json:"osVersion"`
	DeviceModel string `json:"deviceModel"`
	CreatedAt   string `json:"createdAt"`
}

// HwidDevices — список устройств. Панель отдаёт либо массив,
// либо объект {"devices": [...], "total": N}.
type HwidDevices []HwidDevice

func (d *HwidDevices) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = nil
		return nil
	}
	if b[0] == '[' {
		return json.Unmarshal(b, (*[]HwidDevice)(d))
	}
	var wrapped struct {
		Devices []HwidDevice `json:"devices"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	*d = wrapped.Devices
	return nil
}

// HwidDeviceRequest — тело hwid/devices и hwid/devices/delete.
type HwidDeviceRequest struct {
	UserUUID string `json:"userUuid"`
	Hwid     string `json:"hwid"`
}

// UserUsage — трафик пользователя на одной ноде за день диапазона.
type UserUsage struct {
	NodeUUID string  `json:"nodeUuid"`
	NodeName string  `json:"nodeName"`
	Date     string  `json:"date"`
	Total    FlexInt `json:"total"`
}

// Node — сервер (нода) панели.
type Node struct {
	UUID              string `json:"uuid"`
	Name              string `json:"name"`
	Address           string `json:"address"`
	Port              int    `json:"port"`
	IsConnected       bool   `json:"isConnected"`
	IsDisabled        bool   `json:"isDisabled"`
	UsersOnline       int    `json:"usersOnline"`
	TrafficUsedBytes  int64  `json:"trafficUsedBytes"`
	TrafficLimitBytes int64  `json:"trafficLimitBytes"`
	CountryCode       string `json:"countryCode"`
	XrayVersion       string `json:"xrayVersion"`
}

// Online — нода подключена и не отключена администратором.
func (n Node) Online() bool { return n.IsConnected && !n.IsDisabled }

// NodeRealtimeUsage — текущая скорость и объём по ноде.
type NodeRealtimeUsage struct {
	NodeUUID      string `json:"nodeUuid"`
	NodeName      string `json:"nodeName"`
	CountryCode   string `json:"countryCode"`
	DownloadBytes int64  `json:"downloadBytes"`
	UploadBytes   int64  `json:"uploadBytes"`
	TotalBytes    int64  `json:"totalBytes"`
	DownloadSpeed int64  `json:"downloadSpeedBps"`
	UploadSpeed   int64  `json:"uploadSpeedBps"`
	TotalSpeed    int64  `json:"totalSpeedBps"`
}

// Host — хост (точка входа для клиентов).
type Host struct {
	UUID        string `json:"uuid"`
	InboundUUID string `json:"inboundUuid"`
	Remark      string `json:"remark"`
	Address     string `json:"address"`
	Port        int    `json:"port"`
	IsDisabled  bool   `json:"isDisabled"`
}

// CreateHostRequest — тело POST hosts.
type CreateHostRequest struct {
	InboundUUID string `json:"inboundUuid"`
	Remark      string `json:"remark"`
	Address     string `json:"address"`
	Port        int    `json:"port"`
}

// Counter — пара счётчиков включённых и отключённых.
type Counter struct {
	Enabled  int `json:"enabled"`
	Disabled int `json:"disabled"`
}

// Inbound — входящее подключение Xray.
type Inbound struct {
	UUID  string   `json:"uuid"`
	Tag   string   `json:"tag"`
	Type  string   `json:"type"`
	Port  int      `json:"port"`
	Users *Counter `json:"users,omitempty"`
	Nodes *Counter `json:"nodes,omitempty"`
}

// SystemStats — system/stats.
type SystemStats struct {
	CPU struct {
		Cores         int `json:"cores"`
		PhysicalCores int `json:"physicalCores"`
	} `json:"cpu"`
	Memory struct {
		Total int64 `json:"total"`
		Used  int64 `json:"used"`
		Free  int64 `json:"free"`
	} `json:"memory"`
	Uptime float64 `json:"uptime"`
	Users  struct {
		StatusCounts map[string]int64 `json:"statusCounts"`
		TotalUsers   int64            `json:"totalUsers"`
	} `json:"users"`
	OnlineStats struct {
		OnlineNow   int64 `json:"onlineNow"`
		LastDay     int64 `json:"lastDay"`
		LastWeek    int64 `json:"lastWeek"`
		NeverOnline int64 `json:"neverOnline"`
	} `json:"onlineStats"`
	Nodes struct {
		TotalOnline int64 `json:"totalOnline"`
	} `json:"nodes"`
}

// BandwidthPeriod — объём за период и изменение к предыдущему (строки форматирует панель).
type BandwidthPeriod struct {
	Current    string `json:"current"`
	Previous   string `json:"previous"`
	Difference string `json:"difference"`
}

// BandwidthStats — system/stats/bandwidth.
type BandwidthStats struct {
	LastTwoDays   BandwidthPeriod `json:"bandwidthLastTwoDays"`
	LastSevenDays BandwidthPeriod `json:"bandwidthLastSevenDays"`
	Last30Days    BandwidthPeriod `json:"bandwidthLast30Days"`
	CalendarMonth BandwidthPeriod `json:"bandwidthCalendarMonth"`
	CurrentYear   BandwidthPeriod `json:"bandwidthCurrentYear"`
}

// NodeDayUsage — трафик ноды за один день.
type NodeDayUsage struct {
	NodeName   string  `json:"nodeName"`
	Date       string  `json:"date"`
	TotalBytes FlexInt `json:"totalBytes"`
}

// NodesStats — system/stats/nodes.
type NodesStats struct {
	LastSevenDays []NodeDayUsage `json:"lastSevenDays"`
}

// FlexInt принимает число как в виде JSON-числа, так и строкой ("123").
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}
