// Package event описывает входящие события диалога: нажатие кнопки (Selection)
// или свободный текст (Text). Транспорт разбирает callback-данные один раз
// на границе, дальше ходят только типизированные значения.
package event

import "fmt"

// Action — тег нажатой кнопки.
type Action int

const (
	ActionUnknown Action = iota

	// навигация
	MainMenu
	Menu   // Target — session.Kind
	Cancel // отмена потока или подтверждения
	Back   // к владеющему меню
	Refresh

	// подтверждение
	Confirm

	// поток ввода
	Skip
	Choose // Target — значение варианта

	// пользователи
	UsersList
	UsersNext
	UsersPrev
	UserView
	UserCreate
	UserSearch    // Target — режим поиска
	UserEdit      // Target — uuid, показывает список полей
	UserEditField // Target — имя поля
	UserDisable
	UserEnable
	UserResetTraffic
	UserRevoke
	UserDelete
	UserHwid       // Target — uuid, список устройств
	UserHwidAdd    // Target — uuid
	UserHwidDelete // Target — HWID устройства пользователя на экране
	UserStats      // Target — uuid, трафик за 30 дней

	// ноды
	NodesList
	NodeView
	NodeEnable
	NodeDisable
	NodeRestart
	NodeDelete
	NodesRestartAll
	NodesUsage

	// хосты
	HostsList
	HostView
	HostCreate
	HostEnable
	HostDisable
	HostDelete

	// inbound
	InboundsList
	InboundView
	InboundAddUsers
	InboundRemoveUsers
	InboundAddNodes
	InboundRemoveNodes

	// массовые операции
	BulkResetTraffic
	BulkDeleteDisabled
	BulkDeleteExpired
	BulkUpdate

	// статистика
	StatsSystem
	StatsBandwidth
	StatsNodes

	actionCount
)

var actionNames = [...]string{
	ActionUnknown:      "unknown",
	MainMenu:           "main_menu",
	Menu:               "menu",
	Cancel:             "cancel",
	Back:               "back",
	Refresh:            "refresh",
	Confirm:            "confirm",
	Skip:               "skip",
	Choose:             "choose",
	UsersList:          "users_list",
	UsersNext:          "users_next",
	UsersPrev:          "users_prev",
	UserView:           "user_view",
	UserCreate:         "user_create",
	UserSearch:         "user_search",
	UserEdit:           "user_edit",
	UserEditField:      "user_edit_field",
	UserDisable:        "user_disable",
	UserEnable:         "user_enable",
	UserResetTraffic:   "user_reset_traffic",
	UserRevoke:         "user_revoke",
	UserDelete:         "user_delete",
	UserHwid:           "user_hwid",
	UserHwidAdd:        "user_hwid_add",
	UserHwidDelete:     "user_hwid_delete",
	UserStats:          "user_stats",
	NodesList:          "nodes_list",
	NodeView:           "node_view",
	NodeEnable:         "node_enable",
	NodeDisable:        "node_disable",
	NodeRestart:        "node_restart",
	NodeDelete:         "node_delete",
	NodesRestartAll:    "nodes_restart_all",
	NodesUsage:         "nodes_usage",
	HostsList:          "hosts_list",
	HostView:           "host_view",
	HostCreate:         "host_create",
	HostEnable:         "host_enable",
	HostDisable:        "host_disable",
	HostDelete:         "host_delete",
	InboundsList:       "inbounds_list",
	InboundView:        "inbound_view",
	InboundAddUsers:    "inbound_add_users",
	InboundRemoveUsers: "inbound_remove_users",
	InboundAddNodes:    "inbound_add_nodes",
	InboundRemoveNodes: "inbound_remove_nodes",
	BulkResetTraffic:   "bulk_reset_traffic",
	BulkDeleteDisabled: "bulk_delete_disabled",
	BulkDeleteExpired:  "bulk_delete_expired",
	BulkUpdate:         "bulk_update",
	StatsSystem:        "stats_system",
	StatsBandwidth:     "stats_bandwidth",
	StatsNodes:         "stats_nodes",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction — обратное к String для известных действий.
func ParseAction(name string) (Action, bool) {
	for a := ActionUnknown + 1; a < actionCount; a++ {
		if actionNames[a] == name {
			return a, true
		}
	}
	return ActionUnknown, false
}

// Valid сообщает, что a — известное действие.
func (a Action) Valid() bool { return a > ActionUnknown && a < actionCount }

// Actions возвращает все известные действия (без ActionUnknown).
func Actions() []Action {
	out := make([]Action, 0, actionCount-1)
	for a := ActionUnknown + 1; a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// Destructive — действия, которые проходят через подтверждение.
func (a Action) Destructive() bool {
	switch a {
	case UserDisable, UserEnable, UserResetTraffic, UserRevoke, UserDelete, UserHwidDelete,
		NodeEnable, NodeDisable, NodeRestart, NodeDelete, NodesRestartAll,
		HostEnable, HostDisable, HostDelete,
		InboundAddUsers, InboundRemoveUsers, InboundAddNodes, InboundRemoveNodes,
		BulkResetTraffic, BulkDeleteDisabled, BulkDeleteExpired:
		return true
	}
	return false
}

// Event — Selection или Text.
type Event interface {
	isEvent()
}

// Selection — нажатие кнопки: тег действия и необязательная цель.
type Selection struct {
	Action Action
	Target string
}

func (Selection) isEvent() {}

func (s Selection) String() string {
	if s.Target == "" {
		return s.Action.String()
	}
	return s.Action.String() + ":" + s.Target
}

// Text — свободное сообщение администратора.
type Text struct {
	Raw string
}

func (Text) isEvent() {}

// Select — короткий конструктор Selection.
func Select(a Action, target ...string) Selection {
	s := Selection{Action: a}
	if len(target) > 0 {
		s.Target = target[0]
	}
	return s
}
