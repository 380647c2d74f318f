package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"serotonyl.ru/remna-admin-bot/internal/event"
)

// MaxCallbackData — предел Telegram на callback_data.
const MaxCallbackData = 64

var (
	ErrCallbackTooLong = errors.New("callback-данные длиннее 64 байт")
	ErrBadCallback     = errors.New("неизвестные callback-данные")
)

// uuidTargets — действия, цель которых обязана быть UUID.
var uuidTargets = map[event.Action]bool{
	event.UserView: true, event.UserEdit: true,
	event.UserDisable: true, event.UserEnable: true, event.UserResetTraffic: true,
	event.UserRevoke: true, event.UserDelete: true,
	event.UserHwid: true, event.UserHwidAdd: true, event.UserStats: true,
	event.NodeView: true, event.NodeEnable: true, event.NodeDisable: true,
	event.NodeRestart: true, event.NodeDelete: true,
	event.HostView: true, event.HostEnable: true, event.HostDisable: true, event.HostDelete: true,
	event.InboundView: true, event.InboundAddUsers: true, event.InboundRemoveUsers: true,
	event.InboundAddNodes: true, event.InboundRemoveNodes: true,
}

// EncodeCallback упаковывает Selection в "действие:цель".
func EncodeCallback(sel event.Selection) (string, error) {
	if !sel.Action.Valid() {
		return "", fmt.Errorf("%w: %d", ErrBadCallback, int(sel.Action))
	}
	data := sel.String()
	if len(data) > MaxCallbackData {
		return "", fmt.Errorf("%w: %s", ErrCallbackTooLong, data)
	}
	return data, nil
}

// DecodeCallback разбирает callback-данные один раз на границе транспорта.
func DecodeCallback(data string) (event.Selection, error) {
	if len(data) > MaxCallbackData {
		return event.Selection{}, ErrCallbackTooLong
	}
	name, target, _ := strings.Cut(data, ":")
	a, ok := event.ParseAction(name)
	if !ok {
		return event.Selection{}, fmt.Errorf("%w: %q", ErrBadCallback, data)
	}
	if uuidTargets[a] {
		id, err := uuid.Parse(target)
		if err != nil {
			return event.Selection{}, fmt.Errorf("%w: %q: %v", ErrBadCallback, data, err)
		}
		target = id.String()
	}
	return event.Selection{Action: a, Target: target}, nil
}
