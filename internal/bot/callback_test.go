package bot

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"serotonyl.ru/remna-admin-bot/internal/event"
)

func TestCallbackRoundTrip(t *testing.T) {
	id := uuid.NewString()
	cases := []event.Selection{
		event.Select(event.MainMenu),
		event.Select(event.Menu, "users"),
		event.Select(event.Choose, "NO_RESET"),
		event.Select(event.UserEditField, "hwidDeviceLimit"),
		event.Select(event.UserSearch, "telegram"),
		event.Select(event.UserView, id),
		event.Select(event.InboundRemoveNodes, id),
		event.Select(event.UserStats, id),
		event.Select(event.UserHwidDelete, "android:5f2c9e1b7a"),
	}
	for _, sel := range cases {
		data, err := EncodeCallback(sel)
		require.NoError(t, err, sel.String())
		assert.LessOrEqual(t, len(data), MaxCallbackData)

		got, err := DecodeCallback(data)
		require.NoError(t, err, data)
		assert.Equal(t, sel, got)
	}
}

// Самое длинное имя действия с UUID укладывается в лимит Telegram.
func TestEveryActionFitsWithUUID(t *testing.T) {
	id := uuid.NewString()
	for _, a := range event.Actions() {
		_, err := EncodeCallback(event.Select(a, id))
		assert.NoError(t, err, a.String())
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, data := range []string{
		"",
		"nope",
		"user_view:not-a-uuid",
		"user_hwid:not-a-uuid",
		"node_delete:",
		"host_view:" + strings.Repeat("a", 60),
	} {
		_, err := DecodeCallback(data)
		assert.Error(t, err, data)
	}

	_, err := EncodeCallback(event.Select(event.ActionUnknown))
	assert.ErrorIs(t, err, ErrBadCallback)
	_, err = EncodeCallback(event.Select(event.Choose, strings.Repeat("x", 64)))
	assert.ErrorIs(t, err, ErrCallbackTooLong)
}

func TestDecodeNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.String().Draw(t, "data")
		sel, err := DecodeCallback(data)
		if err == nil {
			assert.True(t, sel.Action.Valid())
		}
	})
}
