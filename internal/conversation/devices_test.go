package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/gateway/gatewaytest"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

const devicesU1 = `{"devices":[{"hwid":"h1","platform":"Android","createdAt":"2025-01-01T10:00:00.000Z"},{"hwid":"h2"}],"total":2}`

func devicesFake() *gatewaytest.Fake {
	return gatewaytest.New().
		On(gateway.VerbFetch, "users/U1", userU1).
		On(gateway.VerbFetch, "hwid/devices/U1", devicesU1)
}

func TestDevicesScreen(t *testing.T) {
	c := newController(devicesFake())
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.UserView, "U1"))
	assert.Contains(t, eff.Selections(), event.Select(event.UserHwid, "U1"))
	assert.Contains(t, eff.Selections(), event.Select(event.UserStats, "U1"))

	eff = apply(t, c, sess, event.Select(event.UserHwid, "U1"))
	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "U1", sess.Subject)
	assert.Contains(t, eff.Text, "validname1")
	assert.Contains(t, eff.Text, "1. HWID: h1")
	assert.Contains(t, eff.Text, "Платформа: Android")
	assert.Contains(t, eff.Text, "Добавлено: 2025-01-01")
	assert.Contains(t, eff.Selections(), event.Select(event.UserHwidDelete, "h1"))
	assert.Contains(t, eff.Selections(), event.Select(event.UserHwidDelete, "h2"))
	assert.Contains(t, eff.Selections(), event.Select(event.UserHwidAdd, "U1"))
}

func TestAddHwidFlow(t *testing.T) {
	fake := devicesFake().On(gateway.VerbSubmit, "hwid/devices", `{}`)
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserHwid, "U1"))
	fake.Reset()

	eff := apply(t, c, sess, event.Select(event.UserHwidAdd, "U1"))
	assert.Equal(t, session.CollectingField, sess.State)
	assert.Equal(t, session.FlowAddHwid, sess.PendingFlow)
	assert.True(t, eff.AwaitText)
	assert.False(t, eff.Has(event.Skip), "HWID обязателен")
	assert.Empty(t, fake.Calls(), "пользователь уже на экране")

	eff = apply(t, c, sess, event.Text{Raw: "   "})
	assert.True(t, strings.HasPrefix(eff.Text, "❌ "), eff.Text)
	assert.Equal(t, session.CollectingField, sess.State)
	assert.Empty(t, fake.Mutations())

	eff = apply(t, c, sess, event.Text{Raw: " a1b2c3d4 "})
	assert.Equal(t, []gatewaytest.Call{{
		Verb: gateway.VerbSubmit,
		Path: "hwid/devices",
		Body: gateway.HwidDeviceRequest{UserUUID: "U1", Hwid: "a1b2c3d4"},
	}}, fake.Mutations())
	assert.Equal(t, session.Detail, sess.State)
	assert.False(t, sess.InFlow())
	assert.True(t, strings.HasPrefix(eff.Text, "✅ Устройство добавлено."), eff.Text)
	assert.True(t, eff.Has(event.UserHwidDelete))
}

func TestAddHwidFailureKeepsCard(t *testing.T) {
	fake := devicesFake().Fail(gateway.VerbSubmit, "hwid/devices", &gateway.StatusError{Status: 400})
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserView, "U1"))
	apply(t, c, sess, event.Select(event.UserHwidAdd, "U1"))
	eff := apply(t, c, sess, event.Text{Raw: "a1b2c3d4"})

	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "U1", sess.Subject)
	assert.True(t, strings.HasPrefix(eff.Text, "❌ Не удалось добавить устройство."), eff.Text)
	assert.Len(t, fake.Mutations(), 1)
}

func TestCancelAddHwidReturnsToCard(t *testing.T) {
	fake := devicesFake()
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserView, "U1"))
	apply(t, c, sess, event.Select(event.UserHwidAdd, "U1"))
	fake.Reset()

	eff := apply(t, c, sess, event.Select(event.Cancel))
	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, session.KindUsers, sess.Menu)
	assert.False(t, sess.InFlow())
	assert.Contains(t, eff.Text, "validname1")
	assert.Empty(t, fake.Calls())
}

func TestHwidDeleteWithConfirm(t *testing.T) {
	rec := &memRecorder{}
	fake := devicesFake().On(gateway.VerbSubmit, "hwid/devices/delete", `{}`)
	c := newController(fake)
	c.audit = rec
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserHwid, "U1"))
	fake.Reset()

	eff := apply(t, c, sess, event.Select(event.UserHwidDelete, "h1"))
	require.Equal(t, session.ConfirmPending, sess.State)
	assert.Contains(t, eff.Text, "h1")
	assert.Contains(t, eff.Text, "validname1")
	assert.True(t, eff.Has(event.Confirm))
	assert.Empty(t, fake.Calls())
	assert.Equal(t, "U1", sess.Subject, "подтверждение не меняет пользователя на экране")

	eff = apply(t, c, sess, event.Select(event.Confirm))
	assert.Equal(t, []gatewaytest.Call{{
		Verb: gateway.VerbSubmit,
		Path: "hwid/devices/delete",
		Body: gateway.HwidDeviceRequest{UserUUID: "U1", Hwid: "h1"},
	}}, fake.Mutations())
	assert.Equal(t, session.Detail, sess.State)
	assert.True(t, strings.HasPrefix(eff.Text, "✅ Устройство удалено."), eff.Text)
	assert.Equal(t, []string{"user_hwid_delete U1/h1 true"}, rec.actions)

	// повторное подтверждение ничего не удаляет
	apply(t, c, sess, event.Select(event.Confirm))
	assert.Len(t, fake.Mutations(), 1)
}

func TestHwidDeleteWithoutConfirm(t *testing.T) {
	for name, escape := range map[string]event.Event{
		"cancel": event.Select(event.Cancel),
		"text":   event.Text{Raw: "да"},
		"other":  event.Select(event.UserHwidDelete, "h2"),
	} {
		t.Run(name, func(t *testing.T) {
			fake := devicesFake().On(gateway.VerbSubmit, "hwid/devices/delete", `{}`)
			c := newController(fake)
			sess := session.New(1)

			apply(t, c, sess, event.Select(event.UserHwid, "U1"))
			apply(t, c, sess, event.Select(event.UserHwidDelete, "h1"))
			fake.Reset()

			eff := apply(t, c, sess, escape)
			assert.Equal(t, session.Detail, sess.State)
			assert.Equal(t, "U1", sess.Subject)
			assert.Contains(t, eff.Text, "🚫 Действие отменено.")
			assert.Empty(t, fake.Calls())
		})
	}
}

func TestHwidDeleteWithoutUserIgnored(t *testing.T) {
	fake := gatewaytest.New()
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserHwidDelete, "h1"))
	assert.Equal(t, session.MainMenu, sess.State)
	assert.Nil(t, sess.PendingAction)
	assert.Empty(t, fake.Calls())
}

func TestUserStatsScreen(t *testing.T) {
	const user = `{"uuid":"U1","username":"validname1","status":"ACTIVE","usedTrafficBytes":512,"trafficLimitBytes":2048,"lifetimeUsedTrafficBytes":4096}`
	const usage = `[
		{"nodeUuid":"N1","nodeName":"de-1","total":1024},
		{"nodeUuid":"N2","nodeName":"nl-1","total":"4096"},
		{"nodeUuid":"N1","nodeName":"de-1","total":2048}
	]`
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "users/U1", user).
		On(gateway.VerbFetch, "users/stats/usage/U1/range", usage)
	c := newController(fake)
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.UserStats, "U1"))
	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "U1", sess.Subject)
	assert.Contains(t, eff.Text, "Процент: 25.00%")
	assert.Contains(t, eff.Text, "За всё время: 4.00 KB")

	nl := strings.Index(eff.Text, "nl-1: 4.00 KB")
	de := strings.Index(eff.Text, "de-1: 3.00 KB")
	require.NotEqual(t, -1, nl, eff.Text)
	require.NotEqual(t, -1, de, eff.Text)
	assert.Less(t, nl, de, "ноды по убыванию трафика")

	assert.Contains(t, eff.Selections(), event.Select(event.UserStats, "U1"))
	assert.Contains(t, eff.Selections(), event.Select(event.UserView, "U1"))
	assert.Empty(t, fake.Mutations())
}

func TestUserStatsUsageFailure(t *testing.T) {
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "users/U1", userU1).
		Fail(gateway.VerbFetch, "users/stats/usage/U1/range", gateway.ErrTransport)
	c := newController(fake)
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.UserStats, "U1"))
	assert.Equal(t, session.Detail, sess.State)
	assert.True(t, strings.HasPrefix(eff.Text, "❌ "), eff.Text)
	assert.Contains(t, eff.Text, "Использовано: 1.00 KB")
}
