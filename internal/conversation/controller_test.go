package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/flow"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/gateway/gatewaytest"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

var fixedNow = time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)

const userU1 = `{"uuid":"U1","username":"validname1","status":"ACTIVE","usedTrafficBytes":1024,"trafficLimitBytes":0,"trafficLimitStrategy":"NO_RESET","expireAt":"2025-02-01T00:00:00Z","tag":"VIP"}`

func newController(fake *gatewaytest.Fake) *Controller {
	return New(fake, flow.NewCatalog(30), WithClock(func() time.Time { return fixedNow }))
}

func apply(t require.TestingT, c *Controller, sess *session.Session, ev event.Event) Effect {
	state, eff := c.HandleEvent(context.Background(), sess, ev)
	require.Equal(t, sess.State, state)
	require.NoError(t, sess.Check())
	return eff
}

func usersPageJSON(start, n, total int) string {
	users := make([]string, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, fmt.Sprintf(`{"uuid":"U%d","username":"user%04d","status":"ACTIVE"}`, start+i, start+i))
	}
	return fmt.Sprintf(`{"users":[%s],"total":%d}`, strings.Join(users, ","), total)
}

func TestCreateUserRejectsShortUsernameThenAdvances(t *testing.T) {
	fake := gatewaytest.New()
	c := newController(fake)
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.UserCreate))
	assert.Equal(t, session.CollectingField, sess.State)
	assert.Equal(t, session.FlowCreateUser, sess.PendingFlow)
	assert.True(t, eff.AwaitText)
	assert.Contains(t, eff.Text, "имя пользователя")

	eff = apply(t, c, sess, event.Text{Raw: "ab"})
	assert.Equal(t, session.CollectingField, sess.State)
	assert.Equal(t, 0, sess.FieldIndex)
	assert.Zero(t, sess.Scratch.Len())
	assert.True(t, strings.HasPrefix(eff.Text, "❌ "), eff.Text)
	assert.Contains(t, eff.Text, "имя пользователя")

	eff = apply(t, c, sess, event.Text{Raw: "validname1"})
	assert.Equal(t, session.ChoiceField, sess.State)
	assert.Equal(t, 1, sess.FieldIndex)
	assert.False(t, eff.AwaitText)
	assert.True(t, eff.Has(event.Choose))
	assert.True(t, eff.Has(event.Skip), "стратегия необязательна")

	assert.Empty(t, fake.Calls())
}

func TestCancelConfirmationReturnsToDetail(t *testing.T) {
	fake := gatewaytest.New().On(gateway.VerbFetch, "users/U1", userU1)
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserView, "U1"))
	require.Equal(t, session.Detail, sess.State)
	fake.Reset()

	eff := apply(t, c, sess, event.Select(event.UserDisable, "U1"))
	assert.Equal(t, session.ConfirmPending, sess.State)
	assert.Contains(t, eff.Text, "validname1")
	assert.True(t, eff.Has(event.Confirm))

	eff = apply(t, c, sess, event.Select(event.Cancel))
	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, session.KindUsers, sess.Menu)
	assert.Equal(t, "U1", sess.Subject)
	assert.Nil(t, sess.PendingAction)
	assert.True(t, eff.Has(event.UserDisable))

	assert.Empty(t, fake.Calls())
}

func TestCancelConfirmationWithoutLoadedCard(t *testing.T) {
	fake := gatewaytest.New()
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserDisable, "U1"))
	eff := apply(t, c, sess, event.Select(event.Cancel))

	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "U1", sess.Subject)
	assert.NotEmpty(t, eff.Buttons)
	assert.Empty(t, fake.Calls())
}

// completeCreateUser проходит поток: имя, стратегия, остальные поля пропущены.
func completeCreateUser(t *testing.T, c *Controller, sess *session.Session) Effect {
	t.Helper()
	apply(t, c, sess, event.Select(event.UserCreate))
	apply(t, c, sess, event.Text{Raw: "validname1"})
	eff := apply(t, c, sess, event.Select(event.Choose, gateway.StrategyWeek))
	for sess.InFlow() {
		require.True(t, eff.Has(event.Skip), eff.Text)
		eff = apply(t, c, sess, event.Select(event.Skip))
	}
	return eff
}

func TestCreateUserRemoteFailureReturnsToMenu(t *testing.T) {
	fake := gatewaytest.New().Fail(gateway.VerbSubmit, "users", gateway.ErrTransport)
	c := newController(fake)
	sess := session.New(1)

	eff := completeCreateUser(t, c, sess)

	assert.Equal(t, session.EntityMenu, sess.State)
	assert.Equal(t, session.KindUsers, sess.Menu)
	assert.Zero(t, sess.Scratch.Len())
	assert.Equal(t, session.FlowNone, sess.PendingFlow)
	assert.True(t, strings.HasPrefix(eff.Text, "❌ "), eff.Text)
	assert.Len(t, fake.Mutations(), 1)
}

func TestCreateUserSuccessShowsCard(t *testing.T) {
	fake := gatewaytest.New().On(gateway.VerbSubmit, "users", userU1)
	c := newController(fake)
	sess := session.New(1)

	eff := completeCreateUser(t, c, sess)

	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "U1", sess.Subject)
	assert.Contains(t, eff.Text, "✅ Пользователь создан.")

	calls := fake.Mutations()
	require.Len(t, calls, 1)
	want := gateway.CreateUserRequest{
		Username:             "validname1",
		TrafficLimitStrategy: gateway.StrategyWeek,
		ExpireAt:             time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, calls[0].Body); diff != "" {
		t.Errorf("create body mismatch (-want +got):\n%s", diff)
	}
}

func TestBulkResetTrafficNeedsConfirmAndCallsOnce(t *testing.T) {
	fake := gatewaytest.New().On(gateway.VerbSubmit, "users/bulk/all/reset-traffic", `{}`)
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.Menu, string(session.KindBulk)))
	apply(t, c, sess, event.Select(event.BulkResetTraffic))
	assert.Equal(t, session.ConfirmPending, sess.State)
	assert.Empty(t, fake.Calls())

	eff := apply(t, c, sess, event.Select(event.Confirm))
	assert.Equal(t, []gatewaytest.Call{{Verb: gateway.VerbSubmit, Path: "users/bulk/all/reset-traffic"}}, fake.Mutations())
	assert.Equal(t, session.EntityMenu, sess.State)
	assert.Equal(t, session.KindBulk, sess.Menu)
	assert.True(t, strings.HasPrefix(eff.Text, "✅ "), eff.Text)
}

func TestEveryDestructiveActionHasEntry(t *testing.T) {
	for _, a := range event.Actions() {
		_, ok := destructiveActions[a]
		assert.Equal(t, a.Destructive(), ok, a.String())
	}
}

func TestNothingMutatesWithoutConfirm(t *testing.T) {
	escapes := []event.Event{
		event.Select(event.Cancel),
		event.Select(event.Back),
		event.Select(event.MainMenu),
		event.Select(event.Menu, string(session.KindUsers)),
		event.Select(event.UsersList),
		event.Select(event.Skip),
		event.Text{Raw: "да"},
	}
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SampledFrom(event.Actions()).Filter(event.Action.Destructive).Draw(t, "action")
		escape := rapid.SampledFrom(escapes).Draw(t, "escape")

		fake := gatewaytest.New().On(gateway.VerbFetch, "users/U1", userU1)
		c := newController(fake)
		sess := session.New(1)
		if destructiveActions[a].part {
			// удаление устройства доступно только с открытой карточки пользователя
			sess.Focus("U1", "validname1", true)
			sess.Go(session.Detail, session.KindUsers)
		}

		apply(t, c, sess, event.Select(a, "T1"))
		require.Equal(t, session.ConfirmPending, sess.State)
		apply(t, c, sess, escape)
		require.Empty(t, fake.Mutations())

		// После отмены подтверждать нечего.
		apply(t, c, sess, event.Select(event.Confirm))
		require.Empty(t, fake.Mutations())

		apply(t, c, sess, event.Select(a, "T1"))
		apply(t, c, sess, event.Select(event.Confirm))
		require.Len(t, fake.Mutations(), 1)
	})
}

func TestCancelAndRestartStartsClean(t *testing.T) {
	inputs := []event.Event{
		event.Text{Raw: "validname1"},
		event.Select(event.Choose, gateway.StrategyDay),
		event.Text{Raw: "1073741824"},
		event.Text{Raw: "2025-06-01"},
		event.Text{Raw: "описание"},
	}
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, len(inputs)).Draw(t, "n")

		c := newController(gatewaytest.New())
		sess := session.New(1)
		apply(t, c, sess, event.Select(event.UserCreate))
		for _, ev := range inputs[:n] {
			apply(t, c, sess, ev)
		}
		apply(t, c, sess, event.Select(event.Cancel))
		require.Equal(t, session.EntityMenu, sess.State)
		require.Zero(t, sess.Scratch.Len())

		apply(t, c, sess, event.Select(event.UserCreate))

		fresh := session.New(1)
		apply(t, c, fresh, event.Select(event.Menu, string(session.KindUsers)))
		apply(t, c, fresh, event.Select(event.UserCreate))

		if diff := cmp.Diff(fresh, sess, cmp.AllowUnexported(session.Scratch{})); diff != "" {
			t.Fatalf("restart differs from a fresh start (-fresh +restarted):\n%s", diff)
		}
	})
}

func pagedFake(total int) *gatewaytest.Fake {
	fake := gatewaytest.New()
	for start := 0; start < total || start == 0; start += DefaultPageSize {
		n := min(DefaultPageSize, total-start)
		fake.On(gateway.VerbFetch, fmt.Sprintf("users?size=%d&start=%d", DefaultPageSize, start), usersPageJSON(start, n, total))
	}
	return fake
}

func TestPaginationStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 23).Draw(t, "total")
		moves := rapid.SliceOf(rapid.SampledFrom([]event.Action{event.UsersNext, event.UsersPrev})).Draw(t, "moves")

		c := newController(pagedFake(total))
		sess := session.New(1)
		eff := apply(t, c, sess, event.Select(event.UsersList))
		require.Equal(t, 0, sess.Cursor)

		for _, m := range moves {
			before := sess.Cursor
			eff = apply(t, c, sess, event.Select(m))
			require.Equal(t, session.Browsing, sess.State)
			require.GreaterOrEqual(t, sess.Cursor, 0)
			require.Zero(t, sess.Cursor%DefaultPageSize)
			if total > 0 {
				require.Less(t, sess.Cursor, total)
			} else {
				require.Zero(t, sess.Cursor)
			}
			switch {
			case m == event.UsersPrev && before == 0:
				require.Zero(t, sess.Cursor)
			case m == event.UsersNext && before+DefaultPageSize >= total:
				require.Equal(t, before, sess.Cursor)
			}
			require.Equal(t, sess.Cursor > 0, eff.Has(event.UsersPrev))
			require.Equal(t, sess.Cursor+DefaultPageSize < total, eff.Has(event.UsersNext))
		}
	})
}

func TestSameEventsGiveSameResult(t *testing.T) {
	pool := []event.Event{
		event.Select(event.MainMenu),
		event.Select(event.Menu, string(session.KindUsers)),
		event.Select(event.UsersList),
		event.Select(event.UsersNext),
		event.Select(event.UserView, "U1"),
		event.Select(event.UserDisable, "U1"),
		event.Select(event.UserEdit, "U1"),
		event.Select(event.UserEditField, "tag"),
		event.Select(event.Confirm),
		event.Select(event.Cancel),
		event.Select(event.Back),
		event.Select(event.Refresh),
		event.Select(event.UserCreate),
		event.Select(event.Skip),
		event.Select(event.Choose, gateway.StrategyMonth),
		event.Select(event.StatsSystem),
		event.Select(event.BulkResetTraffic),
		event.Select(event.NodesList),
		event.Select(event.ActionUnknown),
		event.Text{Raw: "validname1"},
		event.Text{Raw: "ab"},
		event.Text{Raw: "VIP"},
	}
	setup := func() *gatewaytest.Fake {
		return pagedFake(7).
			On(gateway.VerbFetch, "users/U1", userU1).
			On(gateway.VerbSubmit, "users/U1/actions/disable", `{}`).
			On(gateway.VerbModify, "users", userU1).
			On(gateway.VerbFetch, "nodes", `[]`).
			Fail(gateway.VerbFetch, "system/stats", gateway.ErrTransport)
	}

	rapid.Check(t, func(t *rapid.T) {
		events := rapid.SliceOfN(rapid.SampledFrom(pool), 1, 20).Draw(t, "events")

		c1, c2 := newController(setup()), newController(setup())
		s1, s2 := session.New(7), session.New(7)
		for _, ev := range events {
			e1 := apply(t, c1, s1, ev)
			e2 := apply(t, c2, s2, ev)
			require.Equal(t, e1, e2)
			if diff := cmp.Diff(s1, s2, cmp.AllowUnexported(session.Scratch{})); diff != "" {
				t.Fatalf("sessions diverged after %v:\n%s", ev, diff)
			}
		}
	})
}

func TestUnrecognizedEventRerendersCurrentScreen(t *testing.T) {
	fake := gatewaytest.New().On(gateway.VerbFetch, "users/U1", userU1)
	c := newController(fake)
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.ActionUnknown))
	assert.Equal(t, session.MainMenu, sess.State)
	assert.Equal(t, mainMenu(), eff)

	eff = apply(t, c, sess, event.Text{Raw: "привет"})
	assert.Equal(t, mainMenu(), eff)

	want := apply(t, c, sess, event.Select(event.UserView, "U1"))
	got := apply(t, c, sess, event.Select(event.ActionUnknown))
	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, want, got)
}

func TestStrayButtonsIgnoredWhileCollecting(t *testing.T) {
	fake := gatewaytest.New()
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserCreate))
	apply(t, c, sess, event.Select(event.UserDelete, "U1"))
	assert.Equal(t, session.CollectingField, sess.State)
	assert.Nil(t, sess.PendingAction)

	apply(t, c, sess, event.Select(event.Choose, gateway.StrategyDay))
	assert.Equal(t, 0, sess.FieldIndex, "текстовое поле не принимает кнопку выбора")
	assert.Empty(t, fake.Calls())
}

func TestRequiredFieldHasNoSkip(t *testing.T) {
	c := newController(gatewaytest.New())
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.UserCreate))
	assert.False(t, eff.Has(event.Skip))
	assert.True(t, eff.Has(event.Cancel))

	apply(t, c, sess, event.Select(event.Skip))
	assert.Equal(t, 0, sess.FieldIndex)
}

func TestEditUserField(t *testing.T) {
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "users/U1", userU1).
		On(gateway.VerbModify, "users", userU1)
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserView, "U1"))
	eff := apply(t, c, sess, event.Select(event.UserEdit, "U1"))
	assert.True(t, eff.Has(event.UserEditField))

	eff = apply(t, c, sess, event.Select(event.UserEditField, "tag"))
	assert.Equal(t, session.CollectingField, sess.State)
	assert.Equal(t, session.FlowEditUser, sess.PendingFlow)
	assert.Contains(t, eff.Text, "Текущее значение: VIP")
	assert.NotContains(t, eff.Text, "Шаг")

	eff = apply(t, c, sess, event.Text{Raw: "bad tag"})
	assert.Equal(t, session.CollectingField, sess.State)
	assert.True(t, strings.HasPrefix(eff.Text, "❌ "))

	eff = apply(t, c, sess, event.Text{Raw: "GOLD"})
	assert.Equal(t, session.Detail, sess.State)
	assert.Contains(t, eff.Text, "✅ Пользователь обновлён.")

	calls := fake.Mutations()
	require.Len(t, calls, 1)
	gold := "GOLD"
	assert.Equal(t, gateway.UpdateUserRequest{UUID: "U1", Tag: &gold}, calls[0].Body)
}

func TestCancelEditReturnsToCard(t *testing.T) {
	fake := gatewaytest.New().On(gateway.VerbFetch, "users/U1", userU1)
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserView, "U1"))
	apply(t, c, sess, event.Select(event.UserEditField, "email"))
	require.Equal(t, session.CollectingField, sess.State)

	apply(t, c, sess, event.Select(event.Cancel))
	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "U1", sess.Subject)
	assert.Empty(t, fake.Mutations())
}

func TestBulkUpdateAllSkippedSendsNothing(t *testing.T) {
	fake := gatewaytest.New()
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.BulkUpdate))
	for sess.InFlow() {
		apply(t, c, sess, event.Select(event.Skip))
	}
	assert.Equal(t, session.Done, sess.State)
	assert.Equal(t, session.KindBulk, sess.Menu)
	assert.Empty(t, fake.Calls())
}

func TestSearchOutcomes(t *testing.T) {
	two := `[` + strings.Join([]string{
		`{"uuid":"U1","username":"validname1","status":"ACTIVE"}`,
		`{"uuid":"U2","username":"validname2","status":"DISABLED"}`,
	}, ",") + `]`
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "users/by-username/validname1", userU1).
		On(gateway.VerbFetch, "users/by-tag/VIP", two).
		On(gateway.VerbFetch, "users/by-email/none@example.com", `[]`)
	c := newController(fake)

	search := func(mode, term string) (*session.Session, Effect) {
		sess := session.New(1)
		apply(t, c, sess, event.Select(event.UserSearch, mode))
		require.Equal(t, session.FlowSearchUser, sess.PendingFlow)
		return sess, apply(t, c, sess, event.Text{Raw: term})
	}

	sess, _ := search(flow.SearchByUsername, "validname1")
	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "U1", sess.Subject)

	sess, eff := search(flow.SearchByTag, "VIP")
	assert.Equal(t, session.Done, sess.State)
	assert.Len(t, eff.Selections(), 3)

	sess, eff = search(flow.SearchByEmail, "none@example.com")
	assert.Equal(t, session.EntityMenu, sess.State)
	assert.Contains(t, eff.Text, "не найден")

	sess, eff = search(flow.SearchByUsername, "missing")
	assert.Equal(t, session.EntityMenu, sess.State)
	assert.Contains(t, eff.Text, "не найден")

	assert.Empty(t, fake.Mutations())
}

func TestDeleteLeavesDetail(t *testing.T) {
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "nodes/N1", `{"uuid":"N1","name":"de-1","isConnected":true}`).
		On(gateway.VerbRemove, "nodes/N1", `{}`)
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.NodeView, "N1"))
	apply(t, c, sess, event.Select(event.NodeDelete, "N1"))
	eff := apply(t, c, sess, event.Select(event.Confirm))

	assert.Equal(t, session.EntityMenu, sess.State)
	assert.Equal(t, session.KindNodes, sess.Menu)
	assert.Empty(t, sess.Subject)
	assert.Contains(t, eff.Text, "Сервер удалён.")
	assert.Equal(t, []gatewaytest.Call{{Verb: gateway.VerbRemove, Path: "nodes/N1"}}, fake.Mutations())
}

func TestConfirmFailureKeepsCard(t *testing.T) {
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "hosts/H1", `{"uuid":"H1","remark":"edge","address":"a.example","port":443}`).
		Fail(gateway.VerbSubmit, "hosts/H1/actions/disable", &gateway.StatusError{Status: 500})
	c := newController(fake)
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.HostView, "H1"))
	apply(t, c, sess, event.Select(event.HostDisable, "H1"))
	eff := apply(t, c, sess, event.Select(event.Confirm))

	assert.Equal(t, session.Detail, sess.State)
	assert.Equal(t, "H1", sess.Subject)
	assert.True(t, strings.HasPrefix(eff.Text, "❌ "))
	assert.Len(t, fake.Mutations(), 1)
}

func TestInboundViewNotFound(t *testing.T) {
	fake := gatewaytest.New().On(gateway.VerbFetch, "inbounds/full", `[{"uuid":"I1","tag":"vless","type":"vless","port":443}]`)
	c := newController(fake)
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.InboundView, "I1"))
	assert.Equal(t, session.Detail, sess.State)
	assert.True(t, eff.Has(event.InboundAddUsers))

	eff = apply(t, c, sess, event.Select(event.InboundView, "I2"))
	assert.Equal(t, session.EntityMenu, sess.State)
	assert.Contains(t, eff.Text, "Inbound не найден.")
}

func TestStatsScreens(t *testing.T) {
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "system/stats", `{"cpu":{"cores":4},"users":{"totalUsers":3,"statusCounts":{"ACTIVE":2,"DISABLED":1}}}`).
		On(gateway.VerbFetch, "system/stats/nodes", `{"lastSevenDays":[{"nodeName":"de-1","date":"2025-01-01","totalBytes":"1024"},{"nodeName":"de-1","date":"2025-01-02","totalBytes":2048}]}`)
	c := newController(fake)
	sess := session.New(1)

	eff := apply(t, c, sess, event.Select(event.StatsSystem))
	assert.Equal(t, session.EntityMenu, sess.State)
	assert.Equal(t, session.KindStats, sess.Menu)
	assert.Contains(t, eff.Text, "ACTIVE: 2")

	eff = apply(t, c, sess, event.Select(event.StatsNodes))
	assert.Contains(t, eff.Text, "de-1: 3.00 KB")

	eff = apply(t, c, sess, event.Select(event.StatsBandwidth))
	assert.Equal(t, session.EntityMenu, sess.State)
	assert.True(t, strings.HasPrefix(eff.Text, "❌ "))
}

type memRecorder struct{ actions []string }

func (m *memRecorder) Record(_ context.Context, _ int64, action, target string, err error) {
	m.actions = append(m.actions, fmt.Sprintf("%s %s %v", action, target, err == nil))
}

func TestRecorderSeesMutationsOnly(t *testing.T) {
	rec := &memRecorder{}
	fake := gatewaytest.New().
		On(gateway.VerbFetch, "users/U1", userU1).
		On(gateway.VerbSubmit, "users/U1/actions/revoke", `{}`)
	c := New(fake, flow.NewCatalog(30), WithClock(func() time.Time { return fixedNow }), WithRecorder(rec))
	sess := session.New(1)

	apply(t, c, sess, event.Select(event.UserView, "U1"))
	apply(t, c, sess, event.Select(event.UserRevoke, "U1"))
	apply(t, c, sess, event.Select(event.Confirm))

	assert.Equal(t, []string{"user_revoke U1 true"}, rec.actions)
}
