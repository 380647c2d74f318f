package flow

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
	"serotonyl.ru/remna-admin-bot/internal/validate"
)

var (
	catalog = NewCatalog(30)
	now     = time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)
)

func startCreateUser() *session.Session {
	s := session.New(1)
	s.StartFlow(session.FlowCreateUser, "")
	return s
}

func TestCreateUserFieldOrder(t *testing.T) {
	var names []string
	for i := 0; i < catalog.CreateUser.Len(); i++ {
		names = append(names, catalog.CreateUser.Step(i).Name)
	}
	assert.Equal(t, []string{
		"username", "trafficLimitStrategy", "trafficLimitBytes", "expireAt",
		"description", "telegramId", "email", "tag", "hwidDeviceLimit",
	}, names)
	assert.True(t, catalog.CreateUser.Step(1).IsChoice())
}

func TestRejectedUsernameKeepsIndex(t *testing.T) {
	s := startCreateUser()

	res, err := Collect(catalog.CreateUser, s, TextInput("ab"))
	assert.Equal(t, Rejected, res)
	assert.ErrorIs(t, err, common.ErrInvalidUsername)
	assert.True(t, validate.IsRejection(err))
	assert.Zero(t, s.FieldIndex)
	assert.Zero(t, s.Scratch.Len())

	res, err = Collect(catalog.CreateUser, s, TextInput("validname1"))
	require.NoError(t, err)
	assert.Equal(t, Advanced, res)
	step, ok := Current(catalog.CreateUser, s)
	require.True(t, ok)
	assert.Equal(t, "trafficLimitStrategy", step.Name)
}

func TestInvalidUsernameNeverAdvancesProperty(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9_-]{6,34}$`)
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		if pattern.MatchString(raw) || pattern.MatchString(strings.TrimSpace(raw)) {
			t.Skip("valid username")
		}
		s := startCreateUser()
		res, err := Collect(catalog.CreateUser, s, TextInput(raw))
		if res != Rejected || err == nil || s.FieldIndex != 0 || s.Scratch.Len() != 0 {
			t.Fatalf("%q: result %v, err %v, index %d", raw, res, err, s.FieldIndex)
		}
	})
}

func TestNonNegativeLimitsStoredVerbatimProperty(t *testing.T) {
	for _, field := range []string{"trafficLimitBytes", "hwidDeviceLimit"} {
		plan, ok := catalog.EditUser(field)
		require.True(t, ok)

		rapid.Check(t, func(t *rapid.T) {
			n := rapid.Int64Min(0).Draw(t, "n")
			s := session.New(1)
			s.StartFlow(session.FlowEditUser, field)
			res, err := Collect(plan, s, TextInput(strconv.FormatInt(n, 10)))
			if err != nil || res != Complete {
				t.Fatalf("%s=%d: %v %v", field, n, res, err)
			}
			if v, _ := s.Scratch.Get(field); v != n {
				t.Fatalf("%s stored %v, want %d", field, v, n)
			}
		})

		rapid.Check(t, func(t *rapid.T) {
			n := rapid.Int64Max(-1).Draw(t, "n")
			s := session.New(1)
			s.StartFlow(session.FlowEditUser, field)
			res, _ := Collect(plan, s, TextInput(strconv.FormatInt(n, 10)))
			if res != Rejected || s.FieldIndex != 0 {
				t.Fatalf("%s accepted %d", field, n)
			}
		})
	}
}

func TestChoiceAndTextMismatch(t *testing.T) {
	s := startCreateUser()
	_, err := Collect(catalog.CreateUser, s, ChoiceInput("validname1"))
	assert.ErrorIs(t, err, common.ErrTextExpected)

	_, err = Collect(catalog.CreateUser, s, TextInput("validname1"))
	require.NoError(t, err)

	_, err = Collect(catalog.CreateUser, s, TextInput("WEEK"))
	assert.ErrorIs(t, err, common.ErrChoiceExpected)
	assert.Equal(t, 1, s.FieldIndex)

	_, err = Collect(catalog.CreateUser, s, ChoiceInput("YEAR"))
	assert.ErrorIs(t, err, common.ErrInvalidChoice)

	res, err := Collect(catalog.CreateUser, s, ChoiceInput("WEEK"))
	require.NoError(t, err)
	assert.Equal(t, Advanced, res)
	assert.Equal(t, 2, s.FieldIndex)
}

func TestSkip(t *testing.T) {
	s := startCreateUser()
	_, err := Collect(catalog.CreateUser, s, SkipInput())
	assert.ErrorIs(t, err, common.ErrFieldRequired)
	assert.Zero(t, s.FieldIndex)

	_, err = Collect(catalog.CreateUser, s, TextInput("validname1"))
	require.NoError(t, err)

	res := Advanced
	for res != Complete {
		res, err = Collect(catalog.CreateUser, s, SkipInput())
		require.NoError(t, err)
	}
	assert.Equal(t, catalog.CreateUser.Len(), s.FieldIndex)
	assert.Equal(t, 1, s.Scratch.Len(), "skipped fields store nothing")
}

func TestCreateUserDefaults(t *testing.T) {
	s := startCreateUser()
	s.Scratch.Set("username", "validname1")

	req := catalog.CreateUser.Build(&s.Scratch, now)
	assert.Equal(t, gateway.CreateUserRequest{
		Username:             "validname1",
		TrafficLimitStrategy: gateway.StrategyNoReset,
		ExpireAt:             time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}, req)

	s.Scratch.Set("trafficLimitStrategy", gateway.StrategyMonth)
	s.Scratch.Set("telegramId", int64(-100))
	req = catalog.CreateUser.Build(&s.Scratch, now)
	assert.Equal(t, gateway.StrategyMonth, req.TrafficLimitStrategy)
	require.NotNil(t, req.TelegramID)
	assert.Equal(t, int64(-100), *req.TelegramID)
}

func TestEditFlowsHaveOneField(t *testing.T) {
	for _, f := range EditableFields {
		plan, ok := catalog.EditUser(f.Value)
		require.True(t, ok, f.Value)
		assert.Equal(t, 1, plan.Len())
		assert.Equal(t, f.Value, plan.Step(0).Name)
		assert.Equal(t, session.FlowEditUser, plan.Tag())
	}
	_, ok := catalog.EditUser("username")
	assert.False(t, ok)
}

func TestEditUserBuild(t *testing.T) {
	plan, _ := catalog.EditUser("tag")
	s := session.New(1)
	s.StartFlow(session.FlowEditUser, "tag")
	res, err := Collect(plan, s, TextInput("VIP"))
	require.NoError(t, err)
	require.Equal(t, Complete, res)

	req := plan.Build(&s.Scratch, now)
	require.NotNil(t, req.Tag)
	assert.Equal(t, "VIP", *req.Tag)
	assert.Nil(t, req.Email)
	assert.Nil(t, req.ExpireAt)
}

func TestBulkUpdateAllSkippedIsEmpty(t *testing.T) {
	s := session.New(1)
	s.StartFlow(session.FlowBulkUpdate, "")
	for i := 0; i < catalog.BulkUpdate.Len(); i++ {
		_, err := Collect(catalog.BulkUpdate, s, SkipInput())
		require.NoError(t, err)
	}
	assert.True(t, catalog.BulkUpdate.Build(&s.Scratch, now).Empty())
}

func TestCreateHost(t *testing.T) {
	s := session.New(1)
	s.StartFlow(session.FlowCreateHost, "")
	inputs := []string{"3f2504e0-4f89-11d3-9a0c-0305e82c3301", "DE main", "de.example.com", "443"}
	var res Result
	for _, in := range inputs {
		var err error
		res, err = Collect(catalog.CreateHost, s, TextInput(in))
		require.NoError(t, err, in)
	}
	assert.Equal(t, Complete, res)
	assert.Equal(t, gateway.CreateHostRequest{
		InboundUUID: "3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		Remark:      "DE main",
		Address:     "de.example.com",
		Port:        443,
	}, catalog.CreateHost.Build(&s.Scratch, now))
}

func TestAddHwid(t *testing.T) {
	s := session.New(1)
	s.StartFlow(session.FlowAddHwid, "")
	plan, ok := catalog.For(s)
	require.True(t, ok)
	assert.Equal(t, 1, plan.Len())

	_, err := Collect(plan, s, TextInput("   "))
	assert.ErrorIs(t, err, common.ErrEmptyValue)
	_, err = Collect(plan, s, TextInput(strings.Repeat("f", MaxHwidLength+1)))
	assert.ErrorIs(t, err, common.ErrValueTooLong)
	assert.Equal(t, 0, s.FieldIndex)

	res, err := Collect(plan, s, TextInput("  a1b2c3d4e5  "))
	require.NoError(t, err)
	assert.Equal(t, Complete, res)
	assert.Equal(t, gateway.HwidDeviceRequest{Hwid: "a1b2c3d4e5"}, catalog.AddHwid.Build(&s.Scratch, now))
}

func TestSearchFlows(t *testing.T) {
	plan, ok := catalog.Search(SearchByTelegramID)
	require.True(t, ok)
	s := session.New(1)
	s.StartFlow(session.FlowSearchUser, SearchByTelegramID)

	_, err := Collect(plan, s, TextInput("abc"))
	assert.ErrorIs(t, err, common.ErrNotInteger)
	res, err := Collect(plan, s, TextInput("12345"))
	require.NoError(t, err)
	assert.Equal(t, Complete, res)
	assert.Equal(t, SearchQuery{Mode: SearchByTelegramID, Value: int64(12345)}, plan.Build(&s.Scratch, now))
}

func TestCollectRequiresOwningFlow(t *testing.T) {
	s := session.New(1)
	_, err := Collect(catalog.CreateUser, s, TextInput("validname1"))
	assert.Error(t, err)
	assert.False(t, validate.IsRejection(err))

	s.StartFlow(session.FlowCreateHost, "")
	plan, ok := catalog.For(s)
	require.True(t, ok)
	assert.Equal(t, session.FlowCreateHost, plan.Tag())
}

// Отмена в любой точке и повторный старт дают тот же scratch, что и свежий поток.
func TestRestartAfterCancelMatchesFresh(t *testing.T) {
	inputs := []Input{
		TextInput("validname1"), ChoiceInput("DAY"), TextInput("1073741824"),
		TextInput("2030-01-01"), TextInput("note"), TextInput("42"),
	}
	rapid.Check(t, func(t *rapid.T) {
		cut := rapid.IntRange(0, len(inputs)).Draw(t, "cut")
		redo := rapid.IntRange(0, len(inputs)).Draw(t, "redo")

		fresh := startCreateUser()
		for _, in := range inputs[:redo] {
			_, _ = Collect(catalog.CreateUser, fresh, in)
		}

		reused := startCreateUser()
		for _, in := range inputs[:cut] {
			_, _ = Collect(catalog.CreateUser, reused, in)
		}
		reused.ClearFlow()
		reused.StartFlow(session.FlowCreateUser, "")
		for _, in := range inputs[:redo] {
			_, _ = Collect(catalog.CreateUser, reused, in)
		}

		if diff := cmp.Diff(fresh.Scratch.Entries(), reused.Scratch.Entries()); diff != "" {
			t.Fatalf("scratch leaked (-fresh +reused):\n%s", diff)
		}
		if fresh.FieldIndex != reused.FieldIndex {
			t.Fatalf("index %d != %d", fresh.FieldIndex, reused.FieldIndex)
		}
	})
}
