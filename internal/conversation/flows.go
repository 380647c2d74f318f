package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/flow"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
	"serotonyl.ru/remna-admin-bot/internal/validate"
)

// beginFlow ставит сессию на первое поле уже открытого потока.
func (c *Controller) beginFlow(sess *session.Session) Effect {
	plan, ok := c.flows.For(sess)
	if !ok {
		kind := flowOwner(sess.PendingFlow)
		sess.ClearFlow()
		return c.openMenu(sess, kind)
	}
	c.enterStep(sess, plan)
	return c.prompt(sess, nil)
}

func (c *Controller) enterStep(sess *session.Session, plan flow.Plan) {
	step, _ := flow.Current(plan, sess)
	state := session.CollectingField
	if step.IsChoice() {
		state = session.ChoiceField
	}
	sess.Go(state, flowOwner(sess.PendingFlow))
}

// input передаёт ввод сборщику и решает, что показать дальше.
func (c *Controller) input(ctx context.Context, sess *session.Session, in flow.Input) Effect {
	plan, ok := c.flows.For(sess)
	if !ok {
		kind := flowOwner(sess.PendingFlow)
		sess.ClearFlow()
		return c.openMenu(sess, kind)
	}

	res, err := flow.Collect(plan, sess, in)
	switch {
	case err != nil:
		if !validate.IsRejection(err) {
			kind := flowOwner(sess.PendingFlow)
			sess.ClearFlow()
			return c.failed(sess, kind, "Ввод прерван.", err)
		}
		return c.prompt(sess, err)
	case res == flow.Complete:
		return c.complete(ctx, sess)
	}
	c.enterStep(sess, plan)
	return c.prompt(sess, nil)
}

// prompt показывает текущее поле потока; rejection — причина отказа для предыдущего ввода.
func (c *Controller) prompt(sess *session.Session, rejection error) Effect {
	plan, ok := c.flows.For(sess)
	var step flow.Step
	if ok {
		step, ok = flow.Current(plan, sess)
	}
	if !ok {
		kind := flowOwner(sess.PendingFlow)
		sess.ClearFlow()
		return c.openMenu(sess, kind)
	}

	var lines []string
	if rejection != nil {
		var r *validate.Rejection
		reason := rejection.Error()
		if errors.As(rejection, &r) {
			reason = r.Reason.Error()
		}
		lines = append(lines, "❌ "+capitalize(reason))
	}
	if plan.Len() > 1 {
		lines = append(lines, fmt.Sprintf("Шаг %d из %d", sess.FieldIndex+1, plan.Len()))
	}
	if sess.Seed != "" {
		lines = append(lines, "Текущее значение: "+sess.Seed)
	}
	lines = append(lines, step.Prompt)

	e := Effect{Text: strings.Join(lines, "\n\n"), AwaitText: !step.IsChoice()}
	for _, ch := range step.Choices {
		e.Buttons = append(e.Buttons, row(btn(ch.Label, event.Choose, ch.Value)))
	}
	if !step.Required {
		e.Buttons = append(e.Buttons, row(btn("⏭️ Пропустить", event.Skip)))
	}
	e.Buttons = append(e.Buttons, row(cancelBtn()))
	return e
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// complete — все поля собраны: ровно один удалённый вызов и выход из потока.
func (c *Controller) complete(ctx context.Context, sess *session.Session) Effect {
	switch sess.PendingFlow {
	case session.FlowCreateUser:
		return c.finishCreateUser(ctx, sess)
	case session.FlowEditUser:
		return c.finishEditUser(ctx, sess)
	case session.FlowCreateHost:
		return c.finishCreateHost(ctx, sess)
	case session.FlowBulkUpdate:
		return c.finishBulkUpdate(ctx, sess)
	case session.FlowSearchUser:
		return c.finishSearch(ctx, sess)
	case session.FlowAddHwid:
		return c.finishAddHwid(ctx, sess)
	}
	sess.ClearFlow()
	return c.render(ctx, sess)
}

func (c *Controller) finishCreateUser(ctx context.Context, sess *session.Session) Effect {
	req := c.flows.CreateUser.Build(&sess.Scratch, c.now())
	sess.ClearFlow()

	u, err := c.api.CreateUser(ctx, req)
	c.record(ctx, sess, event.UserCreate, req.Username, err)
	if err != nil {
		return c.failed(sess, session.KindUsers, "Не удалось создать пользователя.", err)
	}
	return c.userCard(sess, u).prefixed("✅ Пользователь создан.")
}

func (c *Controller) finishEditUser(ctx context.Context, sess *session.Session) Effect {
	ff, ok := c.flows.EditUser(sess.FlowArg)
	if !ok {
		sess.ClearFlow()
		return c.openMenu(sess, session.KindUsers)
	}
	req := ff.Build(&sess.Scratch, c.now())
	req.UUID = sess.Subject
	field := sess.FlowArg
	sess.ClearFlow()

	u, err := c.api.UpdateUser(ctx, req)
	c.record(ctx, sess, event.UserEditField, req.UUID+"/"+field, err)
	if err != nil {
		c.logFailure(sess, "Не удалось обновить пользователя.", err)
		sess.Go(session.Detail, session.KindUsers)
		return card(sess).prefixed("❌ Не удалось обновить пользователя.")
	}
	return c.userCard(sess, u).prefixed("✅ Пользователь обновлён.")
}

func (c *Controller) finishAddHwid(ctx context.Context, sess *session.Session) Effect {
	req := c.flows.AddHwid.Build(&sess.Scratch, c.now())
	req.UserUUID = sess.Subject
	sess.ClearFlow()
	if req.UserUUID == "" {
		return c.openMenu(sess, session.KindUsers)
	}

	err := c.api.AddHwidDevice(ctx, req)
	c.record(ctx, sess, event.UserHwidAdd, req.UserUUID+"/"+req.Hwid, err)
	if err != nil {
		c.logFailure(sess, "Не удалось добавить устройство.", err)
		sess.Go(session.Detail, session.KindUsers)
		return card(sess).prefixed("❌ Не удалось добавить устройство.")
	}
	return c.devicesScreen(ctx, sess, req.UserUUID, "✅ Устройство добавлено.")
}

func (c *Controller) finishCreateHost(ctx context.Context, sess *session.Session) Effect {
	req := c.flows.CreateHost.Build(&sess.Scratch, c.now())
	sess.ClearFlow()

	h, err := c.api.CreateHost(ctx, req)
	c.record(ctx, sess, event.HostCreate, req.Remark, err)
	if err != nil {
		return c.failed(sess, session.KindHosts, "Не удалось создать хост.", err)
	}
	return c.hostCard(sess, h).prefixed("✅ Хост создан.")
}

func (c *Controller) finishBulkUpdate(ctx context.Context, sess *session.Session) Effect {
	req := c.flows.BulkUpdate.Build(&sess.Scratch, c.now())
	sess.ClearFlow()

	if req.Empty() {
		sess.Go(session.Done, session.KindBulk)
		return menuScreen(session.KindBulk).prefixed("ℹ️ Ничего не изменено.")
	}
	err := c.api.BulkUpdateUsers(ctx, req)
	c.record(ctx, sess, event.BulkUpdate, "all", err)
	if err != nil {
		return c.failed(sess, session.KindBulk, "Не удалось обновить пользователей.", err)
	}
	sess.Go(session.Done, session.KindBulk)
	return menuScreen(session.KindBulk).prefixed("✅ Пользователи обновлены.")
}

// finishSearch — завершающий вызов поиска только читает.
func (c *Controller) finishSearch(ctx context.Context, sess *session.Session) Effect {
	ff, ok := c.flows.Search(sess.FlowArg)
	if !ok {
		sess.ClearFlow()
		return c.openMenu(sess, session.KindUsers)
	}
	q := ff.Build(&sess.Scratch, c.now())
	sess.ClearFlow()

	var (
		found []gateway.User
		err   error
	)
	switch q.Mode {
	case flow.SearchByUsername:
		var u gateway.User
		if u, err = c.api.UserByUsername(ctx, q.Value.(string)); err == nil {
			found = []gateway.User{u}
		}
	case flow.SearchByUUID:
		var u gateway.User
		if u, err = c.api.User(ctx, q.Value.(string)); err == nil {
			found = []gateway.User{u}
		}
	case flow.SearchByTelegramID:
		found, err = c.api.UsersByTelegramID(ctx, q.Value.(int64))
	case flow.SearchByEmail:
		found, err = c.api.UsersByEmail(ctx, q.Value.(string))
	case flow.SearchByTag:
		found, err = c.api.UsersByTag(ctx, q.Value.(string))
	}

	switch {
	case errors.Is(err, gateway.ErrNotFound) || (err == nil && len(found) == 0):
		return c.openMenu(sess, session.KindUsers).prefixed("❌ Пользователь не найден.")
	case err != nil:
		return c.failed(sess, session.KindUsers, "Не удалось выполнить поиск.", err)
	case len(found) == 1:
		return c.userCard(sess, found[0])
	}

	now := c.now()
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Найдено пользователей: %d\n", len(found))
	e := Effect{}
	for i, u := range found {
		b.WriteString("\n" + userLine(i+1, u, now) + "\n")
		e.Buttons = append(e.Buttons, row(btn(fmt.Sprintf("%d. %s", i+1, u.Username), event.UserView, u.UUID)))
	}
	e.Text = strings.TrimRight(b.String(), "\n")
	e.Buttons = append(e.Buttons, row(menuBtn(session.KindUsers)))
	sess.Go(session.Done, session.KindUsers)
	return e
}
