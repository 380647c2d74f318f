// Package conversation — конечный автомат диалога с администратором.
// Controller получает событие (нажатие или текст), по паре (состояние, событие)
// выбирает обработчик, при необходимости вызывает сборщик полей или ровно один
// удалённый вызов и возвращает новое состояние и экран для отрисовки.
package conversation

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/remna-admin-bot/internal/event"
	"serotonyl.ru/remna-admin-bot/internal/flow"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

// DefaultPageSize — пользователей на странице списка.
const DefaultPageSize = 5

// Recorder получает каждый завершённый изменяющий вызов API.
type Recorder interface {
	Record(ctx context.Context, sessionID int64, action, target string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, int64, string, string, error) {}

type handler func(ctx context.Context, sess *session.Session, sel event.Selection) Effect

// Controller — общий для всех сессий и без собственного изменяемого состояния:
// всё состояние живёт в session.Session, которую вызывающий держит под замком.
type Controller struct {
	api      *gateway.Remnawave
	flows    *flow.Catalog
	pageSize int
	now      func() time.Time
	audit    Recorder
	handlers map[event.Action]handler
}

// Option настраивает Controller.
type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.audit = r
		}
	}
}

// New создаёт контроллер поверх API-вызовов и каталога потоков.
func New(api gateway.Caller, flows *flow.Catalog, opts ...Option) *Controller {
	c := &Controller{
		api:      gateway.NewRemnawave(api),
		flows:    flows,
		pageSize: DefaultPageSize,
		now:      time.Now,
		audit:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handlers = map[event.Action]handler{
		event.Back:    c.back,
		event.Refresh: c.refresh,

		event.UsersList:     c.usersList,
		event.UsersNext:     c.usersNext,
		event.UsersPrev:     c.usersPrev,
		event.UserView:      c.userView,
		event.UserCreate:    c.userCreate,
		event.UserSearch:    c.userSearch,
		event.UserEdit:      c.userEdit,
		event.UserEditField: c.userEditField,
		event.UserHwid:      c.userHwid,
		event.UserHwidAdd:   c.userHwidAdd,
		event.UserStats:     c.userStats,

		event.NodesList:  c.nodesList,
		event.NodeView:   c.nodeView,
		event.NodesUsage: c.nodesUsage,

		event.HostsList:  c.hostsList,
		event.HostView:   c.hostView,
		event.HostCreate: c.hostCreate,

		event.InboundsList: c.inboundsList,
		event.InboundView:  c.inboundView,

		event.BulkUpdate: c.bulkUpdate,

		event.StatsSystem:    c.statsSystem,
		event.StatsBandwidth: c.statsBandwidth,
		event.StatsNodes:     c.statsNodes,
	}
	return c
}

// HandleEvent применяет событие к сессии и возвращает новое состояние и экран.
// Вызывающий обязан держать сессию заблокированной на время вызова.
func (c *Controller) HandleEvent(ctx context.Context, sess *session.Session, ev event.Event) (session.State, Effect) {
	from := sess.State

	var eff Effect
	switch e := ev.(type) {
	case event.Selection:
		eff = c.onSelection(ctx, sess, e)
	case event.Text:
		eff = c.onText(ctx, sess, e)
	default:
		eff = c.render(ctx, sess)
	}

	log.WithFields(log.Fields{
		"component":  "conversation",
		"session_id": sess.ID,
		"event":      describe(ev),
		"from":       from,
		"to":         sess.State,
	}).Debug("Переход состояния")

	return sess.State, eff
}

func describe(ev event.Event) string {
	switch e := ev.(type) {
	case event.Selection:
		return e.String()
	case event.Text:
		return "text"
	}
	return "unknown"
}

func (c *Controller) onSelection(ctx context.Context, sess *session.Session, sel event.Selection) Effect {
	// Глобальная навигация доступна из любого состояния и всегда сбрасывает поток.
	switch sel.Action {
	case event.MainMenu:
		sess.ClearFlow()
		sess.Go(session.MainMenu, session.KindNone)
		return mainMenu()
	case event.Menu:
		kind, ok := session.ParseKind(sel.Target)
		if !ok {
			return c.render(ctx, sess)
		}
		sess.ClearFlow()
		return c.openMenu(sess, kind)
	case event.Cancel:
		return c.cancel(ctx, sess)
	}

	switch sess.State {
	case session.ConfirmPending:
		if sel.Action == event.Confirm {
			return c.confirm(ctx, sess)
		}
		return c.abort(sess)

	case session.CollectingField, session.ChoiceField:
		switch sel.Action {
		case event.Skip:
			return c.input(ctx, sess, flow.SkipInput())
		case event.Choose:
			return c.input(ctx, sess, flow.ChoiceInput(sel.Target))
		}
		// Во время ввода прочие кнопки (например, со старых сообщений) игнорируются.
		return c.render(ctx, sess)
	}

	if sel.Action.Destructive() {
		return c.ask(ctx, sess, sel)
	}
	if h, ok := c.handlers[sel.Action]; ok {
		return h(ctx, sess, sel)
	}
	return c.render(ctx, sess)
}

func (c *Controller) onText(ctx context.Context, sess *session.Session, t event.Text) Effect {
	switch sess.State {
	case session.CollectingField, session.ChoiceField:
		return c.input(ctx, sess, flow.TextInput(t.Raw))
	case session.ConfirmPending:
		return c.abort(sess)
	}
	return c.render(ctx, sess)
}

// cancel: отмена подтверждения, отмена потока или шаг назад к меню раздела.
func (c *Controller) cancel(ctx context.Context, sess *session.Session) Effect {
	switch {
	case sess.State == session.ConfirmPending:
		return c.abort(sess)
	case userScoped(sess.PendingFlow) && sess.Subject != "":
		sess.ClearFlow()
		sess.Go(session.Detail, session.KindUsers)
		return card(sess).prefixed("🚫 Отменено.")
	case sess.InFlow():
		kind := flowOwner(sess.PendingFlow)
		sess.ClearFlow()
		return c.openMenu(sess, kind).prefixed("🚫 Отменено.")
	}
	return c.back(ctx, sess, event.Selection{})
}

func (c *Controller) back(_ context.Context, sess *session.Session, _ event.Selection) Effect {
	sess.ClearFlow()
	if sess.Menu == session.KindNone {
		sess.Go(session.MainMenu, session.KindNone)
		return mainMenu()
	}
	return c.openMenu(sess, sess.Menu)
}

func (c *Controller) refresh(ctx context.Context, sess *session.Session, _ event.Selection) Effect {
	return c.render(ctx, sess)
}

// render перерисовывает текущий экран, не меняя состояние, если данные доступны.
func (c *Controller) render(ctx context.Context, sess *session.Session) Effect {
	switch sess.State {
	case session.EntityMenu, session.Done:
		if sess.Menu != session.KindNone {
			return menuScreen(sess.Menu)
		}
	case session.Browsing:
		return c.browse(ctx, sess)
	case session.Detail:
		if sess.Subject != "" {
			return c.showDetail(ctx, sess, sess.Menu, sess.Subject, "")
		}
	case session.CollectingField, session.ChoiceField:
		return c.prompt(sess, nil)
	case session.ConfirmPending:
		return c.confirmPrompt(sess)
	}
	sess.Go(session.MainMenu, session.KindNone)
	return mainMenu()
}

// openMenu переводит сессию в меню раздела.
func (c *Controller) openMenu(sess *session.Session, kind session.Kind) Effect {
	if kind == session.KindNone {
		sess.Go(session.MainMenu, session.KindNone)
		return mainMenu()
	}
	sess.Go(session.EntityMenu, kind)
	return menuScreen(kind)
}

// failed — удалённый вызов не удался: сообщение и меню раздела.
func (c *Controller) failed(sess *session.Session, kind session.Kind, what string, err error) Effect {
	c.logFailure(sess, what, err)
	return c.openMenu(sess, kind).prefixed("❌ " + what)
}

func (c *Controller) logFailure(sess *session.Session, what string, err error) {
	log.WithFields(log.Fields{
		"component":  "conversation",
		"session_id": sess.ID,
		"outcome":    gateway.Outcome(err),
	}).WithError(err).Warn(what)
}

func (c *Controller) record(ctx context.Context, sess *session.Session, a event.Action, target string, err error) {
	c.audit.Record(ctx, sess.ID, a.String(), target, err)
}

// userScoped — поток над пользователем с открытой карточки; отмена возвращает к ней.
func userScoped(f session.Flow) bool {
	return f == session.FlowEditUser || f == session.FlowAddHwid
}

func flowOwner(f session.Flow) session.Kind {
	switch f {
	case session.FlowCreateHost:
		return session.KindHosts
	case session.FlowBulkUpdate:
		return session.KindBulk
	case session.FlowNone:
		return session.KindNone
	}
	return session.KindUsers
}
