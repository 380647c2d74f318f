package flow

import (
	"time"

	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/session"
	"serotonyl.ru/remna-admin-bot/internal/validate"
)

// StrategyChoices — варианты стратегии сброса трафика.
var StrategyChoices = []Choice{
	{Label: "NO_RESET - Без сброса", Value: gateway.StrategyNoReset},
	{Label: "DAY - Ежедневно", Value: gateway.StrategyDay},
	{Label: "WEEK - Еженедельно", Value: gateway.StrategyWeek},
	{Label: "MONTH - Ежемесячно", Value: gateway.StrategyMonth},
}

var strategy = validate.Choice(gateway.Strategies...)

// Режимы поиска пользователя.
const (
	SearchByUsername   = "username"
	SearchByUUID       = "uuid"
	SearchByTelegramID = "telegram"
	SearchByEmail      = "email"
	SearchByTag        = "tag"
)

// SearchModes — режимы поиска в порядке меню.
var SearchModes = []Choice{
	{Label: "👤 По имени", Value: SearchByUsername},
	{Label: "🆔 По UUID", Value: SearchByUUID},
	{Label: "📱 По Telegram ID", Value: SearchByTelegramID},
	{Label: "📧 По Email", Value: SearchByEmail},
	{Label: "🏷️ По тегу", Value: SearchByTag},
}

// EditableFields — поля пользователя, доступные для редактирования, в порядке меню.
var EditableFields = []Choice{
	{Label: "📅 Дата истечения", Value: "expireAt"},
	{Label: "📈 Лимит трафика", Value: "trafficLimitBytes"},
	{Label: "🔄 Стратегия сброса трафика", Value: "trafficLimitStrategy"},
	{Label: "📝 Описание", Value: "description"},
	{Label: "📱 Telegram ID", Value: "telegramId"},
	{Label: "📧 Email", Value: "email"},
	{Label: "🏷️ Тег", Value: "tag"},
	{Label: "📱 Лимит устройств", Value: "hwidDeviceLimit"},
}

// SearchQuery — аккумулятор потока поиска.
type SearchQuery struct {
	Mode  string
	Value any
}

// Catalog — все потоки бота. Неизменяем после создания.
type Catalog struct {
	CreateUser *FieldFlow[gateway.CreateUserRequest]
	CreateHost *FieldFlow[gateway.CreateHostRequest]
	BulkUpdate *FieldFlow[gateway.BulkUpdateRequest]
	// AddHwid — поток длины 1; UserUUID подставляет вызывающий.
	AddHwid *FieldFlow[gateway.HwidDeviceRequest]

	edit   map[string]*FieldFlow[gateway.UpdateUserRequest]
	search map[string]*FieldFlow[SearchQuery]
}

// NewCatalog строит потоки; expireDays — срок действия нового пользователя по умолчанию.
func NewCatalog(expireDays int) *Catalog {
	c := &Catalog{
		CreateUser: createUserFlow(expireDays),
		CreateHost: createHostFlow(),
		BulkUpdate: bulkUpdateFlow(),
		AddHwid:    addHwidFlow(),
		edit:       make(map[string]*FieldFlow[gateway.UpdateUserRequest]),
		search:     make(map[string]*FieldFlow[SearchQuery]),
	}
	for _, f := range editUserFields() {
		c.edit[f.Name] = &FieldFlow[gateway.UpdateUserRequest]{
			Flow:   session.FlowEditUser,
			Fields: []Field[gateway.UpdateUserRequest]{f},
		}
	}
	for _, f := range searchFields() {
		mode := f.Name
		c.search[mode] = &FieldFlow[SearchQuery]{
			Flow:   session.FlowSearchUser,
			Fields: []Field[SearchQuery]{f},
			Defaults: func(q *SearchQuery, _ time.Time) {
				q.Mode = mode
			},
		}
	}
	return c
}

// EditUser — поток длины 1 для поля field.
func (c *Catalog) EditUser(field string) (*FieldFlow[gateway.UpdateUserRequest], bool) {
	f, ok := c.edit[field]
	return f, ok
}

// Search — поток длины 1 для режима поиска mode.
func (c *Catalog) Search(mode string) (*FieldFlow[SearchQuery], bool) {
	f, ok := c.search[mode]
	return f, ok
}

// For возвращает поток, которым сейчас владеет сессия.
func (c *Catalog) For(sess *session.Session) (Plan, bool) {
	switch sess.PendingFlow {
	case session.FlowCreateUser:
		return c.CreateUser, true
	case session.FlowCreateHost:
		return c.CreateHost, true
	case session.FlowBulkUpdate:
		return c.BulkUpdate, true
	case session.FlowAddHwid:
		return c.AddHwid, true
	case session.FlowEditUser:
		if f, ok := c.EditUser(sess.FlowArg); ok {
			return f, true
		}
	case session.FlowSearchUser:
		if f, ok := c.Search(sess.FlowArg); ok {
			return f, true
		}
	}
	return nil, false
}

func createUserFlow(expireDays int) *FieldFlow[gateway.CreateUserRequest] {
	type req = gateway.CreateUserRequest
	return &FieldFlow[req]{
		Flow: session.FlowCreateUser,
		Fields: []Field[req]{
			{
				Name: "username", Required: true,
				Prompt:   "👤 Введите имя пользователя (6-34 символа: латиница, цифры, _ и -):",
				Validate: validate.Username,
				Assign:   func(r *req, v any) { r.Username = v.(string) },
			},
			{
				Name:     "trafficLimitStrategy",
				Prompt:   "🔄 Выберите стратегию сброса трафика:",
				Validate: strategy,
				Choices:  StrategyChoices,
				Assign:   func(r *req, v any) { r.TrafficLimitStrategy = v.(string) },
			},
			{
				Name:     "trafficLimitBytes",
				Prompt:   "📈 Введите лимит трафика в байтах (0 — безлимит):",
				Validate: validate.NonNegativeInt,
				Assign:   func(r *req, v any) { r.TrafficLimitBytes = v.(int64) },
			},
			{
				Name:     "expireAt",
				Prompt:   "📅 Введите дату истечения в формате YYYY-MM-DD (по умолчанию через " + common.PluralizeDays(expireDays) + "):",
				Validate: validate.Date,
				Assign:   func(r *req, v any) { r.ExpireAt = v.(time.Time) },
			},
			{
				Name:     "description",
				Prompt:   "📝 Введите описание:",
				Validate: validate.Text(255),
				Assign:   func(r *req, v any) { r.Description = v.(string) },
			},
			{
				Name:     "telegramId",
				Prompt:   "📱 Введите Telegram ID:",
				Validate: validate.Int,
				Assign:   func(r *req, v any) { r.TelegramID = ptr(v.(int64)) },
			},
			{
				Name:     "email",
				Prompt:   "📧 Введите Email:",
				Validate: validate.Email,
				Assign:   func(r *req, v any) { r.Email = v.(string) },
			},
			{
				Name:     "tag",
				Prompt:   "🏷️ Введите тег (A-Z, 0-9, _; до 16 символов):",
				Validate: validate.Tag,
				Assign:   func(r *req, v any) { r.Tag = v.(string) },
			},
			{
				Name:     "hwidDeviceLimit",
				Prompt:   "📱 Введите лимит устройств (0 — без ограничения):",
				Validate: validate.NonNegativeInt,
				Assign:   func(r *req, v any) { r.HwidDeviceLimit = ptr(v.(int64)) },
			},
		},
		Defaults: func(r *req, now time.Time) {
			r.TrafficLimitStrategy = gateway.StrategyNoReset
			r.ExpireAt = common.MidnightUTC(now).AddDate(0, 0, expireDays)
		},
	}
}

func editUserFields() []Field[gateway.UpdateUserRequest] {
	type req = gateway.UpdateUserRequest
	return []Field[req]{
		{
			Name: "expireAt", Required: true,
			Prompt:   "📅 Введите новую дату истечения в формате YYYY-MM-DD:",
			Validate: validate.Date,
			Assign:   func(r *req, v any) { r.ExpireAt = ptr(v.(time.Time)) },
		},
		{
			Name: "trafficLimitBytes", Required: true,
			Prompt:   "📈 Введите новый лимит трафика в байтах (0 — безлимит):",
			Validate: validate.NonNegativeInt,
			Assign:   func(r *req, v any) { r.TrafficLimitBytes = ptr(v.(int64)) },
		},
		{
			Name: "trafficLimitStrategy", Required: true,
			Prompt:   "🔄 Выберите новую стратегию сброса трафика:",
			Validate: strategy,
			Choices:  StrategyChoices,
			Assign:   func(r *req, v any) { r.TrafficLimitStrategy = v.(string) },
		},
		{
			Name: "description", Required: true,
			Prompt:   "📝 Введите новое описание:",
			Validate: validate.Text(255),
			Assign:   func(r *req, v any) { r.Description = ptr(v.(string)) },
		},
		{
			Name: "telegramId", Required: true,
			Prompt:   "📱 Введите новый Telegram ID:",
			Validate: validate.Int,
			Assign:   func(r *req, v any) { r.TelegramID = ptr(v.(int64)) },
		},
		{
			Name: "email", Required: true,
			Prompt:   "📧 Введите новый Email:",
			Validate: validate.Email,
			Assign:   func(r *req, v any) { r.Email = ptr(v.(string)) },
		},
		{
			Name: "tag", Required: true,
			Prompt:   "🏷️ Введите новый тег:",
			Validate: validate.Tag,
			Assign:   func(r *req, v any) { r.Tag = ptr(v.(string)) },
		},
		{
			Name: "hwidDeviceLimit", Required: true,
			Prompt:   "📱 Введите новый лимит устройств (0 — без ограничения):",
			Validate: validate.NonNegativeInt,
			Assign:   func(r *req, v any) { r.HwidDeviceLimit = ptr(v.(int64)) },
		},
	}
}

func createHostFlow() *FieldFlow[gateway.CreateHostRequest] {
	type req = gateway.CreateHostRequest
	return &FieldFlow[req]{
		Flow: session.FlowCreateHost,
		Fields: []Field[req]{
			{
				Name: "inboundUuid", Required: true,
				Prompt:   "🔌 Введите UUID inbound:",
				Validate: validate.UUID,
				Assign:   func(r *req, v any) { r.InboundUUID = v.(string) },
			},
			{
				Name: "remark", Required: true,
				Prompt:   "📝 Введите название хоста:",
				Validate: validate.Text(40),
				Assign:   func(r *req, v any) { r.Remark = v.(string) },
			},
			{
				Name: "address", Required: true,
				Prompt:   "🌐 Введите адрес хоста:",
				Validate: validate.Text(255),
				Assign:   func(r *req, v any) { r.Address = v.(string) },
			},
			{
				Name: "port", Required: true,
				Prompt:   "🔢 Введите порт (1-65535):",
				Validate: validate.Port,
				Assign:   func(r *req, v any) { r.Port = v.(int) },
			},
		},
	}
}

func bulkUpdateFlow() *FieldFlow[gateway.BulkUpdateRequest] {
	type req = gateway.BulkUpdateRequest
	return &FieldFlow[req]{
		Flow: session.FlowBulkUpdate,
		Fields: []Field[req]{
			{
				Name:     "trafficLimitBytes",
				Prompt:   "📈 Новый лимит трафика для всех пользователей в байтах (0 — безлимит):",
				Validate: validate.NonNegativeInt,
				Assign:   func(r *req, v any) { r.TrafficLimitBytes = ptr(v.(int64)) },
			},
			{
				Name:     "trafficLimitStrategy",
				Prompt:   "🔄 Новая стратегия сброса трафика для всех пользователей:",
				Validate: strategy,
				Choices:  StrategyChoices,
				Assign:   func(r *req, v any) { r.TrafficLimitStrategy = v.(string) },
			},
			{
				Name:     "expireAt",
				Prompt:   "📅 Новая дата истечения для всех пользователей (YYYY-MM-DD):",
				Validate: validate.Date,
				Assign:   func(r *req, v any) { r.ExpireAt = ptr(v.(time.Time)) },
			},
		},
	}
}

// MaxHwidLength — предел длины HWID при ручном добавлении.
const MaxHwidLength = 255

func addHwidFlow() *FieldFlow[gateway.HwidDeviceRequest] {
	type req = gateway.HwidDeviceRequest
	return &FieldFlow[req]{
		Flow: session.FlowAddHwid,
		Fields: []Field[req]{
			{
				Name: "hwid", Required: true,
				Prompt:   "📱 Введите HWID устройства:",
				Validate: validate.Text(MaxHwidLength),
				Assign:   func(r *req, v any) { r.Hwid = v.(string) },
			},
		},
	}
}

func searchFields() []Field[SearchQuery] {
	assign := func(q *SearchQuery, v any) { q.Value = v }
	return []Field[SearchQuery]{
		{
			Name: SearchByUsername, Required: true,
			Prompt:   "🔍 Введите имя пользователя для поиска:",
			Validate: validate.SearchTerm,
			Assign:   assign,
		},
		{
			Name: SearchByUUID, Required: true,
			Prompt:   "🔍 Введите UUID пользователя для поиска:",
			Validate: validate.UUID,
			Assign:   assign,
		},
		{
			Name: SearchByTelegramID, Required: true,
			Prompt:   "🔍 Введите Telegram ID пользователя для поиска:",
			Validate: validate.Int,
			Assign:   assign,
		},
		{
			Name: SearchByEmail, Required: true,
			Prompt:   "🔍 Введите Email пользователя для поиска:",
			Validate: validate.SearchTerm,
			Assign:   assign,
		},
		{
			Name: SearchByTag, Required: true,
			Prompt:   "🔍 Введите тег пользователя для поиска:",
			Validate: validate.SearchTerm,
			Assign:   assign,
		},
	}
}

func ptr[T any](v T) *T { return &v }
