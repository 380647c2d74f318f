// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт клиента API, журнал, контроллер диалога,
// фильтры, транспорт и фоновые задачи и собирает всё в один объект App.
package app

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"serotonyl.ru/remna-admin-bot/internal/audit"
	"serotonyl.ru/remna-admin-bot/internal/bot"
	"serotonyl.ru/remna-admin-bot/internal/bot/filters"
	"serotonyl.ru/remna-admin-bot/internal/common"
	"serotonyl.ru/remna-admin-bot/internal/config"
	"serotonyl.ru/remna-admin-bot/internal/conversation"
	"serotonyl.ru/remna-admin-bot/internal/db/postgres"
	"serotonyl.ru/remna-admin-bot/internal/flow"
	"serotonyl.ru/remna-admin-bot/internal/gateway"
	"serotonyl.ru/remna-admin-bot/internal/httpapi"
	"serotonyl.ru/remna-admin-bot/internal/jobs"
	"serotonyl.ru/remna-admin-bot/internal/session"
)

// App содержит все компоненты приложения. Необязательные части (DB,
// Scheduler, HTTP) равны nil, если выключены в конфиге.
type App struct {
	Bot       *bot.Bot
	BotAPI    *tgbotapi.BotAPI
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	HTTP      *httpapi.Server
}

// NewGateway — клиент Remnawave API с метриками.
func NewGateway(cfg *config.Config) *gateway.Client {
	return gateway.New(cfg.APIBaseURL, cfg.APIToken, cfg.APITimeout, gateway.WithMetrics())
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	// === 1. Журнал действий (необязательно) ===
	var recorder conversation.Recorder
	if cfg.DBEnabled {
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool, audit.Migrations); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		a.DB = pool
		recorder = audit.NewJournal(pool)
	} else {
		log.Info("Журнал действий выключен (DB_ENABLED=false)")
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	a.BotAPI = botAPI
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Диалог ===
	client := NewGateway(cfg)
	ctrl := conversation.New(client, flow.NewCatalog(cfg.DefaultExpireDays),
		conversation.WithPageSize(cfg.PageSize),
		conversation.WithRecorder(recorder),
	)

	// === 4. Транспорт ===
	a.Bot = bot.New(botAPI, ctrl, session.NewStore(), filters.NewAccessGuard(cfg.AdminIDs), bot.Options{
		Workers:           cfg.BotWorkers,
		QueueSize:         cfg.BotQueueSize,
		UpdateTimeout:     cfg.BotUpdateTimeoutSeconds,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	// === 5. Планировщик задач ===
	if cfg.ReportEnabled {
		report := jobs.NewReport(gateway.NewRemnawave(client), cfg.ReportExpireDays)
		a.Scheduler = jobs.NewScheduler(common.LoadLocation(cfg.AppTimezone), cfg.ReportCron, report, cfg.AdminIDs, a.Bot.SendMessageToUser)
	}

	// === 6. Служебный HTTP ===
	if cfg.MetricsAddr != "" {
		a.HTTP = httpapi.NewServer(cfg.MetricsAddr, httpapi.NewRouter(a.ready))
	}

	return a, nil
}

func (a *App) ready(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Ping(ctx)
}

// Run запускает бота и фоновые части и блокируется до отмены ctx
// или первой фатальной ошибки.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			a.Scheduler.Stop()
			return nil
		})
	}

	if a.HTTP != nil {
		g.Go(func() error { return a.HTTP.Run(ctx) })
	}

	g.Go(func() error {
		a.Bot.Start(ctx, a.BotAPI)
		if ctx.Err() == nil {
			return errors.New("поток апдейтов закрыт")
		}
		return nil
	})

	log.Info("=== Бот готов к работе ===")
	return g.Wait()
}

// Close освобождает ресурсы после Run: дожидается принятых апдейтов и закрывает пул.
func (a *App) Close() {
	if a.Bot != nil {
		a.Bot.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// RecentAudit открывает базу и читает последние записи журнала.
func RecentAudit(ctx context.Context, cfg *config.Config, limit int) ([]audit.Entry, error) {
	if !cfg.DBEnabled {
		return nil, errors.New("журнал выключен: DB_ENABLED=false")
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return audit.NewJournal(pool).Recent(ctx, limit)
}
