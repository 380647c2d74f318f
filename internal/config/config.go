// Package config загружает конфигурацию бота из переменных окружения.
// Сначала подхватывается .env (если он есть), затем envconfig
// раскладывает переменные по полям структуры.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Config содержит ВСЕ настройки приложения. После Load не меняется.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	AdminIDsRaw      string  `envconfig:"ADMIN_USER_IDS"`
	AdminIDs         []int64 `ignored:"true"` // заполним вручную

	// --- Remnawave API ---
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"https://remna.st/api"`
	APIToken   string        `envconfig:"REMNAWAVE_API_TOKEN" required:"true"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"info"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Воркеры диспетчера: события одной сессии всегда попадают в один воркер.
	BotWorkers   int `envconfig:"BOT_WORKERS" default:"8"`
	BotQueueSize int `envconfig:"BOT_QUEUE_SIZE" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Dialog ---
	PageSize          int `envconfig:"PAGE_SIZE" default:"5"`
	DefaultExpireDays int `envconfig:"DEFAULT_EXPIRE_DAYS" default:"30"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Database (журнал действий) ---
	DBEnabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"remna"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"remna_admin"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"5"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`

	// --- Ops HTTP ---
	// Пустой адрес отключает /healthz и /metrics.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	// --- Daily report ---
	ReportEnabled    bool   `envconfig:"REPORT_ENABLED" default:"true"`
	ReportCron       string `envconfig:"REPORT_CRON" default:"0 9 * * *"`
	ReportExpireDays int    `envconfig:"REPORT_EXPIRE_DAYS" default:"3"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL должен быть http(s) URL, получено %q", c.APIBaseURL))
	}
	if len(c.AdminIDs) == 0 {
		errs = append(errs, errors.New("ADMIN_USER_IDS пуст: боту некого обслуживать"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("API_TIMEOUT должен быть > 0"))
	}
	if c.BotWorkers <= 0 {
		errs = append(errs, errors.New("BOT_WORKERS должен быть > 0"))
	}
	if c.BotQueueSize < 0 {
		errs = append(errs, errors.New("BOT_QUEUE_SIZE должен быть >= 0"))
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0"))
	}
	if c.PageSize < 1 || c.PageSize > 20 {
		errs = append(errs, errors.New("PAGE_SIZE должен быть от 1 до 20"))
	}
	if c.DefaultExpireDays <= 0 {
		errs = append(errs, errors.New("DEFAULT_EXPIRE_DAYS должен быть > 0"))
	}
	if c.DBEnabled && (c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns) {
		errs = append(errs, errors.New("некорректные DB_MIN_CONNS/DB_MAX_CONNS"))
	}
	if c.ReportEnabled {
		if _, err := cron.ParseStandard(c.ReportCron); err != nil {
			errs = append(errs, fmt.Errorf("REPORT_CRON: %w", err))
		}
		if c.ReportExpireDays < 0 {
			errs = append(errs, errors.New("REPORT_EXPIRE_DAYS должен быть >= 0"))
		}
	}
	return errors.Join(errs...)
}

// Load читает .env (если есть) и переменные окружения и заполняет структуру Config.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("не удалось прочитать .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_USER_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
