// Package gateway — единая точка вызова Remnawave API.
// client.go реализует четыре глагола (Fetch, Submit, Modify, Remove):
// bearer-токен, JSON-тело, распаковка конверта {"response": ...}.
//
// Любой сбой (сеть, не-2xx, битый JSON) превращается в nil-результат плюс ошибку,
// которую можно залогировать. Повторов нет: что показать администратору, решает вызывающий.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// maxErrorBody — сколько байт тела ошибки сохраняем в лог.
const maxErrorBody = 512

// Verb — один из четырёх унифицированных вызовов.
type Verb string

const (
	VerbFetch  Verb = "fetch"
	VerbSubmit Verb = "submit"
	VerbModify Verb = "modify"
	VerbRemove Verb = "remove"
)

// method возвращает HTTP-метод для глагола.
func (v Verb) method() string {
	switch v {
	case VerbSubmit:
		return http.MethodPost
	case VerbModify:
		return http.MethodPatch
	case VerbRemove:
		return http.MethodDelete
	default:
		return http.MethodGet
	}
}

// Client вызывает Remnawave API. Базовый URL и токен неизменяемы после создания,
// поэтому Client безопасно делить между горутинами.
type Client struct {
	rc      *resty.Client
	metrics *metrics
}

// Option настраивает Client.
type Option func(*Client)

// WithTransport подменяет http.RoundTripper (тесты, прокси).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.rc.SetTransport(rt) }
}

// WithMetrics включает Prometheus-метрики вызовов.
func WithMetrics() Option {
	return func(c *Client) { c.metrics = globalMetrics() }
}

// New создаёт клиент API.
func New(baseURL, token string, timeout time.Duration, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(log.WithField("component", "gateway"))

	c := &Client{rc: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch — GET path?query.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, VerbFetch, path, query, nil)
}

// Submit — POST path с JSON-телом (body может быть nil).
func (c *Client) Submit(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, VerbSubmit, path, nil, body)
}

// Modify — PATCH path с JSON-телом.
func (c *Client) Modify(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, VerbModify, path, nil, body)
}

// Remove — DELETE path?query.
func (c *Client) Remove(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, VerbRemove, path, query, nil)
}

func (c *Client) do(ctx context.Context, verb Verb, path string, query url.Values, body any) (payload json.RawMessage, err error) {
	started := time.Now()
	defer func() { c.metrics.observe(verb, err, time.Since(started)) }()

	req := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		// кодируем сами: ошибка кодирования не должна выглядеть как сбой сети
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: кодирование тела %s: %v", ErrMalformed, path, err)
		}
		req.SetBody(raw)
	}

	logger := log.WithFields(log.Fields{
		"component": "gateway",
		"verb":      verb,
		"path":      path,
	})
	logger.Debug("API request")

	resp, err := req.Execute(verb.method(), "/"+strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, verb.method(), path, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &StatusError{
			Verb:   verb,
			Path:   path,
			Status: resp.StatusCode(),
			Body:   truncate(resp.Body(), maxErrorBody),
		}
	}

	logger.WithField("status", resp.StatusCode()).Debug("API response")
	return unwrap(resp.Body(), path)
}

// unwrap снимает конверт {"response": ...}, если он есть, иначе отдаёт JSON как есть.
func unwrap(raw []byte, path string) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		// 2xx без тела — успешный вызов без полезной нагрузки.
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %s: ответ не является JSON", ErrMalformed, path)
	}

	var envelope map[string]json.RawMessage
	if raw[0] == '{' && json.Unmarshal(raw, &envelope) == nil {
		if inner, ok := envelope["response"]; ok {
			return inner, nil
		}
	}
	return json.RawMessage(raw), nil
}

// Decode разбирает полезную нагрузку в тип T.
func Decode[T any](payload json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
