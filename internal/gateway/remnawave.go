package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// usageTimeLayout — формат границ диапазона статистики (всегда UTC).
const usageTimeLayout = "2006-01-02T15:04:05.000Z"

// Caller — унифицированный контракт вызова API. *Client реализует его,
// тесты подставляют свою запись вызовов.
type Caller interface {
	Fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	Submit(ctx context.Context, path string, body any) (json.RawMessage, error)
	Modify(ctx context.Context, path string, body any) (json.RawMessage, error)
	Remove(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}

var _ Caller = (*Client)(nil)

// Действия над пользователем (users/{uuid}/actions/...).
const (
	UserActionDisable      = "disable"
	UserActionEnable       = "enable"
	UserActionResetTraffic = "reset-traffic"
	UserActionRevoke       = "revoke"
)

// Действия над нодой и хостом.
const (
	ActionEnable  = "enable"
	ActionDisable = "disable"
	ActionRestart = "restart"
)

// Массовые операции над inbound.
const (
	InboundAddToUsers      = "add-to-users"
	InboundRemoveFromUsers = "remove-from-users"
	InboundAddToNodes      = "add-to-nodes"
	InboundRemoveFromNodes = "remove-from-nodes"
)

// Remnawave — типизированный каталог эндпоинтов поверх четырёх глаголов.
// Каждый метод — ровно один удалённый вызов.
type Remnawave struct {
	c Caller
}

func NewRemnawave(c Caller) *Remnawave {
	return &Remnawave{c: c}
}

func fetchAs[T any](ctx context.Context, c Caller, path string, query url.Values) (T, error) {
	payload, err := c.Fetch(ctx, path, query)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](payload)
}

// fetchEntity — как fetchAs, но пустой ответ на запрос одной сущности считается сбоем.
func fetchEntity[T any](ctx context.Context, c Caller, path string) (T, error) {
	payload, err := c.Fetch(ctx, path, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEntity[T](payload, path)
}

// decodeEntity требует непустую полезную нагрузку: 2xx без тела или {"response":null}
// не должен превращаться в пустого пользователя или хост.
func decodeEntity[T any](payload json.RawMessage, path string) (T, error) {
	if p := bytes.TrimSpace(payload); len(p) == 0 || bytes.Equal(p, []byte("null")) {
		var zero T
		return zero, fmt.Errorf("%w: %s: пустой ответ", ErrMalformed, path)
	}
	return Decode[T](payload)
}

// ---- users ----

func (r *Remnawave) Users(ctx context.Context, start, size int) (UserPage, error) {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("size", strconv.Itoa(size))
	return fetchAs[UserPage](ctx, r.c, "users", q)
}

func (r *Remnawave) User(ctx context.Context, uuid string) (User, error) {
	return fetchEntity[User](ctx, r.c, "users/"+uuid)
}

func (r *Remnawave) UserByUsername(ctx context.Context, username string) (User, error) {
	return fetchEntity[User](ctx, r.c, "users/by-username/"+url.PathEscape(username))
}

func (r *Remnawave) UsersByTelegramID(ctx context.Context, id int64) ([]User, error) {
	return fetchAs[[]User](ctx, r.c, "users/by-telegram-id/"+strconv.FormatInt(id, 10), nil)
}

func (r *Remnawave) UsersByEmail(ctx context.Context, email string) ([]User, error) {
	return fetchAs[[]User](ctx, r.c, "users/by-email/"+url.PathEscape(email), nil)
}

func (r *Remnawave) UsersByTag(ctx context.Context, tag string) ([]User, error) {
	return fetchAs[[]User](ctx, r.c, "users/by-tag/"+url.PathEscape(tag), nil)
}

func (r *Remnawave) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	payload, err := r.c.Submit(ctx, "users", req)
	if err != nil {
		return User{}, err
	}
	return decodeEntity[User](payload, "users")
}

func (r *Remnawave) UpdateUser(ctx context.Context, req UpdateUserRequest) (User, error) {
	payload, err := r.c.Modify(ctx, "users", req)
	if err != nil {
		return User{}, err
	}
	return decodeEntity[User](payload, "users")
}

func (r *Remnawave) DeleteUser(ctx context.Context, uuid string) error {
	_, err := r.c.Remove(ctx, "users/"+uuid, nil)
	return err
}

// UserAction — disable, enable, reset-traffic, revoke.
func (r *Remnawave) UserAction(ctx context.Context, uuid, action string) error {
	_, err := r.c.Submit(ctx, "users/"+uuid+"/actions/"+action, nil)
	return err
}

// ---- bulk ----

func (r *Remnawave) ResetAllTraffic(ctx context.Context) error {
	_, err := r.c.Submit(ctx, "users/bulk/all/reset-traffic", nil)
	return err
}

func (r *Remnawave) DeleteUsersByStatus(ctx context.Context, status string) error {
	_, err := r.c.Submit(ctx, "users/bulk/delete-by-status", map[string]string{"status": status})
	return err
}

func (r *Remnawave) BulkUpdateUsers(ctx context.Context, req BulkUpdateRequest) error {
	_, err := r.c.Submit(ctx, "users/bulk/all/update", req)
	return err
}

// ---- hwid / usage ----

// UserHwidDevices — устройства пользователя.
func (r *Remnawave) UserHwidDevices(ctx context.Context, uuid string) (HwidDevices, error) {
	return fetchAs[HwidDevices](ctx, r.c, "hwid/devices/"+uuid, nil)
}

func (r *Remnawave) AddHwidDevice(ctx context.Context, req HwidDeviceRequest) error {
	_, err := r.c.Submit(ctx, "hwid/devices", req)
	return err
}

func (r *Remnawave) DeleteHwidDevice(ctx context.Context, req HwidDeviceRequest) error {
	_, err := r.c.Submit(ctx, "hwid/devices/delete", req)
	return err
}

// UserUsage — трафик пользователя по нодам за [start, end].
func (r *Remnawave) UserUsage(ctx context.Context, uuid string, start, end time.Time) ([]UserUsage, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(usageTimeLayout))
	q.Set("end", end.UTC().Format(usageTimeLayout))
	return fetchAs[[]UserUsage](ctx, r.c, "users/stats/usage/"+uuid+"/range", q)
}

// ---- nodes ----

func (r *Remnawave) Nodes(ctx context.Context) ([]Node, error) {
	return fetchAs[[]Node](ctx, r.c, "nodes", nil)
}

func (r *Remnawave) Node(ctx context.Context, uuid string) (Node, error) {
	return fetchEntity[Node](ctx, r.c, "nodes/"+uuid)
}

// NodeAction — enable, disable, restart.
func (r *Remnawave) NodeAction(ctx context.Context, uuid, action string) error {
	_, err := r.c.Submit(ctx, "nodes/"+uuid+"/actions/"+action, nil)
	return err
}

func (r *Remnawave) RestartAllNodes(ctx context.Context) error {
	_, err := r.c.Submit(ctx, "nodes/actions/restart-all", nil)
	return err
}

func (r *Remnawave) DeleteNode(ctx context.Context, uuid string) error {
	_, err := r.c.Remove(ctx, "nodes/"+uuid, nil)
	return err
}

func (r *Remnawave) NodesRealtimeUsage(ctx context.Context) ([]NodeRealtimeUsage, error) {
	return fetchAs[[]NodeRealtimeUsage](ctx, r.c, "nodes/usage/realtime", nil)
}

// ---- hosts ----

func (r *Remnawave) Hosts(ctx context.Context) ([]Host, error) {
	return fetchAs[[]Host](ctx, r.c, "hosts", nil)
}

func (r *Remnawave) Host(ctx context.Context, uuid string) (Host, error) {
	return fetchEntity[Host](ctx, r.c, "hosts/"+uuid)
}

func (r *Remnawave) CreateHost(ctx context.Context, req CreateHostRequest) (Host, error) {
	payload, err := r.c.Submit(ctx, "hosts", req)
	if err != nil {
		return Host{}, err
	}
	return decodeEntity[Host](payload, "hosts")
}

// HostAction — enable, disable.
func (r *Remnawave) HostAction(ctx context.Context, uuid, action string) error {
	_, err := r.c.Submit(ctx, "hosts/"+uuid+"/actions/"+action, nil)
	return err
}

func (r *Remnawave) DeleteHost(ctx context.Context, uuid string) error {
	_, err := r.c.Remove(ctx, "hosts/"+uuid, nil)
	return err
}

// ---- inbounds ----

func (r *Remnawave) Inbounds(ctx context.Context) ([]Inbound, error) {
	return fetchAs[[]Inbound](ctx, r.c, "inbounds", nil)
}

// InboundsFull — inbound вместе со счётчиками пользователей и нод.
func (r *Remnawave) InboundsFull(ctx context.Context) ([]Inbound, error) {
	return fetchAs[[]Inbound](ctx, r.c, "inbounds/full", nil)
}

// InboundBulk — add-to-users, remove-from-users, add-to-nodes, remove-from-nodes.
func (r *Remnawave) InboundBulk(ctx context.Context, op, inboundUUID string) error {
	_, err := r.c.Submit(ctx, "inbounds/bulk/"+op, map[string]string{"inboundUuid": inboundUUID})
	return err
}

// ---- system ----

func (r *Remnawave) SystemStats(ctx context.Context) (SystemStats, error) {
	return fetchAs[SystemStats](ctx, r.c, "system/stats", nil)
}

func (r *Remnawave) BandwidthStats(ctx context.Context) (BandwidthStats, error) {
	return fetchAs[BandwidthStats](ctx, r.c, "system/stats/bandwidth", nil)
}

func (r *Remnawave) NodesStats(ctx context.Context) (NodesStats, error) {
	return fetchAs[NodesStats](ctx, r.c, "system/stats/nodes", nil)
}
