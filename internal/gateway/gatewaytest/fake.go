// Package gatewaytest — подменный gateway.Caller для тестов: отвечает по
// заранее заданным маршрутам и записывает каждый вызов.
package gatewaytest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"serotonyl.ru/remna-admin-bot/internal/gateway"
)

// Call — один записанный вызов.
type Call struct {
	Verb gateway.Verb
	Path string
	Body any
}

func (c Call) String() string { return fmt.Sprintf("%s %s", c.Verb, c.Path) }

type reply struct {
	payload json.RawMessage
	err     error
}

// Fake реализует gateway.Caller. Маршрут без ответа возвращает ErrNotFound.
type Fake struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  []Call
}

func New() *Fake {
	return &Fake{routes: make(map[string]reply)}
}

func key(verb gateway.Verb, path string) string {
	return string(verb) + " " + strings.TrimLeft(path, "/")
}

// On задаёт JSON-ответ для verb+path.
func (f *Fake) On(verb gateway.Verb, path, payload string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[key(verb, path)] = reply{payload: json.RawMessage(payload)}
	return f
}

// Fail задаёт ошибку для verb+path.
func (f *Fake) Fail(verb gateway.Verb, path string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[key(verb, path)] = reply{err: err}
	return f
}

// Calls возвращает копию журнала вызовов.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Mutations — вызовы, меняющие состояние панели (всё, кроме Fetch).
func (f *Fake) Mutations() []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Verb != gateway.VerbFetch {
			out = append(out, c)
		}
	}
	return out
}

// Reset очищает журнал, маршруты остаются.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *Fake) call(verb gateway.Verb, path string, body any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Verb: verb, Path: strings.TrimLeft(path, "/"), Body: body})
	r, ok := f.routes[key(verb, path)]
	if !ok {
		return nil, &gateway.StatusError{Verb: verb, Path: path, Status: 404}
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.payload, nil
}

// Fetch сначала ищет маршрут с точной строкой запроса ("users?size=5&start=0"),
// затем маршрут без неё.
func (f *Fake) Fetch(_ context.Context, path string, query url.Values) (json.RawMessage, error) {
	if len(query) > 0 {
		full := path + "?" + query.Encode()
		f.mu.Lock()
		_, ok := f.routes[key(gateway.VerbFetch, full)]
		f.mu.Unlock()
		if ok {
			return f.call(gateway.VerbFetch, full, nil)
		}
	}
	return f.call(gateway.VerbFetch, path, nil)
}

func (f *Fake) Submit(_ context.Context, path string, body any) (json.RawMessage, error) {
	return f.call(gateway.VerbSubmit, path, body)
}

func (f *Fake) Modify(_ context.Context, path string, body any) (json.RawMessage, error) {
	return f.call(gateway.VerbModify, path, body)
}

func (f *Fake) Remove(_ context.Context, path string, _ url.Values) (json.RawMessage, error) {
	return f.call(gateway.VerbRemove, path, nil)
}

var _ gateway.Caller = (*Fake)(nil)
