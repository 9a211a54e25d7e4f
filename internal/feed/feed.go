// Package feed consumes the server's websocket push channel and fans
// messages out to handlers registered by (action, model) pair.
package feed

import (
	"encoding/json"
	"log"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// Message is one push-feed delivery. Data may be a single object or a
// batch; reconciliation decides.
type Message struct {
	Action string          `json:"action"`
	Model  string          `json:"model"`
	Data   json.RawMessage `json:"data"`
}

// Handler receives the payload of a matched message.
type Handler func(action, model string, data json.RawMessage)

type key struct {
	action string
	model  string
}

// wildcard matches any action for a model, used by the create/update/delete
// reconciliation rules that treat all three alike.
const wildcard = "*"

// Feed is a connected push-feed subscription. Handlers registered before
// Run are invoked from the read goroutine in arrival order.
type Feed struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[key][]Handler
	closed   chan struct{}
}

// Dial connects to the push endpoint, authenticating with the bearer token
// when present.
func Dial(endpoint, token string) (*Feed, error) {
	target := endpoint
	if token != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
		target = u.String()
	}
	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		return nil, err
	}
	log.Printf("feed connected endpoint=%s", endpoint)
	return &Feed{
		conn:     conn,
		handlers: make(map[key][]Handler),
		closed:   make(chan struct{}),
	}, nil
}

// On registers a handler for one (action, model) pair.
func (f *Feed) On(action, model string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key{action: action, model: model}
	f.handlers[k] = append(f.handlers[k], h)
}

// OnModel registers a handler for every action of a model.
func (f *Feed) OnModel(model string, h Handler) {
	f.On(wildcard, model, h)
}

// Run reads the socket until it closes or errors. Messages are dispatched
// in arrival order; each handler decides for itself whether the payload is
// relevant.
func (f *Feed) Run() {
	defer close(f.closed)
	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			log.Printf("feed disconnected error=%v", err)
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("feed decode failed error=%v", err)
			continue
		}
		f.dispatch(msg)
	}
}

func (f *Feed) dispatch(msg Message) {
	f.mu.Lock()
	exact := append([]Handler(nil), f.handlers[key{action: msg.Action, model: msg.Model}]...)
	any := append([]Handler(nil), f.handlers[key{action: wildcard, model: msg.Model}]...)
	f.mu.Unlock()

	for _, h := range exact {
		h(msg.Action, msg.Model, msg.Data)
	}
	for _, h := range any {
		h(msg.Action, msg.Model, msg.Data)
	}
}

// Done is closed once the read loop has exited.
func (f *Feed) Done() <-chan struct{} {
	return f.closed
}

func (f *Feed) Close() error {
	return f.conn.Close()
}
