package neohub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// hangUp makes the fake hub drop the connection instead of replying.
var hangUp = []byte("hang up")

type received struct {
	Type  MessageType
	Token string
	QueuedCommand
}

// fakeHub is a TLS websocket server speaking the hub protocol. handle is
// called for every command; a nil reply means the hub stays silent.
type fakeHub struct {
	srv *httptest.Server
	URL string

	mu       sync.Mutex
	received []received
}

func newFakeHub(t *testing.T, handle func(cmd QueuedCommand) []byte) *fakeHub {
	t.Helper()

	h := &fakeHub{}
	upgrader := websocket.Upgrader{}
	h.srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var req Request
			var inner innerRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return
			}
			if err := json.Unmarshal([]byte(req.Message), &inner); err != nil || len(inner.Commands) != 1 {
				return
			}
			h.mu.Lock()
			h.received = append(h.received, received{
				Type:          req.Type,
				Token:         inner.Token,
				QueuedCommand: inner.Commands[0],
			})
			h.mu.Unlock()

			reply := handle(inner.Commands[0])
			switch {
			case reply == nil:
				continue
			case bytes.Equal(reply, hangUp):
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
		}
	}))
	t.Cleanup(h.srv.Close)
	h.URL = "wss" + strings.TrimPrefix(h.srv.URL, "https")
	return h
}

func (h *fakeHub) Received() []received {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]received(nil), h.received...)
}

func reply(deviceID string, payload any) []byte {
	inner, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	b, err := json.Marshal(Response{
		CommandID: CommandID,
		DeviceID:  deviceID,
		Type:      CommandResponseMessageType,
		Response:  string(inner),
	})
	if err != nil {
		panic(err)
	}
	return b
}

// newDeafHub starts a TLS websocket server that accepts the upgrade and then
// never reads, so requests and close frames go unanswered.
func newDeafHub(t *testing.T) string {
	t.Helper()

	done := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		<-done
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(done) })
	return "wss" + strings.TrimPrefix(srv.URL, "https")
}
