package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/pkg/logger"
)

var upgrader = websocket.Upgrader{}

// startChannel runs a websocket endpoint that hands each accepted
// connection to serve.
func startChannel(t *testing.T, serve func(r *http.Request, conn *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		serve(r, conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDialIdentifiesSession(t *testing.T) {
	identified := make(chan struct{})
	url := startChannel(t, func(r *http.Request, conn *websocket.Conn) {
		assert.Equal(t, "user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "tok-1", r.URL.Query().Get("token"))
		close(identified)
	})

	sock, err := Dial(context.Background(), url, "user-1", "tok-1", logger.Discard())
	require.NoError(t, err)
	defer sock.Close()

	select {
	case <-identified:
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the handshake")
	}
}

func TestSubscribersReceiveFrames(t *testing.T) {
	url := startChannel(t, func(r *http.Request, conn *websocket.Conn) {
		// Repeat until the client hangs up so the frame cannot slip past a
		// subscriber that registers after the handshake.
		for {
			if err := conn.WriteJSON(Event{
				Type:    EventNewMessage,
				Message: &models.Message{ID: "m1", SenderID: "peer-1", Text: "hello"},
			}); err != nil {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
	})

	sock, err := Dial(context.Background(), url, "user-1", "tok-1", logger.Discard())
	require.NoError(t, err)
	defer sock.Close()

	got := make(chan Event, 1)
	sub := sock.Subscribe(func(e Event) { got <- e })
	defer sub.Close()

	select {
	case e := <-got:
		assert.Equal(t, EventNewMessage, e.Type)
		require.NotNil(t, e.Message)
		assert.Equal(t, "hello", e.Message.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("frame never arrived")
	}
}

func TestClosedSubscriptionStopsReceiving(t *testing.T) {
	sock := bareSocket()
	got := 0
	sub := sock.Subscribe(func(Event) { got++ })

	sock.dispatch(Event{Type: EventOnlineUsers})
	sub.Close()
	sub.Close() // idempotent
	sock.dispatch(Event{Type: EventOnlineUsers})

	assert.Equal(t, 1, got)
}

func TestDoneSignalsConnectionLoss(t *testing.T) {
	url := startChannel(t, func(r *http.Request, conn *websocket.Conn) {
		// Drop the connection straight away.
	})

	sock, err := Dial(context.Background(), url, "user-1", "tok-1", logger.Discard())
	require.NoError(t, err)

	select {
	case <-sock.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done never closed after the server hung up")
	}
}

func TestDialRejectsBadURL(t *testing.T) {
	_, err := Dial(context.Background(), "://not-a-url", "user-1", "tok-1", logger.Discard())
	require.Error(t, err)
}
