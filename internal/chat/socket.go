package chat

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/models"
)

// Event types pushed by the realtime channel.
const (
	EventNewMessage  = "newMessage"
	EventOnlineUsers = "onlineUsers"
)

// Event is one frame from the realtime channel.
type Event struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	UserIDs []string        `json:"user_ids,omitempty"`
}

// Handler receives events. Handlers run on the socket's read goroutine and
// must not block.
type Handler func(Event)

// Subscription is a cancellable handle on a registered handler.
type Subscription struct {
	socket *Socket
	id     int
	once   sync.Once
}

// Close detaches the handler. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.socket.mu.Lock()
		defer s.socket.mu.Unlock()
		delete(s.socket.handlers, s.id)
	})
}

// Socket is the live connection to the chat channel. It is opened once per
// authenticated session and fans incoming frames out to subscribers.
type Socket struct {
	conn   *websocket.Conn
	logger *logrus.Logger

	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the realtime channel, identifying the session with the
// user id and token in the query string.
func Dial(ctx context.Context, socketURL, userID, token string, logger *logrus.Logger) (*Socket, error) {
	u, err := url.Parse(socketURL)
	if err != nil {
		return nil, fmt.Errorf("invalid socket URL: %w", err)
	}
	q := u.Query()
	q.Set("user_id", userID)
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chat channel: %w", err)
	}

	s := &Socket{
		conn:     conn,
		logger:   logger,
		handlers: make(map[int]Handler),
		done:     make(chan struct{}),
	}
	go s.readLoop()

	logger.Info("Chat channel connected")
	return s, nil
}

// Subscribe registers a handler for every incoming event and returns the
// handle that detaches it.
func (s *Socket) Subscribe(h Handler) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.handlers[id] = h
	return &Subscription{socket: s, id: id}
}

// Done is closed when the connection has gone away.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// Close tears the connection down. Handlers stop receiving events.
func (s *Socket) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if err := s.conn.Close(); err != nil {
			s.logger.WithFields(logrus.Fields{"error": err}).Debug("Chat channel close")
		}
	})
}

// readLoop decodes frames and dispatches them until the connection drops.
func (s *Socket) readLoop() {
	for {
		var event Event
		if err := s.conn.ReadJSON(&event); err != nil {
			select {
			case <-s.done:
			default:
				s.logger.WithFields(logrus.Fields{"error": err}).Warn("Chat channel read failed")
				s.Close()
			}
			return
		}
		s.dispatch(event)
	}
}

func (s *Socket) dispatch(event Event) {
	s.mu.Lock()
	handlers := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}
