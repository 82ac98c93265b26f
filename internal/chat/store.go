package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/internal/models"
)

// retryDelay is the one-shot delay used when a message subscription is
// requested before the socket exists. Shortened in tests.
var retryDelay = 2 * time.Second

// Store holds the chat view state: the user roster, the selected peer's
// conversation, and the online-user set. Live delivery comes from the
// Socket; history and sends go over REST.
type Store struct {
	backend *backend.Client
	logger  *logrus.Logger

	mu        sync.Mutex
	socket    *Socket
	rosterSub *Subscription
	msgSub    *Subscription
	retry     *time.Timer
	retryGen  int

	users    []models.User
	messages []models.Message
	selected *models.User
	online   map[string]bool

	onMessage func(models.Message)
}

// NewStore creates a chat store. The socket is attached later, once the
// user is authenticated.
func NewStore(b *backend.Client, logger *logrus.Logger) *Store {
	return &Store{
		backend: b,
		logger:  logger,
		online:  make(map[string]bool),
	}
}

// AttachSocket wires the live channel in. Presence updates are consumed
// for as long as the socket lives; message delivery still requires an
// explicit SubscribeToMessages.
func (s *Store) AttachSocket(sock *Socket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.socket = sock
	s.rosterSub = sock.Subscribe(func(event Event) {
		if event.Type != EventOnlineUsers {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.online = make(map[string]bool, len(event.UserIDs))
		for _, id := range event.UserIDs {
			s.online[id] = true
		}
	})
}

// DetachSocket drops the live channel, e.g. on logout.
func (s *Store) DetachSocket() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelRetryLocked()
	if s.msgSub != nil {
		s.msgSub.Close()
		s.msgSub = nil
	}
	if s.rosterSub != nil {
		s.rosterSub.Close()
		s.rosterSub = nil
	}
	s.socket = nil
	s.online = make(map[string]bool)
}

// SetOnMessage registers a hook invoked for every live message appended to
// the selected conversation. The CLI uses it to print incoming messages.
func (s *Store) SetOnMessage(fn func(models.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = fn
}

// Users loads the chat roster.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.backend.Get(ctx, "/messages/users", &users); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return users, nil
}

// SelectUser switches the conversation to the given peer and loads its
// history, replacing the message list. Passing nil deselects.
func (s *Store) SelectUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	s.selected = user
	s.messages = nil
	s.mu.Unlock()

	if user == nil {
		return nil
	}

	var history []models.Message
	if err := s.backend.Get(ctx, fmt.Sprintf("/messages/%s", user.ID), &history); err != nil {
		return err
	}

	s.mu.Lock()
	// Guard against a peer switch racing the fetch.
	if s.selected != nil && s.selected.ID == user.ID {
		s.messages = history
	}
	s.mu.Unlock()
	return nil
}

// Selected returns the current peer, or nil.
func (s *Store) Selected() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	user := *s.selected
	return &user
}

// Messages returns a snapshot of the current conversation.
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]models.Message, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

// IsOnline reports whether the given user is currently connected.
func (s *Store) IsOnline(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online[userID]
}

// Send posts a message to the selected peer and appends the backend's copy
// to the conversation. There is no optimistic pre-append; a failed send
// leaves the list untouched.
func (s *Store) Send(ctx context.Context, text, image string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && image == "" {
		return nil, backend.NewValidation("message text or image is required")
	}

	s.mu.Lock()
	peer := s.selected
	s.mu.Unlock()
	if peer == nil {
		return nil, backend.NewValidation("no conversation selected")
	}

	var sent models.Message
	err := s.backend.Post(ctx, fmt.Sprintf("/messages/send/%s", peer.ID), map[string]string{
		"text":  text,
		"image": image,
	}, &sent)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.selected != nil && s.selected.ID == peer.ID {
		s.messages = append(s.messages, sent)
	}
	s.mu.Unlock()
	return &sent, nil
}

// SubscribeToMessages attaches the live-delivery listener for the selected
// conversation. At most one subscription exists at a time; repeated calls
// are no-ops. If the socket is not attached yet, a single delayed retry is
// armed rather than failing.
func (s *Store) SubscribeToMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.msgSub != nil {
		return
	}
	if s.socket == nil {
		s.armRetryLocked()
		return
	}
	s.attachMessageHandlerLocked()
}

// armRetryLocked schedules one delayed subscribe attempt. The timer fires
// exactly once and never re-arms itself; if the socket still is not there
// when it fires, nothing happens until the next explicit
// SubscribeToMessages. Callers hold the mutex.
func (s *Store) armRetryLocked() {
	if s.retry != nil {
		return
	}
	s.logger.Debug("Chat socket not ready, retrying subscription once")
	gen := s.retryGen
	s.retry = time.AfterFunc(retryDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.retryGen {
			// Cancelled while this callback waited for the lock.
			return
		}
		s.retry = nil
		if s.msgSub == nil && s.socket != nil {
			s.attachMessageHandlerLocked()
		}
	})
}

// attachMessageHandlerLocked registers the live-delivery handler on the
// socket. Callers hold the mutex and have checked the socket exists.
func (s *Store) attachMessageHandlerLocked() {
	s.msgSub = s.socket.Subscribe(func(event Event) {
		if event.Type != EventNewMessage || event.Message == nil {
			return
		}
		s.mu.Lock()
		// Messages from peers other than the selected one are dropped,
		// not queued; switching peers reloads history anyway.
		if s.selected == nil || event.Message.SenderID != s.selected.ID {
			s.mu.Unlock()
			return
		}
		s.messages = append(s.messages, *event.Message)
		fn := s.onMessage
		s.mu.Unlock()

		if fn != nil {
			fn(*event.Message)
		}
	})
}

// UnsubscribeFromMessages detaches the live-delivery listener. Called on
// view teardown and before every peer switch so handlers never pile up.
func (s *Store) UnsubscribeFromMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelRetryLocked()
	if s.msgSub != nil {
		s.msgSub.Close()
		s.msgSub = nil
	}
}

// cancelRetryLocked stops any pending retry timer. Bumping the generation
// also invalidates a callback that has already fired and is waiting on the
// mutex, which Stop alone cannot reach.
func (s *Store) cancelRetryLocked() {
	s.retryGen++
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
}
