package app

import (
	"context"
	"fmt"
	"sync"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/admin"
	"github.com/meetmart/meetmart/internal/auth"
	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/internal/cart"
	"github.com/meetmart/meetmart/internal/catalog"
	"github.com/meetmart/meetmart/internal/chat"
	"github.com/meetmart/meetmart/internal/config"
	"github.com/meetmart/meetmart/internal/metrics"
	"github.com/meetmart/meetmart/internal/orders"
	"github.com/meetmart/meetmart/internal/payment"
	"github.com/meetmart/meetmart/internal/repository"
	filerepo "github.com/meetmart/meetmart/internal/repository/file"
	"github.com/meetmart/meetmart/internal/repository/memory"
	pgrepo "github.com/meetmart/meetmart/internal/repository/postgres"
	redisrepo "github.com/meetmart/meetmart/internal/repository/redis"
)

// App is the application context: configuration, logger, persistence and
// every client component, wired once and passed to command handlers.
type App struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Registry *prometheus.Registry

	Backend  *backend.Client
	Session  *auth.Session
	Cart     *cart.Store
	Catalog  *catalog.Client
	Orders   *orders.Client
	Payments *payment.Client
	Chat     *chat.Store
	Admin    *admin.Console

	Prefs repository.PreferenceRepository

	db    *config.Database
	redis *goredis.Client

	mu     sync.Mutex
	socket *chat.Socket
}

// New builds the application context. notify receives the transient cart
// notifications; pass nil to drop them.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger, notify cart.NotifyFunc) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	cartRepo, sessionRepo, prefRepo, err := a.buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Prefs = prefRepo

	m := metrics.New(a.Registry)

	// The backend client pulls its token from the session store, which is
	// created right after; the closure breaks the construction cycle.
	var session *auth.Session
	a.Backend = backend.New(cfg.APIBaseURL, cfg.AuthHeader, func() string {
		if session == nil {
			return ""
		}
		return session.Token()
	}, logger, m)

	session, err = auth.NewSession(ctx, sessionRepo, a.Backend, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Session = session

	a.Cart, err = cart.NewStore(ctx, cartRepo, notify, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Catalog = catalog.New(a.Backend)
	a.Orders = orders.New(a.Backend)
	a.Payments = payment.New(a.Backend, cfg.Currency, logger)
	a.Chat = chat.NewStore(a.Backend, logger)
	a.Admin = admin.New(a.Backend)

	return a, nil
}

// buildRepositories constructs the persistence layer named by STATE_BACKEND.
func (a *App) buildRepositories(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.CartRepository, repository.SessionRepository, repository.PreferenceRepository, error) {
	switch cfg.StateBackend {
	case config.StateBackendMemory:
		return memory.NewCartRepository(), memory.NewSessionRepository(), memory.NewPreferenceRepository(), nil

	case config.StateBackendFile:
		cartRepo, err := filerepo.NewCartRepository(cfg.StateDir)
		if err != nil {
			return nil, nil, nil, err
		}
		sessionRepo, err := filerepo.NewSessionRepository(cfg.StateDir)
		if err != nil {
			return nil, nil, nil, err
		}
		prefRepo, err := filerepo.NewPreferenceRepository(cfg.StateDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return cartRepo, sessionRepo, prefRepo, nil

	case config.StateBackendPostgres:
		db, err := config.NewDatabase(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate("migrations"); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		a.db = db
		return pgrepo.NewCartRepository(db.DB), pgrepo.NewSessionRepository(db.DB), pgrepo.NewPreferenceRepository(db.DB), nil

	case config.StateBackendRedis:
		client, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		a.redis = client
		return redisrepo.NewCartRepository(client), redisrepo.NewSessionRepository(client), redisrepo.NewPreferenceRepository(client), nil
	}
	return nil, nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

// ConnectChat opens the realtime channel for the logged-in user. No-op if
// already connected.
func (a *App) ConnectChat(ctx context.Context) error {
	user := a.Session.Current()
	if user == nil {
		return backend.NewValidation("log in before opening chat")
	}
	if a.Config.SocketURL == "" {
		return backend.NewValidation("SOCKET_URL is not configured")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.socket != nil {
		return nil
	}

	sock, err := chat.Dial(ctx, a.Config.SocketURL, user.ID, a.Session.Token(), a.Logger)
	if err != nil {
		return err
	}
	a.socket = sock
	a.Chat.AttachSocket(sock)
	return nil
}

// DisconnectChat tears the realtime channel down, if open.
func (a *App) DisconnectChat() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.socket == nil {
		return
	}
	a.Chat.DetachSocket()
	a.socket.Close()
	a.socket = nil
}

// Logout clears the session and closes the chat channel.
func (a *App) Logout(ctx context.Context) error {
	a.DisconnectChat()
	return a.Session.Logout(ctx)
}

// HandleAuthFailure reacts to a rejected token on an auth-gated call:
// the session is forced out so the next command starts from a clean login.
// Returns true when the error was an auth failure.
func (a *App) HandleAuthFailure(ctx context.Context, err error) bool {
	if backend.IsKind(err, backend.KindUnauthorized) || backend.IsKind(err, backend.KindForbidden) {
		a.DisconnectChat()
		a.Session.ForceLogout(ctx)
		return true
	}
	return false
}

// Close releases external resources.
func (a *App) Close() {
	a.DisconnectChat()
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
