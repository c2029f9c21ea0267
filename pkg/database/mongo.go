package database

import (
	"context"
	"regexp"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

// State describes the lifecycle of the shared MongoDB connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

// Snapshot is a point-in-time view of the connection state, exposed by
// the health endpoint.
type Snapshot struct {
	Connected       bool       `json:"connected"`
	ReadyState      string     `json:"readyState"`
	Error           string     `json:"error,omitempty"`
	LastConnectedAt *time.Time `json:"lastConnectedAt,omitempty"`
}

type Config struct {
	URI       string
	DBName    string
	RetryWait time.Duration
}

// Mongo is the process-wide managed MongoDB handle. The connection is
// established by a single background loop with fixed-delay retry;
// callers check readiness through Database() instead of assuming a
// live connection.
type Mongo struct {
	cfg    Config
	logger *logger.Logger

	mu              sync.RWMutex
	client          *mongo.Client
	db              *mongo.Database
	state           State
	lastErr         error
	lastConnectedAt *time.Time

	cancel context.CancelFunc
}

func NewMongo(cfg Config, l *logger.Logger) *Mongo {
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 5 * time.Second
	}
	return &Mongo{cfg: cfg, logger: l, state: StateDisconnected}
}

// Start launches the reconnect loop. It returns immediately; the
// server keeps handling requests while the store is unavailable.
func (m *Mongo) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()
	go m.connectLoop(ctx)
}

func (m *Mongo) connectLoop(ctx context.Context) {
	for {
		m.setState(StateConnecting, nil)
		if m.logger != nil {
			m.logger.Infof("Connecting to MongoDB %s (db=%s)", Redact(m.cfg.URI), m.cfg.DBName)
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := mongo.Connect(connectCtx, options.Client().
			ApplyURI(m.cfg.URI).
			SetServerSelectionTimeout(5*time.Second))
		if err == nil {
			err = client.Ping(connectCtx, readpref.Primary())
		}
		cancel()

		if err == nil {
			now := time.Now()
			m.mu.Lock()
			m.client = client
			m.db = client.Database(m.cfg.DBName)
			m.state = StateConnected
			m.lastErr = nil
			m.lastConnectedAt = &now
			m.mu.Unlock()
			if m.logger != nil {
				m.logger.Infof("MongoDB connected")
			}
			return
		}

		m.setState(StateError, err)
		if m.logger != nil {
			m.logger.Errorf("MongoDB connection error: %s", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.RetryWait):
		}
	}
}

// Database returns the connected database handle, or
// ErrStoreUnavailable while the connection is down.
func (m *Mongo) Database() (*mongo.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateConnected || m.db == nil {
		return nil, whatsapp_errors.ErrStoreUnavailable
	}
	return m.db, nil
}

func (m *Mongo) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	state := m.state
	m.mu.RUnlock()
	if state != StateConnected || client == nil {
		return whatsapp_errors.ErrStoreUnavailable
	}
	return client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Status() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Connected:       m.state == StateConnected,
		ReadyState:      m.state.String(),
		LastConnectedAt: m.lastConnectedAt,
	}
	if m.lastErr != nil {
		snap.Error = m.lastErr.Error()
	}
	return snap
}

func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	client := m.client
	m.client = nil
	m.db = nil
	m.state = StateDisconnected
	m.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (m *Mongo) setState(s State, err error) {
	m.mu.Lock()
	m.state = s
	m.lastErr = err
	m.mu.Unlock()
}

var credentialsRe = regexp.MustCompile(`(mongodb(?:\+srv)?://)([^:/@]+):([^@]+)@`)

// Redact masks the password portion of a connection string so it can
// be logged safely.
func Redact(uri string) string {
	return credentialsRe.ReplaceAllString(uri, "${1}${2}:****@")
}
