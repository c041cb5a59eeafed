// internal/database/client.go
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/config"
)

// ErrNotReady is returned for any request issued before the storage client
// finished initializing, or after initialization failed.
var ErrNotReady = errors.New("storage is not ready")

// Client owns the storage handle. It is constructed explicitly and passed to
// repositories and services; the outcome of Connect is recorded once.
type Client struct {
	cfg  config.DatabaseConfig
	mu   sync.RWMutex
	db   *gorm.DB
	err  error
	done chan struct{}
	once sync.Once
}

func NewClient(cfg config.DatabaseConfig) *Client {
	return &Client{
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// NewClientFromDB wraps an already opened and migrated connection.
func NewClientFromDB(db *gorm.DB) *Client {
	c := &Client{done: make(chan struct{})}
	c.once.Do(func() { c.finish(db, nil) })
	return c
}

// Connect opens the database, retrying a bounded number of times, and runs
// migrations. The result is recorded and returned; calling it again is a no-op
// that returns the recorded result.
func (c *Client) Connect(ctx context.Context) error {
	c.once.Do(func() {
		db, err := c.connectWithRetry(ctx)
		if err == nil {
			if err = RunMigrations(db.WithContext(ctx)); err != nil {
				Close(db)
				db = nil
			}
		}
		c.finish(db, err)
	})
	return c.Err()
}

func (c *Client) connectWithRetry(ctx context.Context) (*gorm.DB, error) {
	attempts := c.cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(c.cfg.RetryDelay) * time.Second

	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := Initialize(c.cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logrus.WithError(err).WithFields(logrus.Fields{
			"attempt": i,
			"max":     attempts,
		}).Warn("Failed to connect to database")

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", attempts, lastErr)
}

func (c *Client) finish(db *gorm.DB, err error) {
	c.mu.Lock()
	c.db = db
	c.err = err
	c.mu.Unlock()
	close(c.done)
}

// DB returns the live handle, or ErrNotReady while connecting or after a
// failed initialization.
func (c *Client) DB() (*gorm.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	select {
	case <-c.done:
	default:
		return nil, ErrNotReady
	}
	if c.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, c.err)
	}
	return c.db, nil
}

// Ready is closed once Connect has recorded its result.
func (c *Client) Ready() <-chan struct{} {
	return c.done
}

// Err returns the initialization failure, ErrNotReady while still
// connecting, or nil once ready.
func (c *Client) Err() error {
	select {
	case <-c.done:
	default:
		return ErrNotReady
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Client) Close() {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db != nil {
		Close(db)
	}
}
