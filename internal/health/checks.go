package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/redis/go-redis/v9"
)

// Backlogger is the view of the email queue the health check needs.
type Backlogger interface {
	Backlog() (queued, capacity int)
}

type Endpoints struct {
	DB            *sql.DB
	RedisClient   *redis.Client
	Notifications Backlogger
}

var errNotInitialized = errors.New("not initialized")

func ping(name string, timeout time.Duration, fn func(ctx context.Context) error) health.Config {
	return health.Config{
		Name:    name,
		Timeout: timeout,
		Check: func(ctx context.Context) error {
			if err := fn(ctx); err != nil {
				return fmt.Errorf("%s ping failed: %w", name, err)
			}
			return nil
		},
	}
}

// NewHealthHandler pings the live pools rather than dialing per request.
// A saturated email queue degrades the status without failing it.
func NewHealthHandler(version string, endpoints *Endpoints) (*health.Health, error) {
	checks := []health.Config{
		ping("database", 3*time.Second, func(ctx context.Context) error {
			if endpoints.DB == nil {
				return errNotInitialized
			}
			return endpoints.DB.PingContext(ctx)
		}),
		ping("redis", 2*time.Second, func(ctx context.Context) error {
			if endpoints.RedisClient == nil {
				return errNotInitialized
			}
			return endpoints.RedisClient.Ping(ctx).Err()
		}),
	}

	if endpoints.Notifications != nil {
		checks = append(checks, health.Config{
			Name:      "notification-queue",
			Timeout:   time.Second,
			SkipOnErr: true,
			Check: func(context.Context) error {
				queued, capacity := endpoints.Notifications.Backlog()
				if capacity > 0 && queued >= capacity {
					return fmt.Errorf("email queue full: %d/%d", queued, capacity)
				}
				return nil
			},
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{Name: "multivendor-marketplace", Version: version}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
