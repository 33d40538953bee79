package middleware

import (
	"context"
	"log"
	"path"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/queue"
	"github.com/iliyamo/posts-api/internal/repository"
	"github.com/iliyamo/posts-api/internal/service"
)

// Audit records one access-log entry per request: peer address, HTTP method
// and the last path segment. It runs outermost, before any auth strategy,
// and its outcome never affects the request. Events go to the broker when a
// publisher is available; otherwise they are written to the database
// directly, off the request goroutine. Failures are operator log noise.
func Audit(pub *service.AuditPublisher, logs *repository.LogRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ev := queue.AccessLogEvent{
				IP:         c.RealIP(),
				Method:     c.Request().Method,
				Route:      path.Base(c.Request().URL.Path),
				ObservedAt: time.Now().UTC().Format(time.RFC3339),
			}
			go record(pub, logs, ev)
			return next(c)
		}
	}
}

func record(pub *service.AuditPublisher, logs *repository.LogRepo, ev queue.AccessLogEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if pub != nil {
		if err := pub.Publish(ctx, ev); err == nil {
			return
		}
		// fall through to the direct write when the broker is down
	}
	if logs == nil {
		return
	}
	if err := logs.Insert(ctx, repository.AccessLog{
		IP:     ev.IP,
		Method: ev.Method,
		Route:  ev.Route,
	}); err != nil {
		log.Printf("audit: log write failed: %v", err)
	}
}
