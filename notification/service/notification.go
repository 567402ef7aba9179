package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/notification/pkg/response"
)

const DEFAULT_TTL = 3 * time.Second

type entry struct {
	notification response.Notification
	timer        *time.Timer
}

// NotificationService keeps the active notifications in creation order. Each
// one expires after the TTL unless removed first; removal stops its timer.
type NotificationService struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries []entry
	now     func() time.Time
	closed  bool
}

func NewNotificationService(ttl time.Duration) *NotificationService {
	if ttl <= 0 {
		ttl = DEFAULT_TTL
	}
	return &NotificationService{ttl: ttl, now: time.Now}
}

func (s *NotificationService) Show(
	c context.Context,
	message string,
	severity response.Severity,
	description ...string,
) response.Notification {
	c, span := otel.Tracer.Start(c, "NotificationService Show")
	defer span.End()

	now := s.now()
	notification := response.Notification{
		ID:        uuid.New(),
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if len(description) > 0 {
		notification.Description = description[0]
	}

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "NotificationService Show").
		Str(constants.KEY_PROCESS, "showing notification").
		Object(constants.KEY_NOTIFICATION, notification).
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		logger.Warn().Msg("notification service closed, dropping notification")
		return notification
	}

	id := notification.ID
	timer := time.AfterFunc(s.ttl, func() {
		if s.remove(id) {
			logger.Trace().Msg("notification expired")
		}
	})
	s.entries = append(s.entries, entry{notification: notification, timer: timer})
	metrics.NotificationsActive.Set(float64(len(s.entries)))
	logger.Debug().Msg("showed notification")
	return notification
}

func (s *NotificationService) Success(c context.Context, message string, description ...string) response.Notification {
	return s.Show(c, message, response.SeveritySuccess, description...)
}

func (s *NotificationService) Error(c context.Context, message string, description ...string) response.Notification {
	return s.Show(c, message, response.SeverityError, description...)
}

func (s *NotificationService) Info(c context.Context, message string, description ...string) response.Notification {
	return s.Show(c, message, response.SeverityInfo, description...)
}

func (s *NotificationService) Warning(c context.Context, message string, description ...string) response.Notification {
	return s.Show(c, message, response.SeverityWarning, description...)
}

// Remove dismisses the notification with id. It reports whether the
// notification was still active.
func (s *NotificationService) Remove(c context.Context, id uuid.UUID) bool {
	_, span := otel.Tracer.Start(c, "NotificationService Remove")
	defer span.End()

	return s.remove(id)
}

func (s *NotificationService) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.notification.ID != id {
			continue
		}
		e.timer.Stop()
		s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
		metrics.NotificationsActive.Set(float64(len(s.entries)))
		return true
	}
	return false
}

// Active returns the notifications currently shown, oldest first.
func (s *NotificationService) Active() []response.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]response.Notification, 0, len(s.entries))
	for _, e := range s.entries {
		active = append(active, e.notification)
	}
	return active
}

// Close stops every pending expiry. Notifications shown afterwards are dropped.
func (s *NotificationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.timer.Stop()
	}
	s.entries = nil
	s.closed = true
	metrics.NotificationsActive.Set(0)
}
