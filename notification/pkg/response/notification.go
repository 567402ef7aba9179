package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

type Notification struct {
	ID          uuid.UUID `json:"id"`
	Message     string    `json:"message"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (n Notification) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", n.ID.String()).Str("severity", string(n.Severity)).Str("message", n.Message)
}
