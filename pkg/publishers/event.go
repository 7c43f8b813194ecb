package publishers

import (
	"encoding/json"
	"fmt"
	"time"
)

// Authentication event types.
const (
	EventLoginSucceeded = "login.succeeded"
	EventLoginFailed    = "login.failed"
	EventLogout         = "logout"
)

// eventTypeAttribute is the message attribute subscribers filter on.
const eventTypeAttribute = "event_type"

// Event represents the payload published downstream.
type Event struct {
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	Reason     string    `json:"reason,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event of typ for username.
func NewEvent(typ, username, sessionID string) Event {
	return Event{
		Type:       typ,
		Username:   username,
		SessionID:  sessionID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithReason returns a copy of e carrying reason.
func (e Event) WithReason(reason string) Event {
	e.Reason = reason
	return e
}

func (e Event) encode() ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return payload, nil
}

// reportDelivery logs the outcome of one send and wraps err with the action name.
func reportDelivery(log Logger, kind, id string, evt Event, action string, err error) error {
	if err != nil {
		log.ErrorObj(kind+" publisher send failed", "publisher_"+kind+"_error", map[string]any{
			"publisher_id": id,
			"event_type":   evt.Type,
			"error":        err.Error(),
		})
		return fmt.Errorf("%s: %w", action, err)
	}
	log.DebugObj(kind+" publisher delivered event", "publisher_"+kind+"_delivery", map[string]any{
		"publisher_id": id,
		"event_type":   evt.Type,
	})
	return nil
}
