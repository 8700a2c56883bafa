package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTeamCreated   EventType = "team_created"
	EventTeamUpdated   EventType = "team_updated"
	EventTeamDeleted   EventType = "team_deleted"
	EventMemberAdded   EventType = "member_added"
	EventMemberUpdated EventType = "member_updated"
	EventMemberRemoved EventType = "member_removed"
)

// AllEventTypes lists every change event, in declaration order.
var AllEventTypes = []EventType{
	EventTeamCreated,
	EventTeamUpdated,
	EventTeamDeleted,
	EventMemberAdded,
	EventMemberUpdated,
	EventMemberRemoved,
}

// Event represents a change applied to the store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TeamID    int64       `json:"team_id"`
	MemberID  int64       `json:"member_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, teamID, memberID int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TeamID:    teamID,
		MemberID:  memberID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TeamPayload carries team fields after a change.
type TeamPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TeamDeletedPayload records how many members were removed with the team.
type TeamDeletedPayload struct {
	Name           string `json:"name"`
	MembersRemoved int    `json:"members_removed"`
}

// MemberPayload carries member fields after a change.
type MemberPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
