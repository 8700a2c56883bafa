package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	first := errors.New("first")

	d.Subscribe(EventTeamCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "a:"+string(e.Type))
		return first
	})
	d.Subscribe(EventTeamCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "b:"+string(e.Type))
		return nil
	})
	d.Subscribe(EventTeamDeleted, func(context.Context, Event) error {
		calls = append(calls, "unexpected")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventTeamCreated, 1, 0, nil))
	require.ErrorIs(t, err, first)
	require.Equal(t, []string{"a:team_created", "b:team_created"}, calls)
}

func TestSubscribeAllCoversEveryEvent(t *testing.T) {
	d := NewInMemoryDispatcher()
	seen := map[EventType]int{}
	SubscribeAll(d, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, typ := range AllEventTypes {
		require.NoError(t, d.Publish(context.Background(), NewEvent(typ, 1, 2, nil)))
	}
	require.Len(t, seen, len(AllEventTypes))
	for _, typ := range AllEventTypes {
		require.Equal(t, 1, seen[typ])
	}
}

func TestNewEventStampsIdentity(t *testing.T) {
	a := NewEvent(EventMemberAdded, 3, 9, MemberPayload{Name: "Bob"})
	b := NewEvent(EventMemberAdded, 3, 9, nil)
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, int64(3), a.TeamID)
	require.Equal(t, int64(9), a.MemberID)
	require.False(t, a.Timestamp.IsZero())
}

func TestPublishLabelsFailuresAndIgnoresNilHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	d.Subscribe(EventMemberRemoved, nil)
	d.Subscribe(EventMemberRemoved, func(context.Context, Event) error { return nil })
	d.Subscribe(EventMemberRemoved, func(context.Context, Event) error { return boom })

	err := d.Publish(context.Background(), NewEvent(EventMemberRemoved, 1, 2, nil))
	require.ErrorIs(t, err, boom)
	require.EqualError(t, err, "member_removed subscriber 1: boom")
}

func TestHandlerMaySubscribeWhilePublishing(t *testing.T) {
	d := NewInMemoryDispatcher()
	late := 0
	d.Subscribe(EventTeamUpdated, func(context.Context, Event) error {
		d.Subscribe(EventTeamUpdated, func(context.Context, Event) error {
			late++
			return nil
		})
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventTeamUpdated, 1, 0, nil)))
	require.Zero(t, late)
	require.NoError(t, d.Publish(context.Background(), NewEvent(EventTeamUpdated, 1, 0, nil)))
	require.Equal(t, 1, late)
}
