package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/team-service/internal/events"
	"github.com/spec-kit/team-service/internal/observability"
)

// ActivityService reacts to change events: it records them and keeps cached reads fresh.
type ActivityService struct {
	dispatcher events.Dispatcher
	cache      TeamListCache
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, cache TeamListCache, metrics *observability.Metrics, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		dispatcher: dispatcher,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every change event.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	events.SubscribeAll(a.dispatcher, a.invalidateTeamList)
	events.SubscribeAll(a.dispatcher, a.record)
}

// invalidateTeamList runs first so the next list read after a mutation hits the store.
func (a *ActivityService) invalidateTeamList(ctx context.Context, event events.Event) error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Invalidate(ctx)
}

func (a *ActivityService) record(_ context.Context, event events.Event) error {
	a.metrics.RecordMutation(string(event.Type))
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event", string(event.Type)),
		zap.Int64("team_id", event.TeamID),
		zap.Any("payload", event.Payload),
	}
	if event.MemberID != 0 {
		fields = append(fields, zap.Int64("member_id", event.MemberID))
	}
	a.logger.Info("activity", fields...)
	return nil
}
