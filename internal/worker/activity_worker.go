package worker

import (
	"github.com/spec-kit/team-service/internal/service"
)

// StartActivityWorker subscribes the activity handlers to change events.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
