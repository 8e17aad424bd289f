package worker

import (
	"github.com/eventhub-dev/eventhub/internal/service"
)

// StartActivityWorker subscribes the activity log to domain events.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
