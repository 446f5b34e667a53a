package worker

import (
	"github.com/spec-kit/ticket-tracker/internal/service"
)

// StartActivityWorker registers activity log handlers.
func StartActivityWorker(activity *service.ActivityService) {
	if activity == nil {
		return
	}
	activity.RegisterHandlers()
}
