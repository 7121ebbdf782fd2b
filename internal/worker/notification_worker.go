package worker

import (
	"github.com/campus-eco/ecopledge-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to the
// domain events it cares about. Dispatch is synchronous and in-process.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
