package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/titan-observatory/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to site events.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker started")
	}
}
