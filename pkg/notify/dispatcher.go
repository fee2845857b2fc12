package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

// LogDispatcher only logs notifications. It is used when no queue is configured.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Enqueue(ctx context.Context, n model.Notification) {
	d.logger.Info("Notification not delivered, no queue configured",
		zap.String("notification_id", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.String("project_id", n.Participant.ProjectID),
		zap.String("volunteer_id", n.Participant.VolunteerID))
}
