package notification

import (
	"context"
	"log/slog"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/notification"
)

// logService is the default Notifier: it records the decision in the
// operational log and leaves delivery to an external collaborator.
type logService struct{}

func NewLogService() notification.Service {
	return &logService{}
}

func (s *logService) QueueNotification(ctx context.Context, n notification.Notification) error {
	slog.Info("Notification queued",
		"type", n.Type,
		"company_id", n.CompanyID,
		"recipient_id", n.RecipientID,
		"title", n.Title,
	)
	return nil
}
