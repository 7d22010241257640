package notification

import (
	"context"
)

type Type string

const (
	TypeAttendanceAutoClosed Type = "attendance_auto_closed"
	TypeAutoLeaveGenerated   Type = "auto_leave_generated"
	TypePenaltyRefunded      Type = "penalty_refunded"
)

// Notification describes a message the engine decided is warranted. Delivery
// is the host's concern; the engine never talks to a mail or push gateway.
type Notification struct {
	CompanyID   string
	RecipientID string
	Type        Type
	Title       string
	Message     string
	Data        map[string]interface{}
}

type Service interface {
	// QueueNotification records that a notification is warranted. Best-effort;
	// callers ignore the error on batch paths.
	QueueNotification(ctx context.Context, notification Notification) error
}
