package service

import (
	"context"

	"go.uber.org/zap"
)

type NotificationKind string

const (
	NotifyOrderConfirmed NotificationKind = "order_confirmed"
	NotifyLowBalance     NotificationKind = "low_balance"
	NotifyLimitReached   NotificationKind = "limit_reached"
	NotifyMonthlyReport  NotificationKind = "monthly_report"
)

// Notifier delivers a best-effort message to a user. Implementations must
// never block a checkout; failures are swallowed and logged.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind NotificationKind, message string)
}

// LogNotifier is the default Notifier; it writes notifications to the
// application log. A push or email channel can replace it without touching
// the order pipeline.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, userID string, kind NotificationKind, message string) {
	zap.L().Info("notification",
		zap.String("user_id", userID),
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)
}
