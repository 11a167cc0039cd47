package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lunchpass/lunchpass-api/internal/domain"
)

type ReportKidRepository interface {
	FindActiveWithSpendingLimits(ctx context.Context) ([]domain.Kid, error)
}

// ReportService sends each parent a summary of their kid's spending when
// a calendar month closes.
type ReportService struct {
	kidRepo  ReportKidRepository
	ledger   *LedgerService
	notifier Notifier
}

func NewReportService(kidRepo ReportKidRepository, ledger *LedgerService, notifier Notifier) *ReportService {
	return &ReportService{
		kidRepo:  kidRepo,
		ledger:   ledger,
		notifier: notifier,
	}
}

// Run blocks, firing SendMonthlyReports shortly after every month
// rollover, until ctx is canceled.
func (s *ReportService) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Until(nextMonthStart(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case now := <-timer.C:
			if err := s.SendMonthlyReports(ctx, now); err != nil {
				zap.L().Error("failed to send monthly reports", zap.Error(err))
			}
		}
	}
}

// SendMonthlyReports reports the month preceding now for every active kid
// with a spending limit.
func (s *ReportService) SendMonthlyReports(ctx context.Context, now time.Time) error {
	period := now.AddDate(0, -1, 0)

	kids, err := s.kidRepo.FindActiveWithSpendingLimits(ctx)
	if err != nil {
		return fmt.Errorf("s.kidRepo.FindActiveWithSpendingLimits -> %w", err)
	}

	for _, kid := range kids {
		spending, err := s.ledger.CurrentSpending(ctx, kid.ID, period)
		if err != nil {
			zap.L().Error("failed to read spending for report",
				zap.String("kid_id", kid.ID),
				zap.Error(err))
			continue
		}

		s.notifier.Notify(ctx, kid.ParentID, NotifyMonthlyReport,
			fmt.Sprintf("%s spent %s of %s in %s", kid.Name,
				spending.Amount.StringFixed(2),
				kid.MonthlySpendingLimit.StringFixed(2),
				period.Format("January 2006")))
	}

	return nil
}

func nextMonthStart(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month, 1, 0, 5, 0, 0, now.Location()).AddDate(0, 1, 0)
}
