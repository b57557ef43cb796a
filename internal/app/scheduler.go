package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/student_records/internal/controller/formatting"
	"github.com/Freeeeeet/student_records/internal/model"
	"go.uber.org/zap"
)

// Сколько ближайших платежей попадает в ежедневную сводку
const digestDuesLimit = 10

// FeeReporter источник данных для сводки по оплатам
type FeeReporter interface {
	FeeSummary(ctx context.Context) (model.FeeSummary, error)
	UpcomingDues(ctx context.Context) ([]*model.FeeStatus, error)
}

// Notifier доставляет готовый текст сводки, например сотрудникам в Telegram
type Notifier func(ctx context.Context, text string)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reporter FeeReporter
	notify   Notifier
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewScheduler создаёт планировщик ежедневной сводки. notify может быть nil.
func NewScheduler(reporter FeeReporter, notify Notifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reporter: reporter,
		notify:   notify,
		interval: 24 * time.Hour,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")
	go s.runDigestTask(ctx)
}

// Stop останавливает фоновые задачи, повторный вызов ничего не делает
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
}

func (s *Scheduler) runDigestTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sendDigest(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendDigest(ctx)
		case <-s.stopChan:
			s.logger.Info("Dues digest task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Dues digest task cancelled")
			return
		}
	}
}

// sendDigest собирает сводку по оплатам и ближайшие платежи
func (s *Scheduler) sendDigest(ctx context.Context) {
	summary, err := s.reporter.FeeSummary(ctx)
	if err != nil {
		s.logger.Error("Failed to build fee summary", zap.Error(err))
		return
	}

	upcoming, err := s.reporter.UpcomingDues(ctx)
	if err != nil {
		s.logger.Error("Failed to list upcoming dues", zap.Error(err))
		return
	}

	s.logger.Info("Dues digest",
		zap.Int64("ledger_rows", summary.TotalStudents),
		zap.String("total_due", summary.TotalDueFee.String()),
		zap.String("due_today", summary.TotalDueToday.String()),
		zap.Int("upcoming", len(upcoming)),
	)

	if s.notify != nil {
		s.notify(ctx, formatting.Digest(summary, upcoming, digestDuesLimit))
	}
}
