package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// Scheduler фоновые задачи сервиса по расписанию cron (с секундами)
type Scheduler struct {
	cron        *cron.Cron
	bookingRepo BookingRepository
	now         func() time.Time
	logger      Logger
}

// NewScheduler создаёт планировщик; задачи регистрируются через Register*
func NewScheduler(bookingRepo BookingRepository, location *time.Location, logger Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithSeconds(),
		),
		bookingRepo: bookingRepo,
		now:         time.Now,
		logger:      logger,
	}
}

// RegisterCompleteBookings переводит завершившиеся бронирования в completed по расписанию schedule
func (s *Scheduler) RegisterCompleteBookings(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.completeBookings); err != nil {
		return fmt.Errorf("failed to register complete bookings job %q: %w", schedule, err)
	}

	s.logger.Info("Jobs: complete bookings scheduled at %q", schedule)
	return nil
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Jobs: scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop останавливается и ждёт завершения выполняющихся задач
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Jobs: scheduler stopped")
}

// completeBookings одна итерация задачи
func (s *Scheduler) completeBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	completed, err := s.bookingRepo.CompleteFinished(ctx, s.now())
	if err != nil {
		s.logger.Error("Jobs: failed to complete finished bookings: %v", err)
		return
	}

	if completed > 0 {
		s.logger.Info("Jobs: %d bookings marked as completed", completed)
	}
}
