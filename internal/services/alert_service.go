package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
)

// AlertService runs the periodic welfare scan. The engine evaluates
// alerts on demand for API reads; this job exists so overdue DND rooms
// get surfaced in the logs even when nobody has a dashboard open.
type AlertService struct {
	cron         *cron.Cron
	engine       *engine.Engine
	logger       *logrus.Logger
	scanSchedule string
}

// NewAlertService creates a new AlertService
func NewAlertService(eng *engine.Engine, scanSchedule string, logger *logrus.Logger) *AlertService {
	// Cron with seconds precision so sub-minute schedules work in tests
	c := cron.New(cron.WithSeconds())

	return &AlertService{
		cron:         c,
		engine:       eng,
		logger:       logger,
		scanSchedule: scanSchedule,
	}
}

// Start schedules the welfare scan job and starts the scheduler
func (s *AlertService) Start() error {
	s.logger.Info("Starting alert service...")

	// Cron format: second minute hour day month weekday
	_, err := s.cron.AddFunc(s.scanSchedule, s.welfareScanJob)
	if err != nil {
		return fmt.Errorf("failed to schedule welfare scan job: %w", err)
	}
	s.logger.WithField("schedule", s.scanSchedule).Info("Scheduled: DND welfare scan")

	s.cron.Start()
	s.logger.Info("Alert service started successfully")

	return nil
}

// Stop stops the scheduler and waits for a running scan to finish
func (s *AlertService) Stop() {
	s.logger.Info("Stopping alert service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Alert service stopped")
}

// welfareScanJob logs every room whose guest has been in do-not-disturb
// past the welfare threshold
func (s *AlertService) welfareScanJob() {
	startTime := time.Now()

	alerts := s.engine.WelfareAlerts()
	for _, room := range alerts {
		s.logger.WithFields(logrus.Fields{
			"room_id":     room.ID,
			"room_number": room.RoomNumber,
			"floor":       room.Floor,
			"dnd_since":   room.DNDSince.Time,
		}).Warn("Welfare check needed: room in DND past threshold")
	}

	s.logger.WithFields(logrus.Fields{
		"alerts":   len(alerts),
		"duration": time.Since(startTime).String(),
	}).Info("Welfare scan completed")
}
