// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневный отчёт администраторам.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	report   *Report
	admins   []int64
	sendFunc func(userID int64, text string)
}

// NewScheduler создаёт планировщик в часовом поясе loc.
func NewScheduler(loc *time.Location, schedule string, report *Report, admins []int64, sendFunc func(userID int64, text string)) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		report:   report,
		admins:   admins,
		sendFunc: sendFunc,
	}
}

// Start регистрирует задачи и запускает cron.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		log.Info("[CRON] Ежедневный отчёт")
		if err := s.SendReport(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка отчёта")
		}
	}); err != nil {
		return fmt.Errorf("cron %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.WithField("schedule", s.schedule).Info("Планировщик задач запущен")
	return nil
}

// SendReport собирает отчёт один раз и рассылает его всем администраторам.
func (s *Scheduler) SendReport(ctx context.Context) error {
	text, err := s.report.Build(ctx)
	if err != nil {
		return err
	}
	for _, id := range s.admins {
		s.sendFunc(id, text)
	}
	log.WithField("admins", len(s.admins)).Debug("[CRON] Отчёт разослан")
	return nil
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
