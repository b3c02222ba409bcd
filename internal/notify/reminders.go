package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

const reminderText = "🔔 Напоминание\n\nУ вас есть непройденные тесты (%d шт.).\nПожалуйста, зайдите в раздел «Квизы» и пройдите их."

type PendingStore interface {
	PendingQuizCounts(ctx context.Context) ([]hr.PendingCount, error)
}

// ReminderJob periodically nudges employees who still have quizzes to take.
type ReminderJob struct {
	store    PendingStore
	notifier Notifier
	interval time.Duration
}

func NewReminderJob(store PendingStore, notifier Notifier, interval time.Duration) *ReminderJob {
	return &ReminderJob{store: store, notifier: notifier, interval: interval}
}

func (j *ReminderJob) Run(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			j.RemindOnce(ctx)
		}
	}
}

func (j *ReminderJob) RemindOnce(ctx context.Context) {
	counts, err := j.store.PendingQuizCounts(ctx)
	if err != nil {
		slog.Error("pending quiz query failed", "err", err)
		return
	}
	for _, pc := range counts {
		if pc.Count == 0 {
			continue
		}
		j.notifier.Notify(ctx, []int64{pc.EmployeeID}, fmt.Sprintf(reminderText, pc.Count))
	}
}
