package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/welcomedesk/welcomedesk/internal/outbox"
)

const (
	newDocumentText = "📚 Появился новый документ: «%s».\n\nВы можете найти его в разделе «Мои документы»."
	newQuizText     = "❓ Добавлен новый тест: «%s».\n\nПожалуйста, пройдите его в разделе «Квизы»."
)

// Directory resolves the audience of an announcement.
type Directory interface {
	ActiveEmployeesByDepartments(ctx context.Context, departmentIDs []int64) ([]int64, error)
}

// Dispatcher drains the outbox: new-document and new-quiz events become
// announcements to the owning departments. Events are marked processed even
// when delivery fails — announcements are best-effort, the outbox only
// guarantees they are attempted at least once after commit.
type Dispatcher struct {
	events   *outbox.Repo
	dir      Directory
	notifier Notifier
	poll     time.Duration
}

func NewDispatcher(events *outbox.Repo, dir Directory, notifier Notifier, poll time.Duration) *Dispatcher {
	return &Dispatcher{events: events, dir: dir, notifier: notifier, poll: poll}
}

func (d *Dispatcher) Run(ctx context.Context) {
	t := time.NewTicker(d.poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.drain(ctx)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	events, err := d.events.Unprocessed(ctx, 50)
	if err != nil {
		slog.Error("outbox poll failed", "err", err)
		return
	}
	for _, e := range events {
		if err := d.handle(ctx, e); err != nil {
			slog.Warn("outbox event failed", "offset", e.Offset, "type", e.Type, "err", err)
		}
		if err := d.events.MarkProcessed(ctx, e.Offset); err != nil {
			slog.Error("outbox mark failed", "offset", e.Offset, "err", err)
			return
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, e outbox.Event) error {
	var payload struct {
		Title         string  `json:"title"`
		DepartmentIDs []int64 `json:"department_ids"`
	}
	if err := json.Unmarshal([]byte(e.DataJSON), &payload); err != nil {
		return err
	}
	var text string
	switch e.Type {
	case outbox.TypeDocumentCreated:
		text = fmt.Sprintf(newDocumentText, payload.Title)
	case outbox.TypeQuizCreated:
		text = fmt.Sprintf(newQuizText, payload.Title)
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if len(payload.DepartmentIDs) == 0 {
		return nil
	}
	ids, err := d.dir.ActiveEmployeesByDepartments(ctx, payload.DepartmentIDs)
	if err != nil {
		return err
	}
	d.notifier.Notify(ctx, ids, text)
	return nil
}
