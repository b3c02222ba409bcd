package notify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

// MailingStore is the slice of the content store the runner needs.
type MailingStore interface {
	DueMailings(ctx context.Context, now int64) ([]hr.Mailing, error)
	MailingAttachments(ctx context.Context, mailingID int64) ([]hr.Attachment, error)
	MailingRecipients(ctx context.Context, mailingID int64) ([]int64, error)
	SetAttachmentFileID(ctx context.Context, attachmentID int64, fileID string) error
	MarkMailingSent(ctx context.Context, id int64) error
}

// Sender delivers one mailing payload to one chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendAttachment(ctx context.Context, chatID int64, a hr.Attachment, caption string) (fileID string, err error)
	SendAlbum(ctx context.Context, chatID int64, atts []hr.Attachment, caption string) ([]string, error)
}

// Runner polls for due mailings and fans each one out through a bounded,
// rate-limited worker pool.
type Runner struct {
	store   MailingStore
	sender  Sender
	limiter *rate.Limiter
	workers int
	poll    time.Duration
}

func NewRunner(store MailingStore, sender Sender, perSecond float64, workers int, poll time.Duration) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		store:   store,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		workers: workers,
		poll:    poll,
	}
}

func (r *Runner) Run(ctx context.Context) {
	t := time.NewTicker(r.poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.dispatchDue(ctx)
		}
	}
}

func (r *Runner) dispatchDue(ctx context.Context) {
	due, err := r.store.DueMailings(ctx, time.Now().Unix())
	if err != nil {
		slog.Error("mailing poll failed", "err", err)
		return
	}
	for _, m := range due {
		if err := r.Dispatch(ctx, m); err != nil {
			slog.Error("mailing dispatch failed", "mailing_id", m.ID, "err", err)
		}
	}
}

// Dispatch delivers one mailing to all of its recipients and marks it sent.
// Per-recipient failures are logged and skipped; delivery is best-effort.
func (r *Runner) Dispatch(ctx context.Context, m hr.Mailing) error {
	atts, err := r.store.MailingAttachments(ctx, m.ID)
	if err != nil {
		return err
	}
	recipients, err := r.store.MailingRecipients(ctx, m.ID)
	if err != nil {
		return err
	}

	if len(recipients) > 0 {
		// The first send uploads any attachment binaries and memoizes the
		// provider file ids; the pool afterwards only reuses the cached ids.
		if err := r.sendOne(ctx, recipients[0], m, atts, true); err != nil {
			slog.Warn("mailing send failed", "mailing_id", m.ID, "chat_id", recipients[0], "err", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for _, chatID := range recipients[1:] {
			chatID := chatID
			g.Go(func() error {
				if err := r.sendOne(gctx, chatID, m, atts, false); err != nil {
					slog.Warn("mailing send failed", "mailing_id", m.ID, "chat_id", chatID, "err", err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	return r.store.MarkMailingSent(ctx, m.ID)
}

func (r *Runner) sendOne(ctx context.Context, chatID int64, m hr.Mailing, atts []hr.Attachment, memoize bool) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	switch len(atts) {
	case 0:
		return r.sender.SendText(ctx, chatID, m.Text)
	case 1:
		fileID, err := r.sender.SendAttachment(ctx, chatID, atts[0], m.Text)
		if err != nil {
			return err
		}
		if memoize && atts[0].ProviderFileID == "" && fileID != "" {
			if err := r.store.SetAttachmentFileID(ctx, atts[0].ID, fileID); err != nil {
				slog.Warn("file_id memoize failed", "attachment_id", atts[0].ID, "err", err)
			} else {
				atts[0].ProviderFileID = fileID
			}
		}
		return nil
	default:
		fileIDs, err := r.sender.SendAlbum(ctx, chatID, atts, m.Text)
		if err != nil {
			return err
		}
		if memoize {
			for i := range atts {
				if atts[i].ProviderFileID != "" || i >= len(fileIDs) || fileIDs[i] == "" {
					continue
				}
				if err := r.store.SetAttachmentFileID(ctx, atts[i].ID, fileIDs[i]); err != nil {
					slog.Warn("file_id memoize failed", "attachment_id", atts[i].ID, "err", err)
				} else {
					atts[i].ProviderFileID = fileIDs[i]
				}
			}
		}
		return nil
	}
}
