package notify

import (
	"context"
	"fmt"
	"path"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/storage"
)

// TelegramSender sends mailing payloads. Attachments travel as a binary
// upload from the blob store until the provider hands back a file_id; after
// that the cached id is used instead.
type TelegramSender struct {
	api   *tgbotapi.BotAPI
	blobs storage.BlobStore
}

func NewTelegramSender(api *tgbotapi.BotAPI, blobs storage.BlobStore) *TelegramSender {
	return &TelegramSender{api: api, blobs: blobs}
}

func (t *TelegramSender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendAttachment sends one attachment with the mailing text as caption and
// returns the provider file id observed in the response.
func (t *TelegramSender) SendAttachment(ctx context.Context, chatID int64, a hr.Attachment, caption string) (string, error) {
	file, closeFn, err := t.requestFile(a)
	if err != nil {
		return "", err
	}
	if closeFn != nil {
		defer closeFn()
	}

	var msg tgbotapi.Message
	switch a.Kind {
	case hr.AttachmentPhoto:
		cfg := tgbotapi.NewPhoto(chatID, file)
		cfg.Caption = caption
		msg, err = t.api.Send(cfg)
	case hr.AttachmentVideo:
		cfg := tgbotapi.NewVideo(chatID, file)
		cfg.Caption = caption
		msg, err = t.api.Send(cfg)
	case hr.AttachmentDocument:
		cfg := tgbotapi.NewDocument(chatID, file)
		cfg.Caption = caption
		msg, err = t.api.Send(cfg)
	default:
		return "", fmt.Errorf("unknown attachment kind %q", a.Kind)
	}
	if err != nil {
		return "", err
	}
	return fileIDFromMessage(a.Kind, msg), nil
}

// SendAlbum sends several attachments as one grouped message, caption on the
// first item. Returned file ids align with atts.
func (t *TelegramSender) SendAlbum(ctx context.Context, chatID int64, atts []hr.Attachment, caption string) ([]string, error) {
	media := make([]interface{}, 0, len(atts))
	var closers []func()
	defer func() {
		for _, c := range closers {
			c()
		}
	}()
	for i, a := range atts {
		file, closeFn, err := t.requestFile(a)
		if err != nil {
			return nil, err
		}
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
		itemCaption := ""
		if i == 0 {
			itemCaption = caption
		}
		switch a.Kind {
		case hr.AttachmentPhoto:
			m := tgbotapi.NewInputMediaPhoto(file)
			m.Caption = itemCaption
			media = append(media, m)
		case hr.AttachmentVideo:
			m := tgbotapi.NewInputMediaVideo(file)
			m.Caption = itemCaption
			media = append(media, m)
		case hr.AttachmentDocument:
			m := tgbotapi.NewInputMediaDocument(file)
			m.Caption = itemCaption
			media = append(media, m)
		default:
			return nil, fmt.Errorf("unknown attachment kind %q", a.Kind)
		}
	}

	msgs, err := t.api.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media))
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(atts))
	for i := range atts {
		if i < len(msgs) {
			ids[i] = fileIDFromMessage(atts[i].Kind, msgs[i])
		}
	}
	return ids, nil
}

func (t *TelegramSender) requestFile(a hr.Attachment) (tgbotapi.RequestFileData, func(), error) {
	if a.ProviderFileID != "" {
		return tgbotapi.FileID(a.ProviderFileID), nil, nil
	}
	rc, err := t.blobs.Get(a.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("attachment %d: %w", a.ID, err)
	}
	return tgbotapi.FileReader{Name: path.Base(a.FileKey), Reader: rc}, func() { rc.Close() }, nil
}

func fileIDFromMessage(kind string, msg tgbotapi.Message) string {
	switch kind {
	case hr.AttachmentPhoto:
		// largest size is last
		if n := len(msg.Photo); n > 0 {
			return msg.Photo[n-1].FileID
		}
	case hr.AttachmentVideo:
		if msg.Video != nil {
			return msg.Video.FileID
		}
	case hr.AttachmentDocument:
		if msg.Document != nil {
			return msg.Document.FileID
		}
	}
	return ""
}
