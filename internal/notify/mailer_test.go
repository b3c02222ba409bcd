package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/notify"
)

/* ---------------- fakes ---------------- */

type fakeMailingStore struct {
	mu         sync.Mutex
	mailings   map[int64]hr.Mailing
	atts       map[int64][]hr.Attachment
	recipients map[int64][]int64
	fileIDs    map[int64]string
	sent       map[int64]bool
}

func newFakeMailingStore() *fakeMailingStore {
	return &fakeMailingStore{
		mailings:   map[int64]hr.Mailing{},
		atts:       map[int64][]hr.Attachment{},
		recipients: map[int64][]int64{},
		fileIDs:    map[int64]string{},
		sent:       map[int64]bool{},
	}
}

func (s *fakeMailingStore) DueMailings(_ context.Context, now int64) ([]hr.Mailing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []hr.Mailing
	for _, m := range s.mailings {
		if !s.sent[m.ID] && m.ScheduledAt <= now {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMailingStore) MailingAttachments(_ context.Context, id int64) ([]hr.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hr.Attachment, len(s.atts[id]))
	copy(out, s.atts[id])
	for i := range out {
		if fid, ok := s.fileIDs[out[i].ID]; ok {
			out[i].ProviderFileID = fid
		}
	}
	return out, nil
}

func (s *fakeMailingStore) MailingRecipients(_ context.Context, id int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipients[id], nil
}

func (s *fakeMailingStore) SetAttachmentFileID(_ context.Context, attID int64, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileIDs[attID] = fileID
	return nil
}

func (s *fakeMailingStore) MarkMailingSent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[id] = true
	return nil
}

type sentItem struct {
	chatID int64
	kind   string // text|attachment|album
	att    hr.Attachment
	atts   []hr.Attachment
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentItem
	fail    map[int64]error // per chat id
	nextFID int
}

func (f *fakeSender) record(it sentItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, it)
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	if err := f.fail[chatID]; err != nil {
		return err
	}
	f.record(sentItem{chatID: chatID, kind: "text"})
	return nil
}

func (f *fakeSender) SendAttachment(_ context.Context, chatID int64, a hr.Attachment, _ string) (string, error) {
	if err := f.fail[chatID]; err != nil {
		return "", err
	}
	f.record(sentItem{chatID: chatID, kind: "attachment", att: a})
	if a.ProviderFileID != "" {
		return a.ProviderFileID, nil
	}
	f.mu.Lock()
	f.nextFID++
	fid := "fid-" + string(rune('a'+f.nextFID))
	f.mu.Unlock()
	return fid, nil
}

func (f *fakeSender) SendAlbum(_ context.Context, chatID int64, atts []hr.Attachment, _ string) ([]string, error) {
	if err := f.fail[chatID]; err != nil {
		return nil, err
	}
	f.record(sentItem{chatID: chatID, kind: "album", atts: atts})
	out := make([]string, len(atts))
	for i, a := range atts {
		if a.ProviderFileID != "" {
			out[i] = a.ProviderFileID
			continue
		}
		f.mu.Lock()
		f.nextFID++
		out[i] = "fid-" + string(rune('a'+f.nextFID))
		f.mu.Unlock()
	}
	return out, nil
}

func (f *fakeSender) byChat(chatID int64) []sentItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentItem
	for _, it := range f.sent {
		if it.chatID == chatID {
			out = append(out, it)
		}
	}
	return out
}

/* ---------------- tests ---------------- */

func newRunner(store notify.MailingStore, sender notify.Sender) *notify.Runner {
	return notify.NewRunner(store, sender, 1000, 4, time.Minute)
}

func TestDispatchTextOnly(t *testing.T) {
	store := newFakeMailingStore()
	sender := &fakeSender{}
	m := hr.Mailing{ID: 1, Text: "hello"}
	store.mailings[1] = m
	store.recipients[1] = []int64{10, 11, 12}

	require.NoError(t, newRunner(store, sender).Dispatch(context.Background(), m))

	assert.Len(t, sender.sent, 3)
	for _, chat := range []int64{10, 11, 12} {
		require.Len(t, sender.byChat(chat), 1)
		assert.Equal(t, "text", sender.byChat(chat)[0].kind)
	}
	assert.True(t, store.sent[1])
}

func TestDispatchMemoizesFileID(t *testing.T) {
	store := newFakeMailingStore()
	sender := &fakeSender{}
	m := hr.Mailing{ID: 1, Text: "photo time"}
	store.mailings[1] = m
	store.atts[1] = []hr.Attachment{{ID: 5, MailingID: 1, Kind: hr.AttachmentPhoto, FileKey: "mailings/p.jpg"}}
	store.recipients[1] = []int64{10, 11}

	require.NoError(t, newRunner(store, sender).Dispatch(context.Background(), m))

	// the first recipient got the raw upload, the cached id was stored
	fid, ok := store.fileIDs[5]
	require.True(t, ok)
	require.NotEmpty(t, fid)

	// the pooled recipient reused the memoized id
	items := sender.byChat(11)
	require.Len(t, items, 1)
	assert.Equal(t, fid, items[0].att.ProviderFileID)
}

func TestDispatchAlbum(t *testing.T) {
	store := newFakeMailingStore()
	sender := &fakeSender{}
	m := hr.Mailing{ID: 1, Text: "two pics"}
	store.mailings[1] = m
	store.atts[1] = []hr.Attachment{
		{ID: 5, MailingID: 1, Kind: hr.AttachmentPhoto, FileKey: "mailings/a.jpg"},
		{ID: 6, MailingID: 1, Kind: hr.AttachmentVideo, FileKey: "mailings/b.mp4"},
	}
	store.recipients[1] = []int64{10}

	require.NoError(t, newRunner(store, sender).Dispatch(context.Background(), m))

	items := sender.byChat(10)
	require.Len(t, items, 1)
	assert.Equal(t, "album", items[0].kind)
	assert.Len(t, items[0].atts, 2)
	assert.NotEmpty(t, store.fileIDs[5])
	assert.NotEmpty(t, store.fileIDs[6])
}

func TestDispatchSkipsFailedRecipients(t *testing.T) {
	store := newFakeMailingStore()
	sender := &fakeSender{fail: map[int64]error{11: errors.New("blocked by user")}}
	m := hr.Mailing{ID: 1, Text: "hello"}
	store.mailings[1] = m
	store.recipients[1] = []int64{10, 11, 12}

	require.NoError(t, newRunner(store, sender).Dispatch(context.Background(), m))

	assert.Len(t, sender.byChat(10), 1)
	assert.Empty(t, sender.byChat(11))
	assert.Len(t, sender.byChat(12), 1)
	assert.True(t, store.sent[1], "one blocked chat must not hold the mailing")
}

func TestDispatchNoRecipients(t *testing.T) {
	store := newFakeMailingStore()
	sender := &fakeSender{}
	m := hr.Mailing{ID: 1, Text: "nobody here"}
	store.mailings[1] = m

	require.NoError(t, newRunner(store, sender).Dispatch(context.Background(), m))
	assert.Empty(t, sender.sent)
	assert.True(t, store.sent[1])
}
