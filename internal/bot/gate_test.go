package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) lastMessageText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok, "last sent item is not a message")
	return msg.Text
}

type fakeGateStore struct {
	employees map[int64]hr.Employee
	created   []hr.Employee
}

func newFakeGateStore() *fakeGateStore {
	return &fakeGateStore{employees: map[int64]hr.Employee{}}
}

func (f *fakeGateStore) GetEmployee(_ context.Context, id int64) (hr.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return hr.Employee{}, hr.ErrNotFound
	}
	return e, nil
}

func (f *fakeGateStore) CreateEmployee(_ context.Context, e hr.Employee) error {
	f.employees[e.ID] = e
	f.created = append(f.created, e)
	return nil
}

func (f *fakeGateStore) DocumentsByDepartment(context.Context, int64) ([]hr.Document, error) {
	return nil, nil
}
func (f *fakeGateStore) GetDocument(context.Context, int64) (hr.Document, error) {
	return hr.Document{}, hr.ErrNotFound
}
func (f *fakeGateStore) AboutSections(context.Context) ([]hr.AboutSection, error) { return nil, nil }
func (f *fakeGateStore) GetAboutSection(context.Context, int64) (hr.AboutSection, error) {
	return hr.AboutSection{}, hr.ErrNotFound
}
func (f *fakeGateStore) HelpContent(context.Context) (hr.HelpContent, error) {
	return hr.HelpContent{}, nil
}

func newTestBot() (*Bot, *fakeSender, *fakeGateStore) {
	api := &fakeSender{}
	store := newFakeGateStore()
	return &Bot{api: api, store: store}, api, store
}

func TestGateAutoRegistersUnknownUser(t *testing.T) {
	b, api, store := newTestBot()
	from := &tgbotapi.User{ID: 500, UserName: "newbie", FirstName: "Ann"}

	_, ok := b.resolveEmployee(context.Background(), from, "")
	assert.False(t, ok)

	require.Len(t, store.created, 1)
	assert.Equal(t, int64(500), store.created[0].ID)
	assert.Equal(t, "newbie", store.created[0].Username)
	assert.False(t, store.created[0].IsActive)

	assert.Equal(t, textRegistered, api.lastMessageText(t))
}

func TestGateBlocksInactiveEmployee(t *testing.T) {
	b, api, store := newTestBot()
	store.employees[500] = hr.Employee{ID: 500, Username: "waiting"}

	_, ok := b.resolveEmployee(context.Background(), &tgbotapi.User{ID: 500}, "")
	assert.False(t, ok)
	assert.Empty(t, store.created)
	assert.Equal(t, textPendingApprove, api.lastMessageText(t))
}

func TestGatePassesActiveEmployee(t *testing.T) {
	b, api, store := newTestBot()
	dep := int64(3)
	store.employees[500] = hr.Employee{ID: 500, IsActive: true, DepartmentID: &dep}

	emp, ok := b.resolveEmployee(context.Background(), &tgbotapi.User{ID: 500}, "")
	assert.True(t, ok)
	assert.Equal(t, int64(500), emp.ID)
	assert.Empty(t, api.sent)
	assert.Empty(t, api.requests)
}

func TestGateAnswersCallbackWithAlert(t *testing.T) {
	b, api, store := newTestBot()
	store.employees[500] = hr.Employee{ID: 500}

	_, ok := b.resolveEmployee(context.Background(), &tgbotapi.User{ID: 500}, "cb-1")
	assert.False(t, ok)

	// held at the door via a callback alert, not a chat message
	assert.Empty(t, api.sent)
	require.Len(t, api.requests, 1)
	cb, isCallback := api.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, isCallback)
	assert.Equal(t, textPendingApprove, cb.Text)
	assert.True(t, cb.ShowAlert)
}
