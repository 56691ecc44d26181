package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postal/pkg/templates"
)

// MockSender is a mock implementation of Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type stubStore struct {
	tpl *templates.Template
	err error
}

func (s *stubStore) GetByName(_ context.Context, _ string) (*templates.Template, error) {
	return s.tpl, s.err
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	store := &stubStore{tpl: &templates.Template{
		Name:     "welcome",
		Subject:  "Welcome {{.name}}!",
		TextBody: "Hi {{.name}}",
	}}

	mockSender := &MockSender{}
	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.To == "ann@example.com" &&
			email.Subject == "Welcome Ann!" &&
			email.Text == "Hi Ann" &&
			email.HTML == ""
	})).Return(nil)

	m := New(store, mockSender, NewRenderer())

	err := m.Send(context.Background(), SendParams{
		To:       "ann@example.com",
		Template: "welcome",
		Data:     map[string]any{"name": "Ann"},
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(&stubStore{}, mockSender, NewRenderer())

	err := m.Send(context.Background(), SendParams{Template: "welcome"})
	require.ErrorIs(t, err, ErrNoRecipient)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Send_TemplateNotFound(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(&stubStore{err: templates.ErrNotFound}, mockSender, NewRenderer())

	err := m.Send(context.Background(), SendParams{
		To:       "a@b.com",
		Template: "missing",
	})
	require.ErrorIs(t, err, templates.ErrNotFound)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Send_SenderFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{tpl: &templates.Template{Subject: "S", TextBody: "T"}}

	sendErr := errors.New("smtp down")
	mockSender := &MockSender{}
	mockSender.On("Send", mock.Anything, mock.Anything).Return(sendErr)

	m := New(store, mockSender, NewRenderer())

	err := m.Send(context.Background(), SendParams{To: "a@b.com", Template: "t"})
	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, sendErr)
}

func TestMailer_SendRaw(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	mockSender.On("Send", mock.Anything, mock.Anything).Return(nil)

	m := New(&stubStore{}, mockSender, NewRenderer())

	err := m.SendRaw(context.Background(), &Email{
		To:      "a@b.com",
		Subject: "Hello",
		Text:    "Hi",
	})
	require.NoError(t, err)

	err = m.SendRaw(context.Background(), &Email{Subject: "Hello"})
	require.ErrorIs(t, err, ErrNoRecipient)
}
