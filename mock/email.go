package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vuqt/mailship"
)

// EmailService is a testify mock of mailship.EmailService.
type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendConfirmationEmail(ctx context.Context, to mailship.SubscriberEmail, confirmationLink string) error {
	args := m.Called(ctx, to, confirmationLink)
	return args.Error(0)
}

func (m *EmailService) SendNewsletter(ctx context.Context, subscribers []mailship.Subscriber, issue *mailship.NewsletterIssue) {
	m.Called(ctx, subscribers, issue)
}
