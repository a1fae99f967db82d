package postmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/vuqt/mailship"
)

// emailService delivers mail through a Postmark-style HTTP endpoint.
type emailService struct {
	client  *http.Client
	baseURL string
	sender  string
}

// NewEmailService returns an email service posting to the endpoint in config.
// The client timeout bounds every send; a timed-out send is a failed send.
func NewEmailService(config *mailship.Config) mailship.EmailService {
	return &emailService{
		client: &http.Client{
			Timeout: config.Email.Timeout,
		},
		baseURL: config.Email.BaseURL,
		sender:  config.Email.From,
	}
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendConfirmationEmail sends the double opt-in confirmation email.
func (es *emailService) SendConfirmationEmail(ctx context.Context, to mailship.SubscriberEmail, confirmationLink string) error {
	htmlBody := fmt.Sprintf(
		`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`,
		confirmationLink)
	textBody := fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		confirmationLink)

	return es.sendEmail(ctx, to.String(), "Welcome!", htmlBody, textBody)
}

// SendNewsletter delivers an issue to each subscriber. A failed recipient is
// reported and skipped, it does not stop the rest of the run.
func (es *emailService) SendNewsletter(ctx context.Context, subscribers []mailship.Subscriber, issue *mailship.NewsletterIssue) {
	for _, s := range subscribers {
		if err := es.sendEmail(ctx, s.Email, issue.Subject, issue.HTMLBody, issue.TextBody); err != nil {
			sentry.CaptureException(err)
		}
	}
}

func (es *emailService) sendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	body, err := json.Marshal(sendEmailRequest{
		From:     es.sender,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode email request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, es.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build email request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := es.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to send mail to %s", to)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("email endpoint returned %s sending to %s", resp.Status, to)
	}

	return nil
}
