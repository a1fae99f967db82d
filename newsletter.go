package mailship

import "context"

// NewsletterIssue is a single edition delivered to confirmed subscribers.
type NewsletterIssue struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// EmailService is the interface that wraps outbound email delivery.
//
// SendConfirmationEmail performs a single send and reports any failure to the
// caller; nothing is retried. SendNewsletter delivers an issue to each
// subscriber on a best-effort basis and reports per-recipient failures out of
// band.
type EmailService interface {
	SendConfirmationEmail(ctx context.Context, to SubscriberEmail, confirmationLink string) error
	SendNewsletter(ctx context.Context, subscribers []Subscriber, issue *NewsletterIssue)
}
