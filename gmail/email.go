package gmail

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/matcornic/hermes/v2"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/vuqt/mailship"
)

// emailService delivers mail over SMTP. Confirmation emails are rendered
// with hermes so they look presentable without hand-written templates.
type emailService struct {
	ServerURL string
	*mailship.Config
}

// NewEmailService returns new SMTP email service
func NewEmailService(config *mailship.Config, serverURL string) mailship.EmailService {
	return &emailService{
		Config:    config,
		ServerURL: serverURL,
	}
}

// SendConfirmationEmail sends the double opt-in confirmation email.
func (es *emailService) SendConfirmationEmail(ctx context.Context, to mailship.SubscriberEmail, confirmationLink string) error {
	h := hermes.Hermes{
		Product: hermes.Product{
			Name: es.Config.Newsletter.Product.Name,
			Link: es.ServerURL,
		},
	}

	email := hermes.Email{
		Body: hermes.Body{
			Name: "",
			Intros: []string{
				fmt.Sprintf("Welcome to %s", es.Config.Newsletter.Product.Name),
			},
			Actions: []hermes.Action{
				{
					Instructions: "",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Confirm your subscription",
						Link:  confirmationLink,
					},
				},
			},
		},
	}

	htmlBody, err := h.GenerateHTML(email)
	if err != nil {
		return errors.Errorf("failed to generate HTML email: %v", err)
	}

	textBody, err := h.GeneratePlainText(email)
	if err != nil {
		return errors.Errorf("failed to generate plain text email: %v", err)
	}

	return es.sendEmail(to.String(), "Confirm subscription", htmlBody, textBody)
}

// SendNewsletter delivers an issue to each subscriber, skipping recipients
// that fail.
func (es *emailService) SendNewsletter(ctx context.Context, subscribers []mailship.Subscriber, issue *mailship.NewsletterIssue) {
	for _, s := range subscribers {
		if err := es.sendEmail(s.Email, issue.Subject, issue.HTMLBody, issue.TextBody); err != nil {
			sentry.CaptureException(err)
		}
	}
}

func (es *emailService) sendEmail(to, subject, htmlBody, textBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", es.Config.Email.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	d := gomail.NewDialer(es.Config.SMTP.Host, es.Config.SMTP.Port, es.Config.SMTP.Username, es.Config.SMTP.Password)
	if err := d.DialAndSend(m); err != nil {
		return errors.Errorf("failed to send mail to %s: %v", to, err)
	}

	return nil
}
