package postmark

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuqt/mailship"
)

func newTestService(baseURL string) mailship.EmailService {
	config := &mailship.Config{}
	config.Email.From = "newsletter@mailship.test"
	config.Email.BaseURL = baseURL
	config.Email.Timeout = 200 * time.Millisecond
	return NewEmailService(config)
}

func subscriberEmail(t *testing.T) mailship.SubscriberEmail {
	t.Helper()

	email, err := mailship.ParseSubscriberEmail("ursula_le_guin@gmail.com")
	require.NoError(t, err)
	return email
}

func TestSendConfirmationEmail(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	link := "http://localhost:8080/subscriptions/confirm?token=abcdefghijklmnopqrstuvwxy"
	err := svc.SendConfirmationEmail(context.Background(), subscriberEmail(t), link)
	require.NoError(t, err)

	assert.Equal(t, "/email", gotPath)
	assert.Equal(t, "newsletter@mailship.test", gotBody["From"])
	assert.Equal(t, "ursula_le_guin@gmail.com", gotBody["To"])
	assert.Equal(t, "Welcome!", gotBody["Subject"])
	assert.Contains(t, gotBody["HtmlBody"], link)
	assert.Contains(t, gotBody["TextBody"], link)
}

func TestSendConfirmationEmail_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	err := svc.SendConfirmationEmail(context.Background(), subscriberEmail(t), "http://localhost/confirm")
	assert.Error(t, err)
}

func TestSendConfirmationEmail_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	err := svc.SendConfirmationEmail(context.Background(), subscriberEmail(t), "http://localhost/confirm")
	assert.Error(t, err)
}

func TestSendNewsletter_KeepsGoingAfterFailure(t *testing.T) {
	var recipients []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		recipients = append(recipients, body["To"])
		if body["To"] == "broken@example.com" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	subscribers := []mailship.Subscriber{
		{Email: "broken@example.com", Status: mailship.StatusConfirmed},
		{Email: "ursula_le_guin@gmail.com", Status: mailship.StatusConfirmed},
	}
	svc.SendNewsletter(context.Background(), subscribers, &mailship.NewsletterIssue{
		Subject:  "Issue #1",
		HTMLBody: "<p>hello</p>",
		TextBody: "hello",
	})

	assert.Equal(t, []string{"broken@example.com", "ursula_le_guin@gmail.com"}, recipients)
}
