package http

import (
	"encoding/json"
	"net/http"

	"github.com/vuqt/mailship"
)

func (s *Server) sendNewsletterHandler(w http.ResponseWriter, r *http.Request) error {
	var issue mailship.NewsletterIssue
	if err := json.NewDecoder(r.Body).Decode(&issue); err != nil {
		return &mailship.Error{Code: mailship.ErrInvalid, Op: "decode newsletter issue", Err: err}
	}

	confirmed, err := s.SubscriptionService.SubscribersByStatus(r.Context(), mailship.StatusConfirmed)
	if err != nil {
		return &mailship.Error{Code: mailship.ErrInternal, Op: "list confirmed subscribers", Err: err}
	}

	s.EmailService.SendNewsletter(r.Context(), confirmed, &issue)

	w.WriteHeader(http.StatusOK)
	return nil
}
