package http

import (
	"net/http"

	"github.com/vuqt/mailship"
)

// confirmHandler runs the confirmation workflow: resolve the token, promote
// the subscriber to confirmed. Re-confirming is a no-op success.
func (s *Server) confirmHandler(w http.ResponseWriter, r *http.Request) error {
	token := r.URL.Query().Get("token")
	if token == "" {
		return &mailship.Error{Code: mailship.ErrInvalid, Message: "token is not present"}
	}

	subscriberID, err := s.SubscriptionService.SubscriberIDByToken(r.Context(), token)
	if err != nil {
		// a token nobody issued and a store that cannot answer read the
		// same from here
		return &mailship.Error{Code: mailship.ErrInvalid, Message: "invalid confirmation token", Err: err}
	}

	if err := s.SubscriptionService.MarkConfirmed(r.Context(), subscriberID); err != nil {
		return &mailship.Error{Code: mailship.ErrInternal, Op: "mark subscriber confirmed", Err: err}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
