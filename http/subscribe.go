package http

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vuqt/mailship"
)

// subscriptionsHandler runs the subscription workflow: validate the form,
// insert the pending subscriber and its confirmation token in one
// transaction, then send the confirmation email. Once the transaction has
// committed the subscriber stays pending even if the send fails.
func (s *Server) subscriptionsHandler(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return &mailship.Error{Code: mailship.ErrInvalid, Op: "parse subscription form", Err: err}
	}

	newSubscriber, err := mailship.ParseNewSubscriber(r.PostFormValue("name"), r.PostFormValue("email"))
	if err != nil {
		return err
	}

	ctx := r.Context()
	logger := hlog.FromRequest(r)

	tx, err := s.SubscriptionService.BeginTx(ctx)
	if err != nil {
		return &mailship.Error{Code: mailship.ErrInternal, Op: "begin transaction", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	logger.Info().Str("email", newSubscriber.Email.String()).Msg("Saving new subscriber into the database")
	subscriberID, err := s.SubscriptionService.InsertSubscriber(ctx, tx, newSubscriber)
	if err != nil {
		return &mailship.Error{Code: mailship.ErrInternal, Op: "insert subscriber", Err: err}
	}

	token := mailship.GenerateSubscriptionToken()
	if err := s.SubscriptionService.StoreToken(ctx, tx, subscriberID, token); err != nil {
		return &mailship.Error{Code: mailship.ErrInternal, Op: "store subscription token", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &mailship.Error{Code: mailship.ErrInternal, Op: "commit transaction", Err: err}
	}

	confirmationLink := fmt.Sprintf("%s/subscriptions/confirm?token=%s", s.baseURL(), token)
	logger.Info().Msg("Sending confirmation email")
	if err := s.EmailService.SendConfirmationEmail(ctx, newSubscriber.Email, confirmationLink); err != nil {
		return &mailship.Error{Code: mailship.ErrInternal, Op: "send confirmation email", Err: err}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
