package http

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/hlog"

	"github.com/vuqt/mailship"
)

type appHandler func(w http.ResponseWriter, r *http.Request) error

// Error adapts an appHandler into an http.HandlerFunc: the full cause chain
// goes to the log (and sentry for server faults), the client only sees a
// status code.
func (s *Server) Error(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		code := mailship.ErrorCode(err)
		hlog.FromRequest(r).Error().
			Str("code", code).
			Msg(err.Error())

		if code == mailship.ErrInternal {
			sentry.CaptureException(err)
		}

		w.WriteHeader(statusFromCode(code))
	}
}

func statusFromCode(code string) int {
	switch code {
	case mailship.ErrInvalid:
		return http.StatusBadRequest
	case mailship.ErrNotFound:
		return http.StatusNotFound
	case mailship.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
