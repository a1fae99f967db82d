package mailship

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/rivo/uniseg"
	uuid "github.com/satori/go.uuid"
)

const maxNameLength = 256

// forbiddenNameCharacters would let a subscriber name smuggle markup or
// path fragments into rendered pages and logs.
const forbiddenNameCharacters = `/()"<>\{}`

// SubscriberName is a validated, trimmed subscriber name.
// The zero value is invalid; use ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw and returns it trimmed.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SubscriberName{}, &Error{Code: ErrInvalid, Message: "subscriber name must not be empty"}
	}
	if uniseg.GraphemeClusterCount(trimmed) > maxNameLength {
		return SubscriberName{}, &Error{
			Code:    ErrInvalid,
			Message: fmt.Sprintf("subscriber name must not exceed %d characters", maxNameLength),
		}
	}
	if strings.ContainsAny(trimmed, forbiddenNameCharacters) {
		return SubscriberName{}, &Error{Code: ErrInvalid, Message: "subscriber name contains a forbidden character"}
	}

	return SubscriberName{value: trimmed}, nil
}

func (n SubscriberName) String() string {
	return n.value
}

// SubscriberEmail is a validated email address. Beyond the grammar check at
// construction it is opaque: it only exposes its raw string.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw against a standard email address grammar.
// No network verification is performed.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if !govalidator.IsEmail(raw) {
		return SubscriberEmail{}, &Error{
			Code:    ErrInvalid,
			Message: fmt.Sprintf("%q is not a valid email address", raw),
		}
	}

	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}

// NewSubscriber is a not-yet-persisted subscriber. It only lives for the
// duration of one subscribe request.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// ParseNewSubscriber builds a NewSubscriber from raw form fields.
func ParseNewSubscriber(name, email string) (NewSubscriber, error) {
	subscriberName, err := ParseSubscriberName(name)
	if err != nil {
		return NewSubscriber{}, err
	}

	subscriberEmail, err := ParseSubscriberEmail(email)
	if err != nil {
		return NewSubscriber{}, err
	}

	return NewSubscriber{Name: subscriberName, Email: subscriberEmail}, nil
}

// SubscriberID identifies a subscriber. It is generated server-side at
// insertion time and never supplied by the client.
type SubscriberID struct {
	uuid.UUID
}

// NewSubscriberID returns a new random v4 id.
func NewSubscriberID() SubscriberID {
	return SubscriberID{uuid.NewV4()}
}

// ParseSubscriberID parses the canonical string form of an id.
func ParseSubscriberID(s string) (SubscriberID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return SubscriberID{}, fmt.Errorf("invalid subscriber id %q: %w", s, err)
	}
	return SubscriberID{id}, nil
}
