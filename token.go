package mailship

import "math/rand"

const (
	tokenLength   = 25
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateSubscriptionToken returns a 25-character alphanumeric token used in
// confirmation links. The store does not expire tokens; a token stays valid
// until its subscriber confirms.
func GenerateSubscriptionToken() string {
	b := make([]byte, tokenLength)
	for i := range b {
		b[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}
