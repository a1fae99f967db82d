package mailship

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberName(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain name", "le guin", "le guin", false},
		{"trims surrounding whitespace", "  le guin  ", "le guin", false},
		{"empty", "", "", true},
		{"whitespace only", "   \t ", "", true},
		{"at the length cap", strings.Repeat("a", 256), strings.Repeat("a", 256), false},
		{"over the length cap", strings.Repeat("a", 257), "", true},
		{"combining characters count as one", strings.Repeat("á", 200), strings.Repeat("á", 200), false},
		{"combining characters at the cap", strings.Repeat("á", 256), strings.Repeat("á", 256), false},
		{"combining characters over the cap", strings.Repeat("á", 257), "", true},
		{"slash", "le/guin", "", true},
		{"parens", "le(guin)", "", true},
		{"quote", `le "guin"`, "", true},
		{"angle brackets", "<le guin>", "", true},
		{"backslash", `le\guin`, "", true},
		{"braces", "{le guin}", "", true},
		{"unicode name", "Ursula Kröber", "Ursula Kröber", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubscriberName(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrInvalid, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseSubscriberEmail(t *testing.T) {
	valid := []string{
		"ursula_le_guin@gmail.com",
		"first.last@example.co.uk",
		"user+tag@example.com",
	}
	for _, raw := range valid {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseSubscriberEmail(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, got.String())
		})
	}

	invalid := []string{
		"",
		"qwer.com",
		"@gmail.com",
		"definitely-not-an-email",
	}
	for _, raw := range invalid {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := ParseSubscriberEmail(raw)
			require.Error(t, err)
			assert.Equal(t, ErrInvalid, ErrorCode(err))
		})
	}
}

func TestParseNewSubscriber(t *testing.T) {
	ns, err := ParseNewSubscriber("le guin", "ursula_le_guin@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "le guin", ns.Name.String())
	assert.Equal(t, "ursula_le_guin@gmail.com", ns.Email.String())

	_, err = ParseNewSubscriber("", "ursula_le_guin@gmail.com")
	assert.Error(t, err)

	_, err = ParseNewSubscriber("le guin", "not-an-email")
	assert.Error(t, err)
}

func TestSubscriberID(t *testing.T) {
	a, b := NewSubscriberID(), NewSubscriberID()
	assert.NotEqual(t, a, b)

	parsed, err := ParseSubscriberID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ParseSubscriberID("not-a-uuid")
	assert.Error(t, err)
}
